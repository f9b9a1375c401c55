package cmd

import (
	"math"
	"testing"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		in   []float64
		want string
	}{
		{[]float64{1, 2, 3, 4, 5, 6, 7, 8}, "▁▂▃▄▅▆▇█"},
		{[]float64{5, 5, 5}, "▅▅▅"},
		{[]float64{0, math.NaN(), 10}, "▁ █"},
		{[]float64{math.NaN(), math.NaN()}, "  "},
		{nil, ""},
	}
	for _, tt := range tests {
		got := sparkline(tt.in)
		if got != tt.want {
			t.Errorf("sparkline(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{75000, "75 000"},
		{1234567, "1 234 567"},
		{-45000, "-45 000"},
	}
	for _, tt := range tests {
		got := formatInt(tt.in)
		if got != tt.want {
			t.Errorf("formatInt(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
