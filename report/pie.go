package report

import (
	"image/color"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var decimal100 = decimal.NewFromInt(100)

// PieSlice is one labelled wedge of a Pie.
type PieSlice struct {
	Label string
	Value float64
}

// Pie is a plot.Plotter that draws labelled wedges counter-clockwise from
// the positive X axis. Non-positive values are skipped.
type Pie struct {
	Slices []PieSlice
}

// Add appends a slice.
func (p *Pie) Add(label string, value float64) {
	p.Slices = append(p.Slices, PieSlice{Label: label, Value: value})
}

func (p *Pie) total() float64 {
	var sum float64
	for _, s := range p.Slices {
		if s.Value > 0 {
			sum += s.Value
		}
	}
	return sum
}

// Plot implements plot.Plotter.
func (p *Pie) Plot(c draw.Canvas, _ *plot.Plot) {
	total := p.total()
	if total <= 0 {
		return
	}

	center := c.Center()
	radius := min(c.Max.X-c.Min.X, c.Max.Y-c.Min.Y) / 2 * 0.7
	label := draw.TextStyle{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, vg.Points(8)),
		Handler: plot.DefaultTextHandler,
	}

	start := 0.0
	for i, s := range p.Slices {
		if s.Value <= 0 {
			continue
		}
		sweep := 2 * math.Pi * s.Value / total

		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, start, sweep)
		path.Close()
		c.SetColor(sliceColor(i))
		c.Fill(path)

		mid := start + sweep/2
		at := vg.Point{
			X: center.X + vg.Length(math.Cos(mid))*radius*1.15,
			Y: center.Y + vg.Length(math.Sin(mid))*radius*1.15,
		}
		sty := label
		sty.YAlign = draw.YCenter
		if math.Cos(mid) < 0 {
			sty.XAlign = draw.XRight
		}
		c.FillText(sty, at, s.Label)
		start += sweep
	}
}
