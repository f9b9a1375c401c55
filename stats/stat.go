// Package stats aggregates canonical vacancy records into per-year and
// per-city salary and volume statistics.
package stats

import "math"

// RunningStat accumulates a sum and the number of contributions to it.
type RunningStat struct {
	Sum   float64
	Count int
}

// Add records one contribution.
func (s *RunningStat) Add(amount float64) {
	s.Sum += amount
	s.Count++
}

// Merge folds another accumulator into s.
func (s *RunningStat) Merge(o RunningStat) {
	s.Sum += o.Sum
	s.Count += o.Count
}

// Average returns floor(Sum/Count), or floor(Sum) when nothing was added.
func (s RunningStat) Average() int {
	if s.Count == 0 {
		return int(math.Floor(s.Sum))
	}
	return int(math.Floor(s.Sum / float64(s.Count)))
}

// Accumulator is a map of running stats that remembers the order in which
// keys were first seen.
type Accumulator[K comparable] struct {
	order []K
	stats map[K]*RunningStat
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator[K comparable]() *Accumulator[K] {
	return &Accumulator[K]{stats: make(map[K]*RunningStat)}
}

// At returns the stat for key, creating a zero one on first use.
func (a *Accumulator[K]) At(key K) *RunningStat {
	s, ok := a.stats[key]
	if !ok {
		s = &RunningStat{}
		a.stats[key] = s
		a.order = append(a.order, key)
	}
	return s
}

// Get returns the stat for key without creating it.
func (a *Accumulator[K]) Get(key K) (RunningStat, bool) {
	s, ok := a.stats[key]
	if !ok {
		return RunningStat{}, false
	}
	return *s, true
}

// Keys returns keys in first-seen order.
func (a *Accumulator[K]) Keys() []K {
	out := make([]K, len(a.order))
	copy(out, a.order)
	return out
}

// Len returns the number of keys.
func (a *Accumulator[K]) Len() int {
	return len(a.order)
}

// Merge adds every stat of o into a. Keys new to a are appended in o's
// order, so merging partial accumulators of consecutive input shards in
// shard order reproduces the order of a single pass.
func (a *Accumulator[K]) Merge(o *Accumulator[K]) {
	for _, k := range o.order {
		a.At(k).Merge(*o.stats[k])
	}
}
