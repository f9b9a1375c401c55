package stats

import (
	"slices"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// shareDecimals is the precision city shares are rounded to.
const shareDecimals = 4

var hundred = decimal.NewFromInt(100)

// topDescending sorts items ascending with a stable sort, keeps the last n
// and returns them largest first. Items that compare equal keep their
// first-seen relative order during the ascending sort; the final reversal
// therefore lists later-seen ties first.
func topDescending[T any](items []T, less func(a, b T) bool, n int) []T {
	sorted := slices.Clone(items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	slices.Reverse(sorted)
	return sorted
}

// rankShares computes each city's share of total, drops cities under the
// threshold and keeps the topN largest shares.
func rankShares(cities *Accumulator[string], total int, o options) []CityShare {
	var shares []CityShare
	for _, city := range cities.Keys() {
		st, _ := cities.Get(city)
		share := roundShare(st.Count, total)
		if share.LessThan(o.minShare) {
			continue
		}
		shares = append(shares, CityShare{City: city, Share: share})
	}

	shares = topDescending(shares, func(a, b CityShare) bool {
		return a.Share.LessThan(b.Share)
	}, o.topN)
	for i := range shares {
		shares[i].Percent = FormatPercent(shares[i].Share)
	}
	return shares
}

// roundShare rounds count/total to four decimals from its float64 value.
// Exact binary ties round half to even, so 1/32 gives 0.0312 and 3/160,
// which is slightly below 0.01875 as a double, gives 0.0187.
func roundShare(count, total int) decimal.Decimal {
	f := float64(count) / float64(total)
	return decimal.RequireFromString(strconv.FormatFloat(f, 'f', shareDecimals, 64))
}

// rankSalaries averages the salaries of retained cities and keeps the topN
// highest.
func rankSalaries(cities *Accumulator[string], retained map[string]bool, topN int) []CitySalary {
	var out []CitySalary
	for _, city := range cities.Keys() {
		if !retained[city] {
			continue
		}
		st, _ := cities.Get(city)
		out = append(out, CitySalary{City: city, Salary: st.Average()})
	}
	return topDescending(out, func(a, b CitySalary) bool {
		return a.Salary < b.Salary
	}, topN)
}

// FormatPercent renders a fractional share as a percentage with two
// decimals, e.g. 0.6667 → "66.67%".
func FormatPercent(share decimal.Decimal) string {
	return share.Mul(hundred).StringFixed(2) + "%"
}
