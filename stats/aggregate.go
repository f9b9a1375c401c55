package stats

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zalepa/vacstat/vacancy"
)

// ErrNoRecords is returned when aggregation is asked to run on no input.
// Callers are expected to reject empty datasets before reaching the engine.
var ErrNoRecords = errors.New("no records to aggregate")

const (
	// DefaultTopN is the number of cities kept in the city tables.
	DefaultTopN = 10
)

// DefaultMinShare is the smallest share of all vacancies a city needs to
// appear in the city tables. A city at exactly this share is kept.
var DefaultMinShare = decimal.New(1, -2)

type options struct {
	topN     int
	minShare decimal.Decimal
}

// Option tunes post-processing. By default the top 10 cities with at
// least a 1% share are kept.
type Option func(*options)

// WithTopN sets how many cities are kept after ranking.
func WithTopN(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.topN = n
		}
	}
}

// WithMinShare sets the share threshold below which cities are dropped.
func WithMinShare(d decimal.Decimal) Option {
	return func(o *options) {
		o.minShare = d
	}
}

func buildOptions(opts []Option) options {
	o := options{topN: DefaultTopN, minShare: DefaultMinShare}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// tables holds the running state of one accumulation pass. Year counts and
// city counts are the Count fields of the salary accumulators, so every
// year has both a salary and a count entry by construction.
type tables struct {
	salaryByYear   *Accumulator[int]
	selectedByYear *Accumulator[int]
	salaryByCity   *Accumulator[string]
	total          int
}

func newTables() *tables {
	return &tables{
		salaryByYear:   NewAccumulator[int](),
		selectedByYear: NewAccumulator[int](),
		salaryByCity:   NewAccumulator[string](),
	}
}

func (t *tables) add(rec vacancy.Record, filter string) {
	t.salaryByYear.At(rec.Year).Add(rec.Salary)
	// Every year gets a selected entry, even one that never matches.
	selected := t.selectedByYear.At(rec.Year)
	if strings.Contains(rec.Name, filter) {
		selected.Add(rec.Salary)
	}
	t.salaryByCity.At(rec.AreaName).Add(rec.Salary)
	t.total++
}

func (t *tables) merge(o *tables) {
	t.salaryByYear.Merge(o.salaryByYear)
	t.selectedByYear.Merge(o.selectedByYear)
	t.salaryByCity.Merge(o.salaryByCity)
	t.total += o.total
}

// Aggregate runs a single pass over records in order and derives the final
// report. Records whose Name contains filter (case-sensitive) count as
// selected vacancies.
func Aggregate(records []vacancy.Record, filter string, opts ...Option) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	t := newTables()
	for _, rec := range records {
		t.add(rec, filter)
	}
	return t.report(filter, buildOptions(opts)), nil
}

func (t *tables) report(filter string, o options) *Report {
	rep := &Report{
		Filter: filter,
		Total:  t.total,
	}

	for _, year := range t.salaryByYear.Keys() {
		all, _ := t.salaryByYear.Get(year)
		sel, _ := t.selectedByYear.Get(year)
		rep.Years = append(rep.Years, YearRow{
			Year:           year,
			Salary:         all.Average(),
			SelectedSalary: sel.Average(),
			Count:          all.Count,
			SelectedCount:  sel.Count,
		})
	}

	rep.CityShares = rankShares(t.salaryByCity, t.total, o)

	retained := make(map[string]bool, len(rep.CityShares))
	for _, s := range rep.CityShares {
		retained[s.City] = true
	}
	rep.CitySalaries = rankSalaries(t.salaryByCity, retained, o.topN)
	return rep
}
