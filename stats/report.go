package stats

import "github.com/shopspring/decimal"

// YearRow is one line of the per-year table.
type YearRow struct {
	Year           int `json:"year"`
	Salary         int `json:"salary"`
	SelectedSalary int `json:"selectedSalary"`
	Count          int `json:"count"`
	SelectedCount  int `json:"selectedCount"`
}

// CitySalary is the average salary of one city.
type CitySalary struct {
	City   string `json:"city"`
	Salary int    `json:"salary"`
}

// CityShare is one city's fraction of all vacancies.
type CityShare struct {
	City    string          `json:"city"`
	Share   decimal.Decimal `json:"share"`   // rounded to 4 decimals
	Percent string          `json:"percent"` // Share formatted as "XX.XX%"
}

// Report is the final output of an aggregation run. Years are listed in the
// order they were first seen in the input; city tables are ranked largest
// first. A Report is not modified after Aggregate returns it.
type Report struct {
	Filter       string       `json:"filter"`
	Total        int          `json:"total"`
	Years        []YearRow    `json:"years"`
	CitySalaries []CitySalary `json:"citySalaries"`
	CityShares   []CityShare  `json:"cityShares"`
}

// SalaryLevelByYear returns year → average salary.
func (r *Report) SalaryLevelByYear() map[int]int {
	m := make(map[int]int, len(r.Years))
	for _, y := range r.Years {
		m[y.Year] = y.Salary
	}
	return m
}

// SelectedSalaryByYear returns year → average salary of selected vacancies.
func (r *Report) SelectedSalaryByYear() map[int]int {
	m := make(map[int]int, len(r.Years))
	for _, y := range r.Years {
		m[y.Year] = y.SelectedSalary
	}
	return m
}

// CountByYear returns year → number of vacancies.
func (r *Report) CountByYear() map[int]int {
	m := make(map[int]int, len(r.Years))
	for _, y := range r.Years {
		m[y.Year] = y.Count
	}
	return m
}

// SelectedCountByYear returns year → number of selected vacancies.
func (r *Report) SelectedCountByYear() map[int]int {
	m := make(map[int]int, len(r.Years))
	for _, y := range r.Years {
		m[y.Year] = y.SelectedCount
	}
	return m
}

// SalaryLevelByCity returns city → average salary for the ranked cities.
func (r *Report) SalaryLevelByCity() map[string]int {
	m := make(map[string]int, len(r.CitySalaries))
	for _, c := range r.CitySalaries {
		m[c.City] = c.Salary
	}
	return m
}

// CountByCity returns city → formatted share for the ranked cities.
func (r *Report) CountByCity() map[string]string {
	m := make(map[string]string, len(r.CityShares))
	for _, c := range r.CityShares {
		m[c.City] = c.Percent
	}
	return m
}

// OtherPercent is 100 minus the sum of the listed city percentages: the
// share of vacancies outside the ranked cities. It is never negative.
func (r *Report) OtherPercent() decimal.Decimal {
	rest := hundred
	for _, c := range r.CityShares {
		rest = rest.Sub(c.Share.Mul(hundred))
	}
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}
