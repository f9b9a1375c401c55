package vacancy

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zalepa/vacstat/currency"
)

// ErrMalformedDate is returned when a publication date does not start with
// a four-digit year.
var ErrMalformedDate = errors.New("malformed publication date")

// LineSentinel replaces embedded newlines during text cleanup so that
// multi-line cells (key skills) can be split after whitespace is collapsed.
const LineSentinel = "__temp__"

var (
	tagPattern        = regexp.MustCompile(`<[^<>]*>`)
	whitespacePattern = regexp.MustCompile(`[\s\x0b\p{Z}\x{85}]+`)
)

// CleanText strips HTML-like tags, replaces newlines with LineSentinel,
// collapses whitespace runs to a single space and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", LineSentinel)
	s = tagPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripFraction drops the last two characters of s when it contains a '.'
// anywhere. This matches how the exports encode "40000.0"-style bounds and
// is kept literally; it is not a general decimal truncation.
func StripFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	if len(s) < 2 {
		return ""
	}
	return s[:len(s)-2]
}

// Year returns the year encoded in the first four characters of an
// ISO-formatted date such as "2022-07-05T18:19:30+0300".
func Year(published string) (int, error) {
	if len(published) < 4 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDate, published)
	}
	y, err := strconv.Atoi(published[:4])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDate, published)
	}
	return y, nil
}

// Normalizer maps raw rows to canonical records. It is safe for concurrent
// use; it holds only the read-only lookup tables it was built with.
type Normalizer struct {
	converter *currency.Converter
	resolver  *currency.Resolver
}

// NewNormalizer returns a Normalizer using the given conversion tables.
func NewNormalizer(converter *currency.Converter, resolver *currency.Resolver) *Normalizer {
	return &Normalizer{converter: converter, resolver: resolver}
}

// DefaultNormalizer returns a Normalizer over the static currency tables.
func DefaultNormalizer() *Normalizer {
	return NewNormalizer(currency.NewConverter(currency.Rates), currency.NewResolver(currency.Codes))
}

// Normalize converts one row. Full-shape rows have every text cell cleaned
// first; reduced rows are interpreted as-is.
func (n *Normalizer) Normalize(raw RawVacancy, shape Shape) (Record, error) {
	if shape == Full {
		raw = cleanRow(raw)
	}

	key, err := n.resolver.Name(raw.Salary.Currency)
	if err != nil {
		return Record{}, err
	}
	salary, err := n.converter.ToRub(key, StripFraction(raw.Salary.From), StripFraction(raw.Salary.To))
	if err != nil {
		return Record{}, err
	}
	year, err := Year(raw.PublishedAt)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Name:         raw.Name,
		AreaName:     raw.AreaName,
		Year:         year,
		Salary:       salary,
		Currency:     key,
		Description:  raw.Description,
		ExperienceID: raw.ExperienceID,
		EmployerName: raw.EmployerName,
		SalaryGross:  raw.Salary.Gross,
	}
	if raw.KeySkills != "" {
		rec.KeySkills = strings.Split(raw.KeySkills, LineSentinel)
	}
	rec.Premium, _ = strconv.ParseBool(raw.Premium)
	return rec, nil
}

// NormalizeAll converts every row of ds. The first failing row aborts the
// run; its 1-based position among kept rows is included in the error.
func (n *Normalizer) NormalizeAll(ds *Dataset) ([]Record, error) {
	records := make([]Record, 0, len(ds.Rows))
	for i, raw := range ds.Rows {
		rec, err := n.Normalize(raw, ds.Shape)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func cleanRow(raw RawVacancy) RawVacancy {
	return RawVacancy{
		Name:         CleanText(raw.Name),
		Description:  CleanText(raw.Description),
		KeySkills:    CleanText(raw.KeySkills),
		ExperienceID: CleanText(raw.ExperienceID),
		Premium:      CleanText(raw.Premium),
		EmployerName: CleanText(raw.EmployerName),
		Salary: RawSalary{
			From:     CleanText(raw.Salary.From),
			To:       CleanText(raw.Salary.To),
			Gross:    CleanText(raw.Salary.Gross),
			Currency: CleanText(raw.Salary.Currency),
		},
		AreaName:    CleanText(raw.AreaName),
		PublishedAt: CleanText(raw.PublishedAt),
	}
}
