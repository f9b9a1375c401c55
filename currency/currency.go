// Package currency converts vacancy salary bounds into a rubles-equivalent
// midpoint using a fixed exchange-rate table.
package currency

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownCurrency is returned when a rate-table key has no rate.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrUnknownCurrencyCode is returned when a short code (e.g. "USD") has
	// no rate-table key.
	ErrUnknownCurrencyCode = errors.New("unknown currency code")
	// ErrInvalidAmount is returned when a salary bound is not an integer.
	ErrInvalidAmount = errors.New("invalid salary amount")
)

// Rates maps rate-table keys to the number of rubles per unit.
var Rates = map[string]float64{
	"Манаты":            35.68,
	"Белорусские рубли": 23.91,
	"Евро":              59.90,
	"Грузинский лари":   21.74,
	"Киргизский сом":    0.76,
	"Тенге":             0.13,
	"Рубли":             1,
	"Гривны":            1.64,
	"Доллары":           60.66,
	"Узбекский сум":     0.0055,
}

// Codes maps ISO-like currency codes used in the CSV export to rate-table keys.
var Codes = map[string]string{
	"AZN": "Манаты",
	"BYR": "Белорусские рубли",
	"EUR": "Евро",
	"GEL": "Грузинский лари",
	"KGS": "Киргизский сом",
	"KZT": "Тенге",
	"RUR": "Рубли",
	"UAH": "Гривны",
	"USD": "Доллары",
	"UZS": "Узбекский сум",
}

// Converter turns salary bounds into rubles. It holds its own copy of the
// rate table, so later edits to Rates do not affect it.
type Converter struct {
	rates map[string]float64
}

// NewConverter returns a Converter backed by a copy of rates.
func NewConverter(rates map[string]float64) *Converter {
	c := &Converter{rates: make(map[string]float64, len(rates))}
	for k, v := range rates {
		c.rates[k] = v
	}
	return c
}

// Rate returns the rubles-per-unit rate for key.
func (c *Converter) Rate(key string) (float64, error) {
	r, ok := c.rates[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, key)
	}
	return r, nil
}

// ToRub returns the rubles-equivalent midpoint of the [from, to] salary
// range. Both amounts are integers, possibly with space digit separators.
func (c *Converter) ToRub(key, from, to string) (float64, error) {
	rate, err := c.Rate(key)
	if err != nil {
		return 0, err
	}
	lo, err := parseAmount(from)
	if err != nil {
		return 0, err
	}
	hi, err := parseAmount(to)
	if err != nil {
		return 0, err
	}
	return (float64(lo)*rate + float64(hi)*rate) / 2, nil
}

func parseAmount(s string) (int, error) {
	v, err := strconv.Atoi(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

// Resolver translates between currency codes and rate-table keys.
type Resolver struct {
	names map[string]string
	codes map[string]string
}

// NewResolver builds a bidirectional lookup from a code → key table.
func NewResolver(codes map[string]string) *Resolver {
	r := &Resolver{
		names: make(map[string]string, len(codes)),
		codes: make(map[string]string, len(codes)),
	}
	for code, name := range codes {
		r.names[code] = name
		r.codes[name] = code
	}
	return r
}

// Name returns the rate-table key for a currency code.
func (r *Resolver) Name(code string) (string, error) {
	name, ok := r.names[code]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrencyCode, code)
	}
	return name, nil
}

// Code returns the currency code for a rate-table key.
func (r *Resolver) Code(name string) (string, error) {
	code, ok := r.codes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, name)
	}
	return code, nil
}
