// Package config loads vacstat settings from defaults, a .env file,
// VACSTAT_* environment variables and command-line flags, in that order of
// precedence.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Input  Input  `koanf:"input"`
	Output Output `koanf:"output"`
	Engine Engine `koanf:"engine"`
	Log    Log    `koanf:"log"`
}

// Input names the CSV file and the profession whose vacancies are tracked
// separately.
type Input struct {
	File       string `koanf:"file"       validate:"required"`
	Profession string `koanf:"profession" validate:"required"`
}

// Output holds artifact file names, resolved against Dir.
type Output struct {
	Dir      string `koanf:"dir"`
	Workbook string `koanf:"workbook" validate:"required"`
	Chart    string `koanf:"chart"    validate:"required"`
	HTML     string `koanf:"html"     validate:"required"`
	PDF      string `koanf:"pdf"      validate:"required"`
}

type Engine struct {
	Workers   int           `koanf:"workers"    validate:"min=1,max=256"`
	TopCities int           `koanf:"top_cities" validate:"min=1"`
	MinShare  string        `koanf:"min_share"  validate:"required,numeric"`
	Timeout   time.Duration `koanf:"timeout"    validate:"gte=0"`
}

type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `koanf:"json"`
}

func Default() *Config {
	return &Config{
		Output: Output{
			Dir:      ".",
			Workbook: "report.xlsx",
			Chart:    "graph.png",
			HTML:     "report.html",
			PDF:      "report.pdf",
		},
		Engine: Engine{
			Workers:   1,
			TopCities: 10,
			MinShare:  "0.01",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Path joins an artifact name with the output directory.
func (o Output) Path(name string) string {
	if o.Dir == "" {
		return name
	}
	return filepath.Join(o.Dir, name)
}

// Share parses MinShare. It must lie in [0, 1].
func (e Engine) Share() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(e.MinShare)
	if err != nil {
		return decimal.Zero, fmt.Errorf("engine.min_share: %w", err)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("engine.min_share: %s is outside [0, 1]", e.MinShare)
	}
	return d, nil
}
