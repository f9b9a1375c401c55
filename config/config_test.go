package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func environ(vars ...string) Option {
	return WithEnviron(func() []string { return vars })
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, WithFs(afero.NewMemMapFs()), environ())
	require.NoError(t, err)

	assert.Equal(t, "report.xlsx", cfg.Output.Workbook)
	assert.Equal(t, "graph.png", cfg.Output.Chart)
	assert.Equal(t, "report.html", cfg.Output.HTML)
	assert.Equal(t, "report.pdf", cfg.Output.PDF)
	assert.Equal(t, 1, cfg.Engine.Workers)
	assert.Equal(t, 10, cfg.Engine.TopCities)
	assert.Equal(t, "0.01", cfg.Engine.MinShare)
	assert.Equal(t, time.Duration(0), cfg.Engine.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.Empty(t, cfg.Input.File)
}

func TestLoadPrecedence(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env",
		[]byte("VACSTAT_ENGINE_WORKERS=2\nVACSTAT_LOG_LEVEL=warn\nVACSTAT_INPUT_FILE=dotenv.csv\n"), 0o644))

	t.Run("Should read .env over defaults", func(t *testing.T) {
		cfg, err := Load(nil, WithFs(fs), environ())
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Engine.Workers)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "dotenv.csv", cfg.Input.File)
	})

	t.Run("Should prefer process environment over .env", func(t *testing.T) {
		cfg, err := Load(nil, WithFs(fs), environ(
			"VACSTAT_ENGINE_WORKERS=4",
			"VACSTAT_ENGINE_TOP_CITIES=5",
			"VACSTAT_ENGINE_TIMEOUT=30s",
			"VACSTAT_LOG_JSON=true",
			"OTHER_ENGINE_WORKERS=9",
		))
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Engine.Workers)
		assert.Equal(t, 5, cfg.Engine.TopCities)
		assert.Equal(t, 30*time.Second, cfg.Engine.Timeout)
		assert.True(t, cfg.Log.JSON)
	})

	t.Run("Should prefer flags over environment", func(t *testing.T) {
		cfg, err := Load(map[string]any{
			"engine.workers":   8,
			"input.profession": "Программист",
			"output.dir":       "out",
		}, WithFs(fs), environ("VACSTAT_ENGINE_WORKERS=4"))
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Engine.Workers)
		assert.Equal(t, "Программист", cfg.Input.Profession)
		assert.Equal(t, "dotenv.csv", cfg.Input.File)
		assert.Equal(t, filepath.Join("out", "report.pdf"), cfg.Output.Path(cfg.Output.PDF))
	})

	t.Run("Should skip .env when disabled", func(t *testing.T) {
		cfg, err := Load(nil, WithFs(fs), WithDotEnv(""), environ())
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Engine.Workers)
	})
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]any
	}{
		{"zero workers", map[string]any{"engine.workers": 0}},
		{"too many workers", map[string]any{"engine.workers": 1000}},
		{"zero top cities", map[string]any{"engine.top_cities": 0}},
		{"bad share", map[string]any{"engine.min_share": "abc"}},
		{"share above one", map[string]any{"engine.min_share": "1.5"}},
		{"bad level", map[string]any{"log.level": "loud"}},
		{"empty workbook", map[string]any{"output.workbook": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.flags, WithFs(afero.NewMemMapFs()), environ())
			assert.Error(t, err)
		})
	}
}

func TestLoadDoesNotRequireInput(t *testing.T) {
	cfg, err := Load(nil, WithFs(afero.NewMemMapFs()), environ())
	require.NoError(t, err)
	assert.Error(t, Validate(cfg))

	cfg.Input.File = "vacancies.csv"
	cfg.Input.Profession = "Аналитик"
	assert.NoError(t, Validate(cfg))
}

func TestLoadKeepsProfessionSpaces(t *testing.T) {
	t.Run("Should keep spaces typed on the command line", func(t *testing.T) {
		cfg, err := Load(map[string]any{
			"input.profession": " Dev",
			"input.file":       "  data.csv ",
		}, WithFs(afero.NewMemMapFs()), environ())
		require.NoError(t, err)
		assert.Equal(t, " Dev", cfg.Input.Profession)
		assert.Equal(t, "data.csv", cfg.Input.File)
	})

	t.Run("Should keep spaces from the environment", func(t *testing.T) {
		cfg, err := Load(nil, WithFs(afero.NewMemMapFs()), environ("VACSTAT_INPUT_PROFESSION=Go "))
		require.NoError(t, err)
		assert.Equal(t, "Go ", cfg.Input.Profession)
	})
}

func TestEngineShare(t *testing.T) {
	share, err := Engine{MinShare: "0.05"}.Share()
	require.NoError(t, err)
	assert.Equal(t, "0.05", share.String())

	_, err = Engine{MinShare: "-0.1"}.Share()
	assert.Error(t, err)
}

func TestTransformEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VACSTAT_ENGINE_TOP_CITIES", "engine.top_cities"},
		{"VACSTAT_INPUT_FILE", "input.file"},
		{"VACSTAT_LOG__LEVEL", "log.level"},
		{"VACSTAT_DEBUG", ""},
	}
	for _, tt := range tests {
		got, _ := transformEnvKey(tt.in, "x")
		if got != tt.want {
			t.Errorf("transformEnvKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
