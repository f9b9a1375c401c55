package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "VACSTAT_"

type loader struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
	fs        afero.Fs
	dotenv    string
	environ   func() []string
}

type Option func(*loader)

// WithFs sets the file system the .env file is read from.
func WithFs(fs afero.Fs) Option {
	return func(l *loader) { l.fs = fs }
}

// WithDotEnv sets the .env path. An empty path disables it.
func WithDotEnv(path string) Option {
	return func(l *loader) { l.dotenv = path }
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(fn func() []string) Option {
	return func(l *loader) { l.environ = fn }
}

// Load builds the configuration. flags holds dotted keys (e.g.
// "engine.workers") for flags the user set explicitly; they override every
// other source. Input is not validated here because the CLI may still
// prompt for it; call Validate once input is complete.
func Load(flags map[string]any, opts ...Option) (*Config, error) {
	l := &loader{
		koanf:     koanf.New("."),
		validator: validator.New(),
		fs:        afero.NewOsFs(),
		dotenv:    ".env",
		environ:   os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := l.loadEnvironment(); err != nil {
		return nil, err
	}
	if len(flags) > 0 {
		nested := make(map[string]any)
		for k, v := range flags {
			setNested(nested, k, v)
		}
		if err := l.koanf.Load(rawMap(nested), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := l.koanf.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				trimSpaceHook,
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	// The profession is a substring filter, so surrounding spaces are kept.
	cfg.Input.Profession = l.koanf.String("input.profession")

	if err := l.validator.StructExcept(&cfg, "Input"); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := cfg.Engine.Share(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the whole configuration, input included.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// loadEnvironment reads VACSTAT_* variables. Values from the .env file are
// placed before the process environment so real variables win.
func (l *loader) loadEnvironment() error {
	dotenv, err := l.readDotEnv()
	if err != nil {
		return err
	}
	environ := func() []string {
		out := make([]string, 0, len(dotenv))
		for k, v := range dotenv {
			out = append(out, k+"="+v)
		}
		return append(out, l.environ()...)
	}

	if err := l.koanf.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		EnvironFunc:   environ,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

func (l *loader) readDotEnv() (map[string]string, error) {
	if l.dotenv == "" {
		return nil, nil
	}
	f, err := l.fs.Open(l.dotenv)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.dotenv, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.dotenv, err)
	}
	return vars, nil
}

// transformEnvKey converts environment variable names to koanf paths.
// For example: VACSTAT_ENGINE_TOP_CITIES -> engine.top_cities
func transformEnvKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_'
	})
	if len(parts) < 2 {
		return "", nil
	}
	return parts[0] + "." + strings.Join(parts[1:], "_"), value
}

func trimSpaceHook(from, _ reflect.Type, data any) (any, error) {
	if s, ok := data.(string); ok && from.Kind() == reflect.String {
		return strings.TrimSpace(s), nil
	}
	return data, nil
}

func setNested(m map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = value
}

// rawMap is a koanf.Provider adapter for map[string]any data.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("ReadBytes not implemented")
}
