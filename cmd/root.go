// Package cmd wires the vacstat command line: the report pipeline and the
// terminal summary.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/zalepa/vacstat/config"
	"github.com/zalepa/vacstat/logger"
)

// app carries the process dependencies the commands use, so tests can run
// them against an in-memory file system and buffers.
type app struct {
	fs          afero.Fs
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	environ     func() []string
	interactive func() bool
	prompt      func(in *config.Input) error
}

func defaultApp() *app {
	a := &app{
		fs:      afero.NewOsFs(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		environ: os.Environ,
		interactive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		},
	}
	a.prompt = a.askInput
	return a
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"profession": "input.profession",
	"out-dir":    "output.dir",
	"workers":    "engine.workers",
	"top":        "engine.top_cities",
	"min-share":  "engine.min_share",
	"timeout":    "engine.timeout",
	"log-level":  "log.level",
	"log-json":   "log.json",
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "vacstat [file.csv]",
		Short: "Salary and vacancy statistics from a job-vacancy CSV export",
		Long: "vacstat aggregates a job-vacancy CSV export into per-year and per-city\n" +
			"salary and volume statistics and renders them as a spreadsheet, a chart,\n" +
			"an HTML page and a PDF document. Running it without a subcommand is the\n" +
			"same as \"vacstat report\".",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd, args)
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringP("profession", "p", "", "profession name; vacancies whose name contains it are tracked separately")
	pf.StringP("out-dir", "o", ".", "directory for the generated artifacts")
	pf.Int("workers", 1, "number of concurrent aggregation shards")
	pf.Int("top", 10, "number of cities kept in the city tables")
	pf.String("min-share", "0.01", "smallest share of all vacancies a city needs to be listed")
	pf.Duration("timeout", 0, "abort aggregation after this long (0 means no limit)")
	pf.String("log-level", "info", "log level (debug, info, warn, error, disabled)")
	pf.Bool("log-json", false, "write logs as JSON")

	root.AddCommand(
		&cobra.Command{
			Use:   "report [file.csv]",
			Short: "Write the workbook, chart, HTML and PDF report",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runReport(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "summary [file.csv]",
			Short: "Print the statistics tables to the terminal",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runSummary(cmd, args)
			},
		},
	)
	return root
}

// loadConfig merges defaults, environment and the flags the user set, then
// fills in missing input interactively when possible.
func (a *app) loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	flags := make(map[string]any)
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		flags[key] = f.Value.String()
	}
	if len(args) > 0 {
		flags["input.file"] = args[0]
	}

	cfg, err := config.Load(flags, config.WithFs(a.fs), config.WithEnviron(a.environ))
	if err != nil {
		return nil, err
	}
	if cfg.Input.File == "" || cfg.Input.Profession == "" {
		if a.interactive != nil && a.interactive() && a.prompt != nil {
			if err := a.prompt(&cfg.Input); err != nil {
				return nil, fmt.Errorf("prompt: %w", err)
			}
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) newLogger(cfg *config.Config) logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     a.stderr,
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
}

func (a *app) execute(ctx context.Context, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return defaultApp().execute(context.Background(), os.Args[1:])
}
