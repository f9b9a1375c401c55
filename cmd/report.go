package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zalepa/vacstat/config"
	"github.com/zalepa/vacstat/logger"
	"github.com/zalepa/vacstat/report"
	"github.com/zalepa/vacstat/stats"
	"github.com/zalepa/vacstat/vacancy"
)

const (
	msgEmptyFile = "Пустой файл"
	msgNoData    = "Нет данных"
)

// analyze loads, normalizes and aggregates the configured input. A nil
// report with a nil error means a user-facing condition was already
// reported and the command should stop cleanly.
func (a *app) analyze(ctx context.Context, cfg *config.Config) (*stats.Report, error) {
	log := logger.FromContext(ctx)

	ds, err := vacancy.Load(a.fs, cfg.Input.File)
	switch {
	case errors.Is(err, vacancy.ErrEmptyFile):
		fmt.Fprintln(a.stdout, msgEmptyFile)
		return nil, nil
	case errors.Is(err, vacancy.ErrNoRows):
		fmt.Fprintln(a.stdout, msgNoData)
		return nil, nil
	case err != nil:
		return nil, err
	}
	log.Info("loaded vacancies", "file", cfg.Input.File, "shape", ds.Shape, "rows", len(ds.Rows), "dropped", ds.Dropped)

	records, err := vacancy.DefaultNormalizer().NormalizeAll(ds)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", cfg.Input.File, err)
	}

	share, err := cfg.Engine.Share()
	if err != nil {
		return nil, err
	}
	if cfg.Engine.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Engine.Timeout)
		defer cancel()
	}
	rep, err := stats.AggregateParallel(ctx, records, cfg.Input.Profession, cfg.Engine.Workers,
		stats.WithTopN(cfg.Engine.TopCities),
		stats.WithMinShare(share),
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	log.Debug("aggregated", "years", len(rep.Years), "cities", len(rep.CityShares), "workers", cfg.Engine.Workers)
	return rep, nil
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log := a.newLogger(cfg)
	ctx := logger.ContextWithLogger(cmd.Context(), log)

	rep, err := a.analyze(ctx, cfg)
	if err != nil || rep == nil {
		return err
	}
	return a.writeArtifacts(ctx, cfg, rep)
}

// writeArtifacts renders every output. The first failure aborts the run.
func (a *app) writeArtifacts(ctx context.Context, cfg *config.Config, rep *stats.Report) error {
	log := logger.FromContext(ctx)
	out := cfg.Output

	if out.Dir != "" {
		if err := a.fs.MkdirAll(out.Dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	workbook := out.Path(out.Workbook)
	if err := report.WriteWorkbook(a.fs, workbook, rep); err != nil {
		return err
	}
	log.Info("wrote workbook", "path", workbook)

	chart := out.Path(out.Chart)
	png, err := report.WriteCharts(a.fs, chart, rep)
	if err != nil {
		return err
	}
	log.Info("wrote chart", "path", chart, "bytes", len(png))

	// The page sits next to the image, so it references it by name.
	html := out.Path(out.HTML)
	if err := report.WriteHTML(a.fs, html, rep, out.Chart); err != nil {
		return err
	}
	log.Info("wrote html", "path", html)

	pdf := out.Path(out.PDF)
	if err := report.WritePDF(a.fs, pdf, rep, png); err != nil {
		return err
	}
	info, err := report.Inspect(a.fs, pdf)
	if err != nil {
		return fmt.Errorf("verify pdf: %w", err)
	}
	if info.Images == 0 {
		log.Warn("pdf has no chart image", "path", pdf)
	}
	log.Info("wrote pdf", "path", pdf, "pages", info.Pages)
	return nil
}
