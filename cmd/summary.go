package cmd

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zalepa/vacstat/logger"
	"github.com/zalepa/vacstat/report"
	"github.com/zalepa/vacstat/stats"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

func (a *app) runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx := logger.ContextWithLogger(cmd.Context(), a.newLogger(cfg))

	rep, err := a.analyze(ctx, cfg)
	if err != nil || rep == nil {
		return err
	}
	renderSummary(a.stdout, rep)
	return nil
}

// renderSummary prints the year table, a trend line per year series and
// the two city tables.
func renderSummary(w io.Writer, rep *stats.Report) {
	fmt.Fprintln(w, titleStyle.Render(report.YearSheet+": "+rep.Filter))

	years := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(report.YearHeaders(rep.Filter)...).
		StyleFunc(styleCells)
	for _, y := range rep.Years {
		years.Row(strconv.Itoa(y.Year), formatInt(y.Salary), formatInt(y.SelectedSalary),
			formatInt(y.Count), formatInt(y.SelectedCount))
	}
	fmt.Fprintln(w, years.String())
	fmt.Fprintln(w)

	renderTrends(w, rep)
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render(report.CitySheet))
	salaries := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Город", "Уровень зарплат").
		StyleFunc(styleCells)
	for _, c := range rep.CitySalaries {
		salaries.Row(c.City, formatInt(c.Salary))
	}
	shares := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Город", "Доля вакансий").
		StyleFunc(styleCells)
	for _, c := range rep.CityShares {
		shares.Row(c.City, c.Percent)
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, salaries.String(), "  ", shares.String()))
}

func styleCells(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return headerStyle
	case col == 0:
		return cellStyle
	default:
		return numberStyle
	}
}

// renderTrends prints one sparkline per year series in chronological order.
func renderTrends(w io.Writer, rep *stats.Report) {
	rows := slices.Clone(rep.Years)
	slices.SortStableFunc(rows, func(a, b stats.YearRow) int { return a.Year - b.Year })
	if len(rows) == 0 {
		return
	}

	series := []struct {
		name  string
		value func(stats.YearRow) int
	}{
		{"Средняя зарплата", func(y stats.YearRow) int { return y.Salary }},
		{"Средняя зарплата - " + rep.Filter, func(y stats.YearRow) int { return y.SelectedSalary }},
		{"Количество вакансий", func(y stats.YearRow) int { return y.Count }},
		{"Количество вакансий - " + rep.Filter, func(y stats.YearRow) int { return y.SelectedCount }},
	}

	maxName := 10
	for _, s := range series {
		maxName = max(maxName, len([]rune(s.name)))
	}

	fmt.Fprintf(w, "Trend: %d to %d (%d periods)\n", rows[0].Year, rows[len(rows)-1].Year, len(rows))
	for _, s := range series {
		vals := make([]float64, len(rows))
		for i, y := range rows {
			vals[i] = float64(s.value(y))
		}
		pad := strings.Repeat(" ", maxName-len([]rune(s.name)))
		fmt.Fprintf(w, "%s%s  %10s   %s\n", s.name, pad, formatInt(s.value(rows[len(rows)-1])), sparkline(vals))
	}
}

func sparkline(values []float64) string {
	blocks := []rune("▁▂▃▄▅▆▇█")
	n := len(blocks)

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if math.IsInf(min, 1) {
		return strings.Repeat(" ", len(values))
	}

	spread := max - min
	var sb strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			sb.WriteRune(' ')
			continue
		}
		idx := 0
		if spread > 0 {
			idx = int((v - min) / spread * float64(n-1))
			if idx >= n {
				idx = n - 1
			}
		} else {
			idx = n / 2
		}
		sb.WriteRune(blocks[idx])
	}
	return sb.String()
}

func formatInt(v int) string {
	s := strconv.Itoa(v)
	if v < 0 {
		return "-" + addSpaces(s[1:])
	}
	return addSpaces(s)
}

// addSpaces groups digits in threes with a space, the Russian convention.
func addSpaces(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var sb strings.Builder
	pre := n % 3
	if pre > 0 {
		sb.WriteString(s[:pre])
	}
	for i := pre; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
