package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"

	"github.com/spf13/afero"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/zalepa/vacstat/stats"
)

const (
	chartWidth  = 12 * vg.Inch
	chartHeight = 7.5 * vg.Inch
	chartDPI    = 100
)

var (
	chartBlue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	chartOrange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// RenderCharts draws the 2×2 chart grid and returns it as PNG bytes:
// salary by year, vacancies by year, salary by city and the city share pie.
func RenderCharts(rep *stats.Report) ([]byte, error) {
	salary, err := yearBars("Уровень зарплат по годам", rep, "Средняя з/п", "З/п "+rep.Filter,
		func(y stats.YearRow) (float64, float64) { return float64(y.Salary), float64(y.SelectedSalary) })
	if err != nil {
		return nil, err
	}
	count, err := yearBars("Количество вакансий по годам", rep, "Количество вакансий", "Количество вакансий "+rep.Filter,
		func(y stats.YearRow) (float64, float64) { return float64(y.Count), float64(y.SelectedCount) })
	if err != nil {
		return nil, err
	}
	cities, err := citySalaryBars(rep)
	if err != nil {
		return nil, err
	}
	shares := sharePie(rep)

	img := vgimg.NewWith(vgimg.UseWH(chartWidth, chartHeight), vgimg.UseDPI(chartDPI))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	plots := [][]*plot.Plot{
		{salary, count},
		{cities, shares},
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", ErrBackendUnavailable, err)
	}
	return buf.Bytes(), nil
}

// WriteCharts renders the chart grid to path and returns the PNG bytes so
// callers can embed the same image elsewhere.
func WriteCharts(fsys afero.Fs, path string, rep *stats.Report) ([]byte, error) {
	png, err := RenderCharts(rep)
	if err != nil {
		return nil, err
	}
	if err := afero.WriteFile(fsys, path, png, 0o644); err != nil {
		return nil, fmt.Errorf("write chart: %w", err)
	}
	return png, nil
}

// yearBars builds a grouped bar chart with one pair of bars per year.
func yearBars(title string, rep *stats.Report, allLabel, selLabel string, value func(stats.YearRow) (float64, float64)) (*plot.Plot, error) {
	p := newPlot(title)

	all := make(plotter.Values, len(rep.Years))
	sel := make(plotter.Values, len(rep.Years))
	names := make([]string, len(rep.Years))
	for i, y := range rep.Years {
		all[i], sel[i] = value(y)
		names[i] = strconv.Itoa(y.Year)
	}

	width := barWidth(len(rep.Years))
	allBars, err := plotter.NewBarChart(all, width)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, title, err)
	}
	allBars.Color = chartBlue
	allBars.LineStyle.Width = 0
	allBars.Offset = -width / 2

	selBars, err := plotter.NewBarChart(sel, width)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, title, err)
	}
	selBars.Color = chartOrange
	selBars.LineStyle.Width = 0
	selBars.Offset = width / 2

	p.Add(plotter.NewGrid(), allBars, selBars)
	p.Legend.Add(allLabel, allBars)
	p.Legend.Add(selLabel, selBars)
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(8)

	if len(names) > 0 {
		p.NominalX(names...)
	}
	p.X.Tick.Label.Font.Size = vg.Points(8)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Tick.Marker = numTicks{}
	p.Y.Min = 0
	return p, nil
}

// citySalaryBars draws salary by city as horizontal bars with the highest
// salary on top.
func citySalaryBars(rep *stats.Report) (*plot.Plot, error) {
	p := newPlot("Уровень зарплат по городам")
	if len(rep.CitySalaries) == 0 {
		return p, nil
	}

	// NominalY puts index 0 at the bottom.
	rows := slices.Clone(rep.CitySalaries)
	slices.Reverse(rows)
	vals := make(plotter.Values, len(rows))
	names := make([]string, len(rows))
	for i, c := range rows {
		vals[i] = float64(c.Salary)
		names[i] = c.City
	}

	bars, err := plotter.NewBarChart(vals, barWidth(len(rows)))
	if err != nil {
		return nil, fmt.Errorf("%w: city salaries: %v", ErrBackendUnavailable, err)
	}
	bars.Horizontal = true
	bars.Color = chartBlue
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalY(names...)
	p.Y.Tick.Label.Font.Size = vg.Points(8)
	p.X.Tick.Marker = numTicks{}
	p.X.Min = 0
	return p, nil
}

// sharePie draws city shares plus the remainder as the Other slice.
func sharePie(rep *stats.Report) *plot.Plot {
	p := newPlot("Доля вакансий по городам")
	p.HideAxes()
	p.Add(pieSlices(rep))
	return p
}

// pieSlices holds one slice per ranked city in percent, then Other.
func pieSlices(rep *stats.Report) *Pie {
	pie := &Pie{}
	for _, c := range rep.CityShares {
		v, _ := c.Share.Mul(decimal100).Float64()
		pie.Add(c.City, v)
	}
	other, _ := rep.OtherPercent().Float64()
	pie.Add(Other, other)
	return pie
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.BackgroundColor = color.White
	return p
}

// barWidth sizes bars so n groups of two fit in one grid tile.
func barWidth(n int) vg.Length {
	if n < 1 {
		n = 1
	}
	w := (chartWidth/2 - vg.Inch) / vg.Length(n*3)
	return min(max(w, vg.Points(2)), vg.Points(24))
}

type numTicks struct{}

func (numTicks) Ticks(min, max float64) []plot.Tick {
	t := plot.DefaultTicks{}
	ticks := t.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = formatCompact(ticks[i].Value)
		}
	}
	return ticks
}

func formatCompact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', 0, 64) + "k"
	default:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
}

// sliceColor picks the i-th slice color from the gonum soft palette.
func sliceColor(i int) color.Color {
	return plotutil.Color(i)
}
