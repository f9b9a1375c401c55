package report

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/zalepa/vacstat/stats"
)

const (
	YearSheet = "Статистика по годам"
	CitySheet = "Статистика по городам"
)

// YearHeaders returns the per-year table header for the given selected
// vacancy label.
func YearHeaders(label string) []string {
	return []string{
		"Год",
		"Средняя зарплата",
		"Средняя зарплата - " + label,
		"Количество вакансий",
		"Количество вакансий - " + label,
	}
}

// CityHeaders is the header row of the per-city sheet. The third column is
// a blank spacer between the salary and share tables.
var CityHeaders = []string{"Город", "Уровень зарплат", "", "Город", "Доля вакансий"}

// grid is a sheet laid out as rows of cells before it is written.
type grid [][]any

func yearGrid(rep *stats.Report) grid {
	g := grid{toAny(YearHeaders(rep.Filter))}
	for _, y := range rep.Years {
		g = append(g, []any{y.Year, y.Salary, y.SelectedSalary, y.Count, y.SelectedCount})
	}
	return g
}

func cityGrid(rep *stats.Report) grid {
	rows := max(len(rep.CitySalaries), len(rep.CityShares))
	g := grid{toAny(CityHeaders)}
	for i := range rows {
		row := make([]any, len(CityHeaders))
		if i < len(rep.CitySalaries) {
			row[0] = rep.CitySalaries[i].City
			row[1] = rep.CitySalaries[i].Salary
		}
		if i < len(rep.CityShares) {
			row[3] = rep.CityShares[i].City
			row[4] = rep.CityShares[i].Percent
		}
		g = append(g, row)
	}
	return g
}

// WriteWorkbook writes the two statistics sheets to path.
func WriteWorkbook(fsys afero.Fs, path string, rep *stats.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", YearSheet); err != nil {
		return fmt.Errorf("%w: rename sheet: %v", ErrBackendUnavailable, err)
	}
	if _, err := f.NewSheet(CitySheet); err != nil {
		return fmt.Errorf("%w: add sheet: %v", ErrBackendUnavailable, err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Border: outline})
	if err != nil {
		return fmt.Errorf("%w: header style: %v", ErrBackendUnavailable, err)
	}
	body, err := f.NewStyle(&excelize.Style{Border: outline})
	if err != nil {
		return fmt.Errorf("%w: body style: %v", ErrBackendUnavailable, err)
	}

	for _, s := range []struct {
		name string
		g    grid
	}{
		{YearSheet, yearGrid(rep)},
		{CitySheet, cityGrid(rep)},
	} {
		if err := writeGrid(f, s.name, s.g, header, body); err != nil {
			return fmt.Errorf("%w: sheet %q: %v", ErrBackendUnavailable, s.name, err)
		}
	}

	out, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := f.Write(out); err != nil {
		out.Close()
		return fmt.Errorf("%w: write workbook: %v", ErrBackendUnavailable, err)
	}
	return out.Close()
}

var outline = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// writeGrid fills a sheet, sizes each column to its longest value plus 3,
// bolds the header row and outlines every column that has data below the
// header.
func writeGrid(f *excelize.File, sheet string, g grid, header, body int) error {
	if len(g) == 0 {
		return nil
	}
	for r, row := range g {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	for c := range g[0] {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		width := 0
		populated := false
		for r, row := range g {
			if c >= len(row) {
				continue
			}
			width = max(width, utf8.RuneCountInString(cellText(row[c])))
			if r > 0 && row[c] != nil {
				populated = true
			}
		}
		if err := f.SetColWidth(sheet, col, col, float64(width+3)); err != nil {
			return err
		}

		top := col + "1"
		style := header
		if !populated {
			// Spacer columns keep the bold header but get no outline.
			if style, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(sheet, top, top, style); err != nil {
			return err
		}
		if populated && len(g) > 1 {
			bottom := col + strconv.Itoa(len(g))
			if err := f.SetCellStyle(sheet, col+"2", bottom, body); err != nil {
				return err
			}
		}
	}
	return nil
}

func cellText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		if s != "" {
			out[i] = s
		}
	}
	return out
}
