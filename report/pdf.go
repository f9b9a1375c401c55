package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"codeberg.org/go-fonts/liberation/liberationsansbold"
	"codeberg.org/go-fonts/liberation/liberationsansregular"
	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/afero"

	"github.com/zalepa/vacstat/stats"
)

const (
	pdfFont     = "LiberationSans"
	pdfMargin   = 10.0
	pdfChartW   = 240.0
	pdfRowH     = 7.0
	pdfChartRef = "chart"
)

// RenderPDF writes an A4 landscape document with a title, the chart image
// and the year and city tables. chartPNG may be nil to omit the image.
func RenderPDF(w io.Writer, rep *stats.Report, chartPNG []byte) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddUTF8FontFromBytes(pdfFont, "", liberationsansregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", liberationsansbold.TTF)

	title := "Аналитика по зарплатам и городам для профессии " + rep.Filter
	pdf.SetTitle(title, true)
	pdf.SetCreator("vacstat", true)

	pageW, _ := pdf.GetPageSize()

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	if len(chartPNG) > 0 {
		pdf.RegisterImageOptionsReader(pdfChartRef, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(chartPNG))
		pdf.ImageOptions(pdfChartRef, (pageW-pdfChartW)/2, pdf.GetY(), pdfChartW, 0, true,
			gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	pdf.AddPage()
	heading(pdf, YearSheet)
	yearRows := make([][]string, 0, len(rep.Years))
	for _, y := range rep.Years {
		yearRows = append(yearRows, []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Salary),
			strconv.Itoa(y.SelectedSalary),
			strconv.Itoa(y.Count),
			strconv.Itoa(y.SelectedCount),
		})
	}
	table(pdf, pageW-2*pdfMargin, YearHeaders(rep.Filter), yearRows)

	pdf.AddPage()
	heading(pdf, CitySheet)
	half := (pageW - 2*pdfMargin - 10) / 2
	top := pdf.GetY()

	salaryRows := make([][]string, 0, len(rep.CitySalaries))
	for _, c := range rep.CitySalaries {
		salaryRows = append(salaryRows, []string{c.City, strconv.Itoa(c.Salary)})
	}
	table(pdf, half, []string{"Город", "Уровень зарплат"}, salaryRows)

	pdf.SetXY(pdfMargin+half+10, top)
	shareRows := make([][]string, 0, len(rep.CityShares))
	for _, c := range rep.CityShares {
		shareRows = append(shareRows, []string{c.City, c.Percent})
	}
	table(pdf, half, []string{"Город", "Доля вакансий"}, shareRows)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: write pdf: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// WritePDF renders the document to path.
func WritePDF(fsys afero.Fs, path string, rep *stats.Report, chartPNG []byte) error {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, rep, chartPNG); err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func heading(pdf *gofpdf.Fpdf, txt string) {
	pdf.SetFont(pdfFont, "B", 13)
	pdf.CellFormat(0, 9, txt, "", 1, "C", false, 0, "")
	pdf.Ln(1)
}

// table draws a bordered table of equal-width columns starting at the
// current position. Each row starts at the x the table started at.
func table(pdf *gofpdf.Fpdf, width float64, headers []string, rows [][]string) {
	left := pdf.GetX()
	colW := width / float64(len(headers))

	pdf.SetFont(pdfFont, "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range headers {
		pdf.CellFormat(colW, pdfRowH, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(pdfRowH)

	pdf.SetFont(pdfFont, "", 9)
	for _, row := range rows {
		pdf.SetX(left)
		for _, cell := range row {
			pdf.CellFormat(colW, pdfRowH, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(pdfRowH)
	}
}
