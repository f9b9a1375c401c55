package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/afero"

	"github.com/zalepa/vacstat/stats"
)

//go:embed templates/report.html.tmpl
var templates embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Option("missingkey=error").
		Funcs(sprig.FuncMap()).
		ParseFS(templates, "templates/report.html.tmpl"),
)

type htmlView struct {
	Label        string
	Chart        string
	Total        int
	Other        string
	YearHeaders  []string
	Years        []stats.YearRow
	CitySalaries []stats.CitySalary
	CityShares   []stats.CityShare
}

func newHTMLView(rep *stats.Report, chart string) htmlView {
	v := htmlView{
		Label:        rep.Filter,
		Chart:        chart,
		Total:        rep.Total,
		YearHeaders:  YearHeaders(rep.Filter),
		Years:        rep.Years,
		CitySalaries: rep.CitySalaries,
		CityShares:   rep.CityShares,
	}
	if other := rep.OtherPercent(); other.IsPositive() {
		v.Other = other.StringFixed(2) + "%"
	}
	return v
}

// RenderHTML executes the report template. chart is the image reference
// placed in the page; an empty chart omits the image.
func RenderHTML(w io.Writer, rep *stats.Report, chart string) error {
	if err := reportTemplate.Execute(w, newHTMLView(rep, chart)); err != nil {
		return fmt.Errorf("%w: render html: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// WriteHTML renders the report page to path.
func WriteHTML(fsys afero.Fs, path string, rep *stats.Report, chart string) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, rep, chart); err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}
