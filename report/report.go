// Package report renders an aggregated vacancy report into a spreadsheet,
// a chart image, an HTML page and a PDF document.
package report

import "errors"

// ErrBackendUnavailable wraps failures of a rendering backend: spreadsheet
// encoding, chart rasterization, templating or PDF generation.
var ErrBackendUnavailable = errors.New("rendering backend unavailable")

// Other is the label of the pie slice that collects every city outside
// the ranked list.
const Other = "Другие"
