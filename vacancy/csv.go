// Package vacancy loads job-vacancy CSV exports and normalizes their rows
// into canonical records.
package vacancy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrEmptyFile is returned for a zero-length input file.
	ErrEmptyFile = errors.New("empty file")
	// ErrNoRows is returned when every data row was rejected.
	ErrNoRows = errors.New("no valid rows")
	// ErrMalformedHeader is returned when the header matches neither layout.
	ErrMalformedHeader = errors.New("malformed header")
)

// fullColumns is the number of positional columns the Full layout reads.
const fullColumns = 12

// Load opens path on fsys and reads it as a vacancy export.
func Load(fsys afero.Fs, path string) (*Dataset, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Read parses a UTF-8 CSV export (an optional byte-order mark is removed).
// The first record is the header; rows with an empty cell or a field count
// different from the header are dropped.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	ds := &Dataset{Header: header}
	switch {
	case len(header) >= fullColumns:
		ds.Shape = Full
	case len(header) == ReducedColumns:
		ds.Shape = Reduced
	default:
		return nil, fmt.Errorf("%w: %d columns", ErrMalformedHeader, len(header))
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if !wellFormed(row, len(header)) {
			ds.Dropped++
			continue
		}
		ds.Rows = append(ds.Rows, mapRow(row, ds.Shape))
	}

	if len(ds.Rows) == 0 {
		return nil, ErrNoRows
	}
	return ds, nil
}

func wellFormed(row []string, width int) bool {
	if len(row) != width {
		return false
	}
	for _, cell := range row {
		if cell == "" {
			return false
		}
	}
	return true
}

func mapRow(row []string, shape Shape) RawVacancy {
	if shape == Reduced {
		return RawVacancy{
			Name: row[0],
			Salary: RawSalary{
				From:     row[1],
				To:       row[2],
				Currency: row[3],
			},
			AreaName:    row[4],
			PublishedAt: row[5],
		}
	}
	return RawVacancy{
		Name:         row[0],
		Description:  row[1],
		KeySkills:    row[2],
		ExperienceID: row[3],
		Premium:      row[4],
		EmployerName: row[5],
		Salary: RawSalary{
			From:     row[6],
			To:       row[7],
			Gross:    row[8],
			Currency: row[9],
		},
		AreaName:    row[10],
		PublishedAt: row[11],
	}
}
