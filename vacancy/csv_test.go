package vacancy

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const reducedCSV = "name,salary_from,salary_to,salary_currency,area_name,published_at\n" +
	"Javascript Dev,1000.0,1000.0,RUR,Moscow,2022-07-05T18:19:30+0300\n" +
	"Python Dev,2000,2000,RUR,Moscow,2022-07-06T18:19:30+0300\n" +
	"Broken Dev,,2000,RUR,Moscow,2022-07-06T18:19:30+0300\n" +
	"Short Row,1,2,RUR,Kazan\n" +
	"Javascript Dev,3000,3000,RUR,Kazan,2023-01-01T00:00:00+0300\n"

func TestReadReduced(t *testing.T) {
	ds, err := Read(strings.NewReader(reducedCSV))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ds.Shape != Reduced {
		t.Errorf("Shape = %v, want reduced", ds.Shape)
	}
	if len(ds.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(ds.Rows))
	}
	if ds.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", ds.Dropped)
	}
	r := ds.Rows[2]
	if r.Name != "Javascript Dev" || r.AreaName != "Kazan" || r.Salary.From != "3000" || r.Salary.Currency != "RUR" {
		t.Errorf("unexpected row mapping: %+v", r)
	}
}

func TestReadStripsBOM(t *testing.T) {
	ds, err := Read(strings.NewReader("\ufeff" + reducedCSV))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ds.Header[0] != "name" {
		t.Errorf("Header[0] = %q, want %q", ds.Header[0], "name")
	}
}

func TestReadFull(t *testing.T) {
	data := "name,description,key_skills,experience_id,premium,employer_name,salary_from,salary_to,salary_gross,salary_currency,area_name,published_at\n" +
		"Go Dev,\"<p>Build</p>\",\"Go\nSQL\",noExperience,False,Acme,100000.0,150000.0,True,RUR,Москва,2022-07-05T18:19:30+0300\n"
	ds, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ds.Shape != Full {
		t.Fatalf("Shape = %v, want full", ds.Shape)
	}
	r := ds.Rows[0]
	if r.KeySkills != "Go\nSQL" || r.Salary.Gross != "True" || r.AreaName != "Москва" || r.EmployerName != "Acme" {
		t.Errorf("unexpected row mapping: %+v", r)
	}
}

func TestReadNoRows(t *testing.T) {
	data := "name,salary_from,salary_to,salary_currency,area_name,published_at\n" +
		"Dev,,1,RUR,Moscow,2022\n"
	if _, err := Read(strings.NewReader(data)); !errors.Is(err, ErrNoRows) {
		t.Errorf("got %v, want ErrNoRows", err)
	}
}

func TestReadMalformedHeader(t *testing.T) {
	tests := []string{
		"a,b,c\n1,2,3\n",
		"a,b,c,d,e,f,g\n1,2,3,4,5,6,7\n",
		"a,b,c,d,e,f,g,h,i,j,k\n1,2,3,4,5,6,7,8,9,10,11\n",
	}
	for _, data := range tests {
		if _, err := Read(strings.NewReader(data)); !errors.Is(err, ErrMalformedHeader) {
			t.Errorf("Read(%q) = %v, want ErrMalformedHeader", data, err)
		}
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "empty.csv", nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "vacancies.csv", []byte(reducedCSV), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(fs, "empty.csv"); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty file: got %v, want ErrEmptyFile", err)
	}
	if _, err := Load(fs, "missing.csv"); err == nil {
		t.Error("missing file: expected error")
	}
	ds, err := Load(fs, "vacancies.csv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Rows) != 3 {
		t.Errorf("got %d rows, want 3", len(ds.Rows))
	}
}
