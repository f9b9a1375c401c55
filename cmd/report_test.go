package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/vacstat/config"
	"github.com/zalepa/vacstat/report"
)

const vacanciesCSV = "name,salary_from,salary_to,salary_currency,area_name,published_at\n" +
	"Программист,100000.0,100000.0,RUR,Москва,2022-07-05T18:19:30+0300\n" +
	"Аналитик,50000,50000,RUR,Москва,2022-07-06T18:19:30+0300\n" +
	"Программист Go,80000,80000,RUR,Казань,2023-01-01T00:00:00+0300\n"

type testEnv struct {
	app    *app
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T, files map[string]string, env ...string) *testEnv {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(data), 0o644))
	}
	e := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	e.app = &app{
		fs:          fs,
		stdin:       strings.NewReader(""),
		stdout:      e.stdout,
		stderr:      e.stderr,
		environ:     func() []string { return env },
		interactive: func() bool { return false },
	}
	return e
}

func (e *testEnv) run(args ...string) int {
	return e.app.execute(context.Background(), args)
}

func (e *testEnv) exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := afero.Exists(e.app.fs, path)
	require.NoError(t, err)
	return ok
}

func TestReportWritesArtifacts(t *testing.T) {
	e := newTestEnv(t, map[string]string{"data.csv": vacanciesCSV})

	code := e.run("report", "data.csv", "-p", "Программист", "-o", "out", "--log-level", "disabled")
	require.Equal(t, 0, code, e.stderr.String())

	for _, name := range []string{"out/report.xlsx", "out/graph.png", "out/report.html", "out/report.pdf"} {
		assert.True(t, e.exists(t, name), name)
	}

	info, err := report.Inspect(e.app.fs, "out/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Pages)
	assert.GreaterOrEqual(t, info.Images, 1)

	html, err := afero.ReadFile(e.app.fs, "out/report.html")
	require.NoError(t, err)
	assert.Contains(t, string(html), `<img src="graph.png"`)
	assert.Contains(t, string(html), "66.67%")
}

func TestReportIsDefaultCommand(t *testing.T) {
	e := newTestEnv(t, map[string]string{"data.csv": vacanciesCSV})

	code := e.run("data.csv", "--profession", "Программист", "--workers", "3", "--log-level", "disabled")
	require.Equal(t, 0, code, e.stderr.String())
	assert.True(t, e.exists(t, "report.xlsx"))
	assert.True(t, e.exists(t, "report.pdf"))
}

func TestReportLogsArtifacts(t *testing.T) {
	e := newTestEnv(t, map[string]string{"data.csv": vacanciesCSV})

	code := e.run("data.csv", "-p", "Программист", "--log-json")
	require.Equal(t, 0, code, e.stderr.String())
	assert.Contains(t, e.stderr.String(), "wrote workbook")
	assert.Contains(t, e.stderr.String(), `"path":"report.pdf"`)
}

func TestReportUserFacingConditions(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty file", "", "Пустой файл"},
		{"no valid rows", "name,salary_from,salary_to,salary_currency,area_name,published_at\n" +
			"Программист,,100,RUR,Москва,2022-07-05T18:19:30+0300\n", "Нет данных"},
		{"header only", "name,salary_from,salary_to,salary_currency,area_name,published_at\n", "Нет данных"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t, map[string]string{"data.csv": tt.data})

			code := e.run("data.csv", "-p", "Программист", "--log-level", "disabled")

			assert.Equal(t, 0, code)
			assert.Equal(t, tt.want+"\n", e.stdout.String())
			assert.False(t, e.exists(t, "report.xlsx"))
		})
	}
}

func TestReportFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		args []string
		want string
	}{
		{
			name: "unknown currency code",
			data: "name,salary_from,salary_to,salary_currency,area_name,published_at\n" +
				"Программист,100,100,XXX,Москва,2022-07-05T18:19:30+0300\n",
			args: []string{"data.csv", "-p", "Программист"},
			want: "unknown currency code",
		},
		{
			name: "malformed date",
			data: "name,salary_from,salary_to,salary_currency,area_name,published_at\n" +
				"Программист,100,100,RUR,Москва,20\n",
			args: []string{"data.csv", "-p", "Программист"},
			want: "malformed publication date",
		},
		{
			name: "missing file",
			args: []string{"missing.csv", "-p", "Программист"},
			want: "missing.csv",
		},
		{
			name: "missing profession",
			data: vacanciesCSV,
			args: []string{"data.csv"},
			want: "Profession",
		},
		{
			name: "bad workers",
			data: vacanciesCSV,
			args: []string{"data.csv", "-p", "x", "--workers", "0"},
			want: "Workers",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			if tt.data != "" {
				files["data.csv"] = tt.data
			}
			e := newTestEnv(t, files)

			code := e.run(append(tt.args, "--log-level", "disabled")...)

			assert.Equal(t, 1, code)
			assert.Contains(t, e.stderr.String(), tt.want)
			assert.False(t, e.exists(t, "report.pdf"))
		})
	}
}

func TestReportPromptsForMissingInput(t *testing.T) {
	e := newTestEnv(t, map[string]string{"data.csv": vacanciesCSV})
	e.app.interactive = func() bool { return true }
	var asked bool
	e.app.prompt = func(in *config.Input) error {
		asked = true
		assert.Equal(t, "data.csv", in.File)
		in.Profession = "Программист"
		return nil
	}

	code := e.run("data.csv", "--log-level", "disabled")

	require.Equal(t, 0, code, e.stderr.String())
	assert.True(t, asked)
	assert.True(t, e.exists(t, "report.xlsx"))
}

func TestReportReadsEnvironment(t *testing.T) {
	e := newTestEnv(t, map[string]string{"data.csv": vacanciesCSV},
		"VACSTAT_INPUT_FILE=data.csv",
		"VACSTAT_INPUT_PROFESSION=Программист",
		"VACSTAT_OUTPUT_DIR=env-out",
		"VACSTAT_LOG_LEVEL=disabled",
	)

	code := e.run()

	require.Equal(t, 0, code, e.stderr.String())
	assert.True(t, e.exists(t, "env-out/report.xlsx"))
}

func TestSummary(t *testing.T) {
	e := newTestEnv(t, map[string]string{"data.csv": vacanciesCSV})

	code := e.run("summary", "data.csv", "-p", "Программист", "--log-level", "disabled")
	require.Equal(t, 0, code, e.stderr.String())

	out := e.stdout.String()
	for _, want := range []string{
		report.YearSheet,
		report.CitySheet,
		"Средняя зарплата - Программист",
		"75 000",
		"Москва",
		"66.67%",
		"Trend: 2022 to 2023 (2 periods)",
	} {
		assert.Contains(t, out, want)
	}
	assert.False(t, e.exists(t, "report.xlsx"), "summary writes no artifacts")
}
