package vacancy

// Shape identifies which column layout a CSV export uses.
type Shape int

const (
	// Reduced is the six-column export: name, salary_from, salary_to,
	// salary_currency, area_name, published_at.
	Reduced Shape = iota
	// Full is the complete hh.ru-style export with description, skills and
	// employer columns.
	Full
)

func (s Shape) String() string {
	if s == Full {
		return "full"
	}
	return "reduced"
}

// ReducedColumns is the number of columns in a Reduced export. Headers of
// twelve or more columns select the Full layout; other widths are rejected.
const ReducedColumns = 6

// RawSalary holds salary cells as they appear in the file.
type RawSalary struct {
	From     string `json:"salaryFrom"`
	To       string `json:"salaryTo"`
	Gross    string `json:"salaryGross,omitempty"`
	Currency string `json:"salaryCurrency"`
}

// RawVacancy is one structurally valid CSV row mapped onto named fields.
// Values are untouched strings; text cleanup happens in the Normalizer.
type RawVacancy struct {
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	KeySkills    string    `json:"keySkills,omitempty"`
	ExperienceID string    `json:"experienceId,omitempty"`
	Premium      string    `json:"premium,omitempty"`
	EmployerName string    `json:"employerName,omitempty"`
	Salary       RawSalary `json:"salary"`
	AreaName     string    `json:"areaName"`
	PublishedAt  string    `json:"publishedAt"`
}

// Record is a canonical vacancy ready for aggregation. Only Name, AreaName,
// Year and Salary take part in statistics; the rest is carried through.
type Record struct {
	Name         string
	AreaName     string
	Year         int
	Salary       float64 // rubles-equivalent midpoint of the salary range
	Currency     string  // rate-table key the salary was converted from
	Description  string
	KeySkills    []string
	ExperienceID string
	Premium      bool
	EmployerName string
	SalaryGross  string
}

// Dataset is the result of loading a CSV export.
type Dataset struct {
	Header  []string
	Shape   Shape
	Rows    []RawVacancy
	Dropped int // rows rejected for empty cells or a wrong column count
}
