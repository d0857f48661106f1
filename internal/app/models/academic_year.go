package models

const (
	MinYearOfStudy = 1
	MaxYearOfStudy = 5
)

var yearLabels = map[int]string{
	1: "1st Year",
	2: "2nd Year",
	3: "3rd Year",
	4: "4th Year",
	5: "5th Year",
}

// AcademicYear groups the units taught in one year of study
type AcademicYear struct {
	ID   int64 `json:"id" db:"id"`
	Year int   `json:"year" db:"year"`
}

// Label returns the display name of the year, e.g. "2nd Year"
func (y *AcademicYear) Label() string {
	return YearLabel(y.Year)
}

// YearLabel maps a year of study to its display name
func YearLabel(year int) string {
	if label, ok := yearLabels[year]; ok {
		return label
	}
	return "Unknown Year"
}

// ValidYear reports whether year is within the supported years of study
func ValidYear(year int) bool {
	return year >= MinYearOfStudy && year <= MaxYearOfStudy
}
