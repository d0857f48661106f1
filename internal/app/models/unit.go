package models

import "fmt"

// Unit is a course taught in an academic year
type Unit struct {
	ID     int64  `json:"id" db:"id"`
	YearID int64  `json:"yearId" db:"year_id"`
	Title  string `json:"title" db:"title"`
	Code   string `json:"code" db:"code"`

	// Year is the owning year value, filled by joined queries
	Year int `json:"year,omitempty" db:"year"`
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s - Year %d", u.Title, u.Year)
}
