package dto

import "github.com/yigit/clubhub/internal/app/models"

// DashboardCounts summarises the catalog for the admin dashboard
type DashboardCounts struct {
	Units          int
	Resources      int
	PastPapers     int
	UpcomingEvents int
	PastEvents     int
}

// Dashboard is everything the admin dashboard shows
type Dashboard struct {
	Units     []*models.Unit
	Resources []*models.Resource
	Events    models.EventPartition
	Counts    DashboardCounts
}

// YearUnits is an academic year with its units
type YearUnits struct {
	Year  *models.AcademicYear
	Units []*models.Unit
}

// CategoryListing is the result of browsing one resource category
type CategoryListing struct {
	Type      models.ResourceType
	Unit      *models.Unit
	Resources []*models.Resource
}
