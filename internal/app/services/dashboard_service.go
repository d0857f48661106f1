package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/export"
)

const exportTimeLayout = "2006-01-02 15:04"

// DashboardService assembles the admin overview
type DashboardService struct {
	unitRepo     UnitStore
	resourceRepo ResourceStore
	events       *EventService
	logger       zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(unitRepo UnitStore, resourceRepo ResourceStore, events *EventService, logger zerolog.Logger) *DashboardService {
	return &DashboardService{
		unitRepo:     unitRepo,
		resourceRepo: resourceRepo,
		events:       events,
		logger:       logger,
	}
}

// Overview returns every unit, resource and event with summary counts
func (s *DashboardService) Overview(ctx context.Context, actor *appAuth.Principal) (*dto.Dashboard, error) {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	units, err := s.unitRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting units: %w", err)
	}
	resources, err := s.resourceRepo.List(ctx, models.ResourceFilter{})
	if err != nil {
		return nil, fmt.Errorf("error getting resources: %w", err)
	}
	partition, err := s.events.Partition(ctx)
	if err != nil {
		return nil, err
	}

	papers := 0
	for _, r := range resources {
		if r.ResourceType == models.ResourceTypePapers {
			papers++
		}
	}

	return &dto.Dashboard{
		Units:     units,
		Resources: resources,
		Events:    *partition,
		Counts: dto.DashboardCounts{
			Units:          len(units),
			Resources:      len(resources),
			PastPapers:     papers,
			UpcomingEvents: len(partition.Upcoming),
			PastEvents:     len(partition.Past),
		},
	}, nil
}

// Export writes the dashboard contents to w as an .xlsx workbook
func (s *DashboardService) Export(ctx context.Context, actor *appAuth.Principal, w io.Writer) error {
	board, err := s.Overview(ctx, actor)
	if err != nil {
		return err
	}

	loc := s.events.Location()
	now := s.events.Now()

	unitRows := make([][]string, 0, len(board.Units))
	for _, u := range board.Units {
		unitRows = append(unitRows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Title,
			u.Code,
			models.YearLabel(u.Year),
		})
	}

	resourceRows := make([][]string, 0, len(board.Resources))
	for _, r := range board.Resources {
		resourceRows = append(resourceRows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			r.ResourceType.Label(),
			r.UnitTitle,
			r.UploadedByUsername,
			r.UploadedAt.In(loc).Format(exportTimeLayout),
		})
	}

	events := append(append([]*models.Event{}, board.Events.Upcoming...), board.Events.Past...)
	eventRows := make([][]string, 0, len(events))
	for _, e := range events {
		end := ""
		if e.End != nil {
			end = e.End.In(loc).Format(exportTimeLayout)
		}
		eventRows = append(eventRows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Title,
			e.Location,
			e.Start.In(loc).Format(exportTimeLayout),
			end,
			string(e.Status(now)),
		})
	}

	wb, err := export.NewWorkbook([]export.Sheet{
		{Title: "Units", Header: []string{"ID", "Title", "Code", "Year"}, Rows: unitRows},
		{Title: "Resources", Header: []string{"ID", "Title", "Type", "Unit", "Uploaded By", "Uploaded At"}, Rows: resourceRows},
		{Title: "Events", Header: []string{"ID", "Title", "Location", "Start", "End", "Status"}, Rows: eventRows},
	})
	if err != nil {
		return fmt.Errorf("error building workbook: %w", err)
	}
	defer wb.Close()

	if _, err := wb.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}

	s.logger.Info().Int64("by", actor.UserID()).Time("at", now).Msg("Dashboard exported")
	return nil
}

// ExportFilename names the workbook for a download at t
func ExportFilename(t time.Time) string {
	return "clubhub-" + t.Format("20060102-1504") + ".xlsx"
}
