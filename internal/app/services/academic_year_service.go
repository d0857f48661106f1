package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
)

// AcademicYearService handles academic years and the units under them
type AcademicYearService struct {
	yearRepo AcademicYearStore
	unitRepo UnitStore
	logger   zerolog.Logger
}

// NewAcademicYearService creates a new AcademicYearService
func NewAcademicYearService(yearRepo AcademicYearStore, unitRepo UnitStore, logger zerolog.Logger) *AcademicYearService {
	return &AcademicYearService{
		yearRepo: yearRepo,
		unitRepo: unitRepo,
		logger:   logger,
	}
}

// List returns every academic year ordered by year
func (s *AcademicYearService) List(ctx context.Context) ([]*models.AcademicYear, error) {
	years, err := s.yearRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting academic years: %w", err)
	}
	return years, nil
}

// Get returns one academic year
func (s *AcademicYearService) Get(ctx context.Context, id int64) (*models.AcademicYear, error) {
	return s.yearRepo.GetByID(ctx, id)
}

// UnitsByYear returns a year with its units ordered by title
func (s *AcademicYearService) UnitsByYear(ctx context.Context, yearID int64) (*dto.YearUnits, error) {
	year, err := s.yearRepo.GetByID(ctx, yearID)
	if err != nil {
		return nil, err
	}

	units, err := s.unitRepo.GetByYearID(ctx, yearID)
	if err != nil {
		return nil, fmt.Errorf("error getting units: %w", err)
	}
	return &dto.YearUnits{Year: year, Units: units}, nil
}

// Create adds an academic year
func (s *AcademicYearService) Create(ctx context.Context, actor *appAuth.Principal, form *dto.AcademicYearForm) (*models.AcademicYear, error) {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	year := &models.AcademicYear{Year: form.Year}
	if err := s.yearRepo.Create(ctx, year); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("yearID", year.ID).Int("year", year.Year).Int64("by", actor.UserID()).Msg("Academic year created")
	return year, nil
}

// Update changes the year of study of an existing academic year
func (s *AcademicYearService) Update(ctx context.Context, actor *appAuth.Principal, id int64, form *dto.AcademicYearForm) (*models.AcademicYear, error) {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	year, err := s.yearRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	previous := year.Year
	year.Year = form.Year
	if err := s.yearRepo.Update(ctx, year); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("yearID", year.ID).Int("from", previous).Int("to", year.Year).Int64("by", actor.UserID()).Msg("Academic year updated")
	return year, nil
}

// Delete removes an academic year together with its units
func (s *AcademicYearService) Delete(ctx context.Context, actor *appAuth.Principal, id int64) error {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.yearRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("yearID", id).Int64("by", actor.UserID()).Msg("Academic year deleted")
	return nil
}
