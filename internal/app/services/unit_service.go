package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

// UnitService handles unit CRUD
type UnitService struct {
	unitRepo UnitStore
	yearRepo AcademicYearStore
	logger   zerolog.Logger
}

// NewUnitService creates a new UnitService
func NewUnitService(unitRepo UnitStore, yearRepo AcademicYearStore, logger zerolog.Logger) *UnitService {
	return &UnitService{
		unitRepo: unitRepo,
		yearRepo: yearRepo,
		logger:   logger,
	}
}

// List returns every unit ordered by year then title
func (s *UnitService) List(ctx context.Context) ([]*models.Unit, error) {
	units, err := s.unitRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting units: %w", err)
	}
	return units, nil
}

// Get returns one unit
func (s *UnitService) Get(ctx context.Context, id int64) (*models.Unit, error) {
	return s.unitRepo.GetByID(ctx, id)
}

func (s *UnitService) checkYear(ctx context.Context, yearID int64) error {
	if _, err := s.yearRepo.GetByID(ctx, yearID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("year", "Select a valid choice.")
		}
		return err
	}
	return nil
}

// Create adds a unit to an academic year
func (s *UnitService) Create(ctx context.Context, actor *appAuth.Principal, form *dto.UnitForm) (*models.Unit, error) {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkYear(ctx, form.YearID); err != nil {
		return nil, err
	}

	unit := &models.Unit{YearID: form.YearID, Title: form.Title, Code: form.Code}
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("unitID", unit.ID).Str("title", unit.Title).Int64("by", actor.UserID()).Msg("Unit created")
	return unit, nil
}

// Update changes an existing unit
func (s *UnitService) Update(ctx context.Context, actor *appAuth.Principal, id int64, form *dto.UnitForm) (*models.Unit, error) {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkYear(ctx, form.YearID); err != nil {
		return nil, err
	}

	unit.YearID = form.YearID
	unit.Title = form.Title
	unit.Code = form.Code
	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("unitID", unit.ID).Int64("by", actor.UserID()).Msg("Unit updated")
	return unit, nil
}

// Delete removes a unit. Its resources stay without a unit.
func (s *UnitService) Delete(ctx context.Context, actor *appAuth.Principal, id int64) error {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.unitRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("unitID", id).Int64("by", actor.UserID()).Msg("Unit deleted")
	return nil
}
