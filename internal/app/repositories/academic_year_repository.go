package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/dberrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

// AcademicYearRepository handles database operations for academic years
type AcademicYearRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAcademicYearRepository creates a new AcademicYearRepository
func NewAcademicYearRepository(db *pgxpool.Pool) *AcademicYearRepository {
	return &AcademicYearRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a year. Duplicates and out of range values are validation errors.
func (r *AcademicYearRepository) Create(ctx context.Context, year *models.AcademicYear) error {
	sql, args, err := r.sb.Insert("academic_years").
		Columns("year").
		Values(year.Year).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create academic year SQL")
		return fmt.Errorf("failed to build create academic year query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&year.ID); err != nil {
		switch {
		case dberrors.IsDuplicateKeyError(err):
			return apperrors.NewValidationError("year", "Academic year with this Year already exists.")
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("year", "Select a valid choice.")
		}
		logger.Error().Err(err).Int("year", year.Year).Msg("Error executing create academic year query")
		return fmt.Errorf("error creating academic year: %w", err)
	}
	return nil
}

// EnsureYears inserts the given years, skipping the ones that already exist
func (r *AcademicYearRepository) EnsureYears(ctx context.Context, years []int) error {
	if len(years) == 0 {
		return nil
	}

	q := r.sb.Insert("academic_years").Columns("year")
	for _, y := range years {
		q = q.Values(y)
	}
	sql, args, err := q.Suffix("ON CONFLICT (year) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ensure academic years query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Ints("years", years).Msg("Error ensuring academic years")
		return fmt.Errorf("error ensuring academic years: %w", err)
	}
	return nil
}

// GetByID retrieves an academic year by ID
func (r *AcademicYearRepository) GetByID(ctx context.Context, id int64) (*models.AcademicYear, error) {
	sql, args, err := r.sb.Select("id", "year").
		From("academic_years").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get academic year query: %w", err)
	}

	year := &models.AcademicYear{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&year.ID, &year.Year); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrAcademicYearNotFound
		}
		logger.Error().Err(err).Int64("yearID", id).Msg("Error scanning academic year row")
		return nil, fmt.Errorf("error getting academic year: %w", err)
	}
	return year, nil
}

// GetAll retrieves all academic years ordered by year
func (r *AcademicYearRepository) GetAll(ctx context.Context) ([]*models.AcademicYear, error) {
	sql, args, err := r.sb.Select("id", "year").
		From("academic_years").
		OrderBy("year ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all academic years query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all academic years query")
		return nil, fmt.Errorf("error querying academic years: %w", err)
	}
	defer rows.Close()

	years := []*models.AcademicYear{}
	for rows.Next() {
		year := &models.AcademicYear{}
		if err := rows.Scan(&year.ID, &year.Year); err != nil {
			return nil, fmt.Errorf("error scanning academic year row: %w", err)
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating academic year rows: %w", err)
	}
	return years, nil
}

// Update changes the year of study. Duplicates and out of range values are validation errors.
func (r *AcademicYearRepository) Update(ctx context.Context, year *models.AcademicYear) error {
	sql, args, err := r.sb.Update("academic_years").
		Set("year", year.Year).
		Where(squirrel.Eq{"id": year.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update academic year query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		switch {
		case dberrors.IsDuplicateKeyError(err):
			return apperrors.NewValidationError("year", "Academic year with this Year already exists.")
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("year", "Select a valid choice.")
		}
		logger.Error().Err(err).Int64("yearID", year.ID).Msg("Error updating academic year")
		return fmt.Errorf("error updating academic year: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAcademicYearNotFound
	}
	return nil
}

// Delete removes a year. Its units go with it.
func (r *AcademicYearRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("academic_years").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete academic year query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("yearID", id).Msg("Error deleting academic year")
		return fmt.Errorf("error deleting academic year: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAcademicYearNotFound
	}
	return nil
}
