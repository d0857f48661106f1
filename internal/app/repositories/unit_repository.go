package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/dberrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

// UnitRepository handles database operations for units
type UnitRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUnitRepository creates a new UnitRepository
func NewUnitRepository(db *pgxpool.Pool) *UnitRepository {
	return &UnitRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *UnitRepository) selectUnits() squirrel.SelectBuilder {
	return r.sb.Select("u.id", "u.year_id", "u.title", "u.code", "y.year").
		From("units u").
		Join("academic_years y ON y.id = u.year_id")
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	unit := &models.Unit{}
	err := row.Scan(&unit.ID, &unit.YearID, &unit.Title, &unit.Code, &unit.Year)
	return unit, err
}

// Create inserts a unit
func (r *UnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	sql, args, err := r.sb.Insert("units").
		Columns("year_id", "title", "code").
		Values(unit.YearID, unit.Title, unit.Code).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create unit SQL")
		return fmt.Errorf("failed to build create unit query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&unit.ID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewValidationError("year", "Select a valid choice.")
		}
		logger.Error().Err(err).Str("title", unit.Title).Msg("Error executing create unit query")
		return fmt.Errorf("error creating unit: %w", err)
	}
	return nil
}

// Update changes the title, code and year of a unit
func (r *UnitRepository) Update(ctx context.Context, unit *models.Unit) error {
	sql, args, err := r.sb.Update("units").
		SetMap(map[string]interface{}{
			"year_id": unit.YearID,
			"title":   unit.Title,
			"code":    unit.Code,
		}).
		Where(squirrel.Eq{"id": unit.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update unit query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewValidationError("year", "Select a valid choice.")
		}
		logger.Error().Err(err).Int64("unitID", unit.ID).Msg("Error updating unit")
		return fmt.Errorf("error updating unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUnitNotFound
	}
	return nil
}

// GetByID retrieves a unit by ID
func (r *UnitRepository) GetByID(ctx context.Context, id int64) (*models.Unit, error) {
	sql, args, err := r.selectUnits().Where(squirrel.Eq{"u.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get unit query: %w", err)
	}

	unit, err := scanUnit(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrUnitNotFound
		}
		logger.Error().Err(err).Int64("unitID", id).Msg("Error scanning unit row")
		return nil, fmt.Errorf("error getting unit: %w", err)
	}
	return unit, nil
}

// GetAll retrieves every unit ordered by year then title
func (r *UnitRepository) GetAll(ctx context.Context) ([]*models.Unit, error) {
	return r.list(ctx, r.selectUnits().OrderBy("y.year ASC", "u.title ASC", "u.id ASC"))
}

// GetByYearID retrieves the units of one academic year ordered by title
func (r *UnitRepository) GetByYearID(ctx context.Context, yearID int64) ([]*models.Unit, error) {
	return r.list(ctx, r.selectUnits().Where(squirrel.Eq{"u.year_id": yearID}).OrderBy("u.title ASC", "u.id ASC"))
}

func (r *UnitRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Unit, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list units query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list units query")
		return nil, fmt.Errorf("error querying units: %w", err)
	}
	defer rows.Close()

	units := []*models.Unit{}
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning unit row: %w", err)
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", err)
	}
	return units, nil
}

// Delete removes a unit. Its resources are kept with no unit.
func (r *UnitRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("units").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete unit query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("unitID", id).Msg("Error deleting unit")
		return fmt.Errorf("error deleting unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUnitNotFound
	}
	return nil
}

// Count returns the number of units
func (r *UnitRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM units`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting units: %w", err)
	}
	return n, nil
}
