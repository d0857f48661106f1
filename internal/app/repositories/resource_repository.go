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

// ResourceRepository handles database operations for uploaded resources
type ResourceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ResourceRepository) selectResources() squirrel.SelectBuilder {
	return r.sb.Select(
		"r.id", "r.title", "r.unit_id", "r.resource_type", "r.file_path",
		"r.uploaded_by", "r.uploaded_at", "r.description",
		"COALESCE(u.title, '')", "COALESCE(us.username, '')",
	).
		From("resources r").
		LeftJoin("units u ON u.id = r.unit_id").
		LeftJoin("users us ON us.id = r.uploaded_by")
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	res := &models.Resource{}
	var resourceType string
	err := row.Scan(
		&res.ID, &res.Title, &res.UnitID, &resourceType, &res.FilePath,
		&res.UploadedBy, &res.UploadedAt, &res.Description,
		&res.UnitTitle, &res.UploadedByUsername,
	)
	res.ResourceType = models.ResourceType(resourceType)
	return res, err
}

// Create inserts a resource. uploaded_at is assigned by the database.
func (r *ResourceRepository) Create(ctx context.Context, res *models.Resource) error {
	sql, args, err := r.sb.Insert("resources").
		Columns("title", "unit_id", "resource_type", "file_path", "uploaded_by", "description").
		Values(res.Title, res.UnitID, string(res.ResourceType), res.FilePath, res.UploadedBy, res.Description).
		Suffix("RETURNING id, uploaded_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create resource SQL")
		return fmt.Errorf("failed to build create resource query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&res.ID, &res.UploadedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewValidationError("unit", "Select a valid choice.")
		}
		logger.Error().Err(err).Str("title", res.Title).Msg("Error executing create resource query")
		return fmt.Errorf("error creating resource: %w", err)
	}
	return nil
}

// Update changes the editable fields of a resource. uploaded_by and uploaded_at never change.
func (r *ResourceRepository) Update(ctx context.Context, res *models.Resource) error {
	sql, args, err := r.sb.Update("resources").
		SetMap(map[string]interface{}{
			"title":         res.Title,
			"unit_id":       res.UnitID,
			"resource_type": string(res.ResourceType),
			"file_path":     res.FilePath,
			"description":   res.Description,
		}).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update resource query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewValidationError("unit", "Select a valid choice.")
		}
		logger.Error().Err(err).Int64("resourceID", res.ID).Msg("Error updating resource")
		return fmt.Errorf("error updating resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// GetByID retrieves a resource by ID
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	sql, args, err := r.selectResources().Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get resource query: %w", err)
	}

	res, err := scanResource(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("resourceID", id).Msg("Error scanning resource row")
		return nil, fmt.Errorf("error getting resource: %w", err)
	}
	return res, nil
}

func applyResourceFilter(q squirrel.SelectBuilder, filter models.ResourceFilter) squirrel.SelectBuilder {
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"r.resource_type": string(*filter.Type)})
	}
	if filter.ExcludeType != nil {
		q = q.Where(squirrel.NotEq{"r.resource_type": string(*filter.ExcludeType)})
	}
	if filter.UnitID != nil {
		q = q.Where(squirrel.Eq{"r.unit_id": *filter.UnitID})
	}
	return q
}

// List retrieves resources matching filter, newest first
func (r *ResourceRepository) List(ctx context.Context, filter models.ResourceFilter) ([]*models.Resource, error) {
	q := applyResourceFilter(r.selectResources(), filter).OrderBy("r.uploaded_at DESC", "r.id DESC")
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list resources query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list resources query")
		return nil, fmt.Errorf("error querying resources: %w", err)
	}
	defer rows.Close()

	resources := []*models.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning resource row: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resource rows: %w", err)
	}
	return resources, nil
}

// Count returns the number of resources matching filter
func (r *ResourceRepository) Count(ctx context.Context, filter models.ResourceFilter) (int, error) {
	q := applyResourceFilter(r.sb.Select("COUNT(*)").From("resources r"), filter)
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count resources query: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting resources: %w", err)
	}
	return n, nil
}

// Delete removes a resource row
func (r *ResourceRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("resources").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete resource query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("resourceID", id).Msg("Error deleting resource")
		return fmt.Errorf("error deleting resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
