package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/dberrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *EventRepository) selectEvents() squirrel.SelectBuilder {
	return r.sb.Select(
		"id", "title", "description", "location", "start_at", "end_at",
		"poster_path", "created_by", "created_at",
	).From("events")
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.Start, &e.End,
		&e.PosterPath, &e.CreatedBy, &e.CreatedAt,
	)
	return e, err
}

// Create inserts an event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns("title", "description", "location", "start_at", "end_at", "poster_path", "created_by").
		Values(e.Title, e.Description, e.Location, e.Start, e.End, e.PosterPath, e.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewValidationError("end", "End time must be after the start time.")
		}
		logger.Error().Err(err).Str("title", e.Title).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// Update changes the editable fields of an event
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Update("events").
		SetMap(map[string]interface{}{
			"title":       e.Title,
			"description": e.Description,
			"location":    e.Location,
			"start_at":    e.Start,
			"end_at":      e.End,
			"poster_path": e.PosterPath,
		}).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewValidationError("end", "End time must be after the start time.")
		}
		logger.Error().Err(err).Int64("eventID", e.ID).Msg("Error updating event")
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.selectEvents().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("error getting event: %w", err)
	}
	return e, nil
}

// GetAll retrieves every event, latest start first
func (r *EventRepository) GetAll(ctx context.Context) ([]*models.Event, error) {
	return r.list(ctx, r.selectEvents().OrderBy("start_at DESC", "id DESC"))
}

// ListUpcoming retrieves events starting at or after now, earliest first
func (r *EventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]*models.Event, error) {
	return r.list(ctx, r.selectEvents().Where(squirrel.GtOrEq{"start_at": now}).OrderBy("start_at ASC", "id ASC"))
}

// ListPast retrieves events that started before now, latest first
func (r *EventRepository) ListPast(ctx context.Context, now time.Time) ([]*models.Event, error) {
	return r.list(ctx, r.selectEvents().Where(squirrel.Lt{"start_at": now}).OrderBy("start_at DESC", "id DESC"))
}

func (r *EventRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Event, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list events query")
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

// Delete removes an event row
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error deleting event")
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Count returns the number of events
func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting events: %w", err)
	}
	return n, nil
}
