package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

// SessionRepository handles server-side session records
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	sql, args, err := r.sb.Insert("sessions").
		Columns("id", "user_id", "expires_at").
		Values(session.ID, session.UserID, session.ExpiresAt).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&session.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", session.UserID).Msg("Error creating session")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its token id
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	sql, args, err := r.sb.Select("id", "user_id", "expires_at", "created_at", "revoked_at").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	session := &models.Session{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt, &session.RevokedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrSessionRevoked
		}
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	return session, nil
}

// Revoke marks a session as revoked. Revoking twice is not an error.
func (r *SessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	sql, args, err := r.sb.Update("sessions").
		Set("revoked_at", at).
		Where(squirrel.Eq{"id": id, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("sessionID", id).Msg("Error revoking session")
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired or were revoked before the cutoff
func (r *SessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": cutoff},
			squirrel.Lt{"revoked_at": cutoff},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete sessions query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
