package services

import (
	"context"
	"time"

	"github.com/yigit/clubhub/internal/app/models"
)

// Store interfaces implemented by the repositories package. Services depend on
// these so they can run against in-memory fakes.

// UserStore persists user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// SessionStore persists server-side sessions
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
}

// AcademicYearStore persists academic years
type AcademicYearStore interface {
	Create(ctx context.Context, year *models.AcademicYear) error
	Update(ctx context.Context, year *models.AcademicYear) error
	GetByID(ctx context.Context, id int64) (*models.AcademicYear, error)
	GetAll(ctx context.Context) ([]*models.AcademicYear, error)
	Delete(ctx context.Context, id int64) error
}

// UnitStore persists units
type UnitStore interface {
	Create(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
	GetByID(ctx context.Context, id int64) (*models.Unit, error)
	GetAll(ctx context.Context) ([]*models.Unit, error)
	GetByYearID(ctx context.Context, yearID int64) ([]*models.Unit, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// ResourceStore persists uploaded resources
type ResourceStore interface {
	Create(ctx context.Context, res *models.Resource) error
	Update(ctx context.Context, res *models.Resource) error
	GetByID(ctx context.Context, id int64) (*models.Resource, error)
	List(ctx context.Context, filter models.ResourceFilter) ([]*models.Resource, error)
	Count(ctx context.Context, filter models.ResourceFilter) (int, error)
	Delete(ctx context.Context, id int64) error
}

// EventStore persists events
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetAll(ctx context.Context) ([]*models.Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]*models.Event, error)
	ListPast(ctx context.Context, now time.Time) ([]*models.Event, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
