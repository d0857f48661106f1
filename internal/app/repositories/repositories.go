package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	SessionRepository      *SessionRepository
	AcademicYearRepository *AcademicYearRepository
	UnitRepository         *UnitRepository
	ResourceRepository     *ResourceRepository
	EventRepository        *EventRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		SessionRepository:      NewSessionRepository(db),
		AcademicYearRepository: NewAcademicYearRepository(db),
		UnitRepository:         NewUnitRepository(db),
		ResourceRepository:     NewResourceRepository(db),
		EventRepository:        NewEventRepository(db),
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
