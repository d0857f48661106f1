package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/auth"
	"github.com/yigit/clubhub/internal/pkg/calendar"
	"github.com/yigit/clubhub/internal/testutil/memstore"
)

const testMaxUpload = 20 * 1024 * 1024

type fixture struct {
	store     *memstore.Store
	files     *memstore.Files
	auth      *AuthService
	years     *AcademicYearService
	units     *UnitService
	resources *ResourceService
	events    *EventService
	dashboard *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	files := memstore.NewFiles()
	lgr := zerolog.Nop()
	tokens := auth.NewSessionTokens(auth.SessionConfig{SecretKey: "test-secret", TTL: time.Hour, Issuer: "clubhub"})

	events := NewEventService(store.Events(), files, calendar.Feed{Name: "Club events"}, testMaxUpload, time.UTC, lgr)
	return &fixture{
		store:     store,
		files:     files,
		auth:      NewAuthService(store.Users(), store.Sessions(), tokens, nil, lgr),
		years:     NewAcademicYearService(store.Years(), store.Units(), lgr),
		units:     NewUnitService(store.Units(), store.Years(), lgr),
		resources: NewResourceService(store.Resources(), store.Units(), files, testMaxUpload, lgr),
		events:    events,
		dashboard: NewDashboardService(store.Units(), store.Resources(), events, lgr),
	}
}

func adminPrincipal() *appAuth.Principal {
	return appAuth.NewPrincipal(&models.User{ID: 1, Username: "admin", IsStaff: true, IsActive: true}, "admin-session")
}

func studentPrincipal() *appAuth.Principal {
	return appAuth.NewPrincipal(&models.User{ID: 2, Username: "alice", RoleType: models.RoleStudent, IsActive: true}, "alice-session")
}

func (f *fixture) year(t *testing.T, y int) *models.AcademicYear {
	t.Helper()
	year := &models.AcademicYear{Year: y}
	if err := f.store.Years().Create(t.Context(), year); err != nil {
		t.Fatalf("create year %d: %v", y, err)
	}
	return year
}

func (f *fixture) unit(t *testing.T, yearID int64, title string) *models.Unit {
	t.Helper()
	unit := &models.Unit{YearID: yearID, Title: title}
	if err := f.store.Units().Create(t.Context(), unit); err != nil {
		t.Fatalf("create unit %s: %v", title, err)
	}
	return unit
}

func assertFieldError(t *testing.T, err error, field, want string) {
	t.Helper()
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := apperrors.FieldErrors(err)
	if got, ok := fields[field]; !ok {
		t.Fatalf("expected error on %q, got %v", field, fields)
	} else if want != "" && got != want {
		t.Errorf("error on %q = %q, want %q", field, got, want)
	}
}
