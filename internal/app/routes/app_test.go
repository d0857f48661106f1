package routes_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/app/controllers"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/routes"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/auth"
	"github.com/yigit/clubhub/internal/pkg/calendar"
	"github.com/yigit/clubhub/internal/pkg/validation"
	"github.com/yigit/clubhub/internal/seed"
	"github.com/yigit/clubhub/internal/testutil/memstore"
)

const (
	maxUpload  = 20 * 1024 * 1024
	cookieName = "clubhub_session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	store   *memstore.Store
	files   *memstore.Files
	logs    *bytes.Buffer
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if err := validation.RegisterWithGin(); err != nil {
		t.Fatalf("register validation: %v", err)
	}

	store := memstore.New()
	files := memstore.NewFiles()
	logs := &bytes.Buffer{}
	lgr := zerolog.New(logs)

	renderer, err := views.New(files.URL, time.UTC)
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}

	tokens := auth.NewSessionTokens(auth.SessionConfig{SecretKey: "test-secret", TTL: time.Hour, Issuer: "clubhub"})
	authService := services.NewAuthService(store.Users(), store.Sessions(), tokens, nil, lgr)
	yearService := services.NewAcademicYearService(store.Years(), store.Units(), lgr)
	unitService := services.NewUnitService(store.Units(), store.Years(), lgr)
	resourceService := services.NewResourceService(store.Resources(), store.Units(), files, maxUpload, lgr)
	eventService := services.NewEventService(store.Events(), files, calendar.Feed{Name: "Club Events"}, maxUpload, time.UTC, lgr)
	dashboardService := services.NewDashboardService(store.Units(), store.Resources(), eventService, lgr)

	cookie := middleware.SessionCookie{Name: cookieName}
	authMiddleware := middleware.NewAuthMiddleware(authService, cookie, renderer)

	router := gin.New()
	router.Use(authMiddleware.LoadSession())
	router.NoRoute(middleware.NotFound(renderer))
	routes.SetupRouter(router, routes.Controllers{
		Home:         controllers.NewHomeController(eventService, renderer),
		Auth:         controllers.NewAuthController(authService, cookie, renderer, lgr),
		Dashboard:    controllers.NewDashboardController(dashboardService, renderer),
		Unit:         controllers.NewUnitController(unitService, yearService, renderer),
		Resource:     controllers.NewResourceController(resourceService, unitService, renderer),
		Event:        controllers.NewEventController(eventService, maxUpload, renderer),
		AcademicYear: controllers.NewAcademicYearController(yearService, renderer),
	}, authMiddleware)
	handler := middleware.Chain(router, middleware.BodyLimit(1<<20, 2*maxUpload+1<<20))

	if err := seed.EnsureAcademicYears(t.Context(), store.Years(), lgr); err != nil {
		t.Fatalf("seed years: %v", err)
	}

	return &testApp{store: store, files: files, logs: logs, handler: handler}
}

func (a *testApp) do(t *testing.T, req *http.Request, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(t *testing.T, path string, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, httptest.NewRequest(http.MethodGet, path, nil), session)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req, session)
}

func (a *testApp) postMultipart(t *testing.T, path string, fields map[string]string, files map[string]memstore.File, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := memstore.MultipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return a.do(t, req, session)
}

// login stores an account and signs it in through the login form
func (a *testApp) login(t *testing.T, user *models.User, password string) *http.Cookie {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user.Password = hash
	user.IsActive = true
	if err := a.store.Users().Create(t.Context(), user); err != nil {
		t.Fatalf("create user %s: %v", user.Username, err)
	}

	rec := a.postForm(t, "/login/", url.Values{"username": {user.Username}, "password": {password}}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login %s: status %d\n%s", user.Username, rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

func (a *testApp) loginAdmin(t *testing.T) *http.Cookie {
	t.Helper()
	return a.login(t, &models.User{Username: "admin", IsStaff: true, IsSuperuser: true, RoleType: models.RoleAdmin}, "adm1n-pass")
}

func (a *testApp) loginStudent(t *testing.T) *http.Cookie {
	t.Helper()
	return a.login(t, &models.User{Username: "bob", RoleType: models.RoleStudent}, "stud3nt-pass")
}

func (a *testApp) yearID(t *testing.T, year int) int64 {
	t.Helper()
	years, err := a.store.Years().GetAll(t.Context())
	if err != nil {
		t.Fatalf("list years: %v", err)
	}
	for _, y := range years {
		if y.Year == year {
			return y.ID
		}
	}
	t.Fatalf("year %d not seeded", year)
	return 0
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		body := rec.Body.String()
		if len(body) > 2048 {
			body = body[:2048]
		}
		t.Fatalf("status = %d, want %d\n%s", rec.Code, want, body)
	}
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assertStatus(t, rec, http.StatusSeeOther)
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("Location = %q, want %q", got, location)
	}
}

// assertOrder checks that every item occurs in body, in the given order
func assertOrder(t *testing.T, body string, items ...string) {
	t.Helper()
	last := -1
	for _, item := range items {
		idx := strings.Index(body, item)
		if idx < 0 {
			t.Errorf("%q missing from page", item)
			return
		}
		if idx < last {
			t.Errorf("%q appears out of order", item)
		}
		last = idx
	}
}
