package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/clubhub/internal/app/controllers"
	appMigrations "github.com/yigit/clubhub/internal/app/migrations"
	appRepos "github.com/yigit/clubhub/internal/app/repositories"
	appRoutes "github.com/yigit/clubhub/internal/app/routes"
	appServices "github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/config"
	"github.com/yigit/clubhub/internal/db"
	appMiddleware "github.com/yigit/clubhub/internal/middleware"
	pkgAuth "github.com/yigit/clubhub/internal/pkg/auth"
	"github.com/yigit/clubhub/internal/pkg/calendar"
	"github.com/yigit/clubhub/internal/pkg/email"
	"github.com/yigit/clubhub/internal/pkg/filestorage"
	"github.com/yigit/clubhub/internal/pkg/logger"
	"github.com/yigit/clubhub/internal/pkg/metrics"
	"github.com/yigit/clubhub/internal/pkg/observability"
	"github.com/yigit/clubhub/internal/pkg/validation"
	"github.com/yigit/clubhub/internal/seed"
)

// formBodyLimit caps every non-multipart request body
const formBodyLimit = 1 << 20

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         *appServices.AuthService
	AcademicYearService *appServices.AcademicYearService
	UnitService         *appServices.UnitService
	ResourceService     *appServices.ResourceService
	EventService        *appServices.EventService
	DashboardService    *appServices.DashboardService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	Views               *views.Renderer
	Tokens              *pkgAuth.SessionTokens
	Logger              zerolog.Logger
	FileStorage         *filestorage.LocalStorage
	Database            *db.PostgresDB
}

// LoadConfigAndSetupLogger loads .env and the configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err == nil {
		logger.Info().Msg("Loaded environment from .env")
	}

	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err // Return zero logger and the error
	}

	lgr, err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format, nil)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupObservability initializes error reporting. The returned func flushes pending events.
func SetupObservability(cfg *config.Config, lgr zerolog.Logger) func() {
	flush, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Sentry.Environment, cfg.Sentry.Release)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize Sentry, continuing without error reporting")
		return func() {}
	}
	if cfg.Sentry.DSN != "" {
		lgr.Info().Str("environment", cfg.Sentry.Environment).Msg("Sentry error reporting enabled")
	}
	return flush
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool, lgr).Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	// Create Default Data (after migrations)
	if err := seed.CreateDefaultData(ctx, appRepos.NewRepositories(database.Pool), cfg, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Database: database}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, "/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Views, err = views.New(deps.FileStorage.URL, cfg.Location())
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	deps.Tokens = pkgAuth.NewSessionTokens(pkgAuth.SessionConfig{
		SecretKey: cfg.Session.Secret,
		TTL:       cfg.SessionTTL(),
		Issuer:    cfg.Session.Issuer,
	})

	mailer := email.NewEmailService(email.ResendConfig{
		APIKey:  cfg.Email.ResendAPIKey,
		From:    cfg.Email.From,
		BaseURL: cfg.ExternalURL(),
	}, logger.Component("email"))

	maxUpload := cfg.MaxUploadBytes()

	// Initialize services
	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.Repos.SessionRepository, deps.Tokens, mailer, logger.Component("auth"))
	deps.AcademicYearService = appServices.NewAcademicYearService(deps.Repos.AcademicYearRepository, deps.Repos.UnitRepository, logger.Component("catalog"))
	deps.UnitService = appServices.NewUnitService(deps.Repos.UnitRepository, deps.Repos.AcademicYearRepository, logger.Component("catalog"))
	deps.ResourceService = appServices.NewResourceService(deps.Repos.ResourceRepository, deps.Repos.UnitRepository, deps.FileStorage, maxUpload, logger.Component("resources"))
	deps.EventService = appServices.NewEventService(
		deps.Repos.EventRepository,
		deps.FileStorage,
		calendar.Feed{Name: "Club Events", BaseURL: cfg.ExternalURL()},
		maxUpload,
		cfg.Location(),
		logger.Component("events"),
	)
	deps.DashboardService = appServices.NewDashboardService(deps.Repos.UnitRepository, deps.Repos.ResourceRepository, deps.EventService, logger.Component("dashboard"))

	cookie := appMiddleware.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Server.SecureCookies}
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService, cookie, deps.Views)

	deps.Controllers = appRoutes.Controllers{
		Home:         appControllers.NewHomeController(deps.EventService, deps.Views),
		Auth:         appControllers.NewAuthController(deps.AuthService, cookie, deps.Views, lgr),
		Dashboard:    appControllers.NewDashboardController(deps.DashboardService, deps.Views),
		Unit:         appControllers.NewUnitController(deps.UnitService, deps.AcademicYearService, deps.Views),
		Resource:     appControllers.NewResourceController(deps.ResourceService, deps.UnitService, deps.Views),
		Event:        appControllers.NewEventController(deps.EventService, maxUpload, deps.Views),
		AcademicYear: appControllers.NewAcademicYearController(deps.AcademicYearService, deps.Views),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), metrics.Middleware(), appMiddleware.RequestLogger(), deps.AuthMiddleware.LoadSession())
	router.NoRoute(appMiddleware.NotFound(deps.Views))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	appRoutes.SetupSystemRoutes(router, deps.FileStorage.PublicFS(), healthHandler(deps.Database), metrics.Handler())

	return router
}

// BuildHandler wraps the router with CSRF protection, body limits and security headers.
// Body limits run outside CSRF, which reads the form before the router sees it.
func BuildHandler(cfg *config.Config, router http.Handler, lgr zerolog.Logger) (http.Handler, error) {
	key, err := csrfKey(cfg.Server.CSRFKey)
	if err != nil {
		return nil, err
	}
	if cfg.Server.CSRFKey == "" {
		lgr.Warn().Msg("No CSRF key configured, using a random key; forms break across restarts")
	}

	origins := cfg.Server.TrustedOrigins
	if len(origins) == 0 {
		origins = []string{strings.TrimPrefix(strings.TrimPrefix(cfg.ExternalURL(), "https://"), "http://")}
	}

	// Multipart bodies may exceed the validated file size so oversized files get a form error
	uploadLimit := 2*cfg.MaxUploadBytes() + 1<<20

	return appMiddleware.Chain(router,
		appMiddleware.CSRF(key, cfg.Server.SecureCookies, origins),
		appMiddleware.BodyLimit(formBodyLimit, uploadLimit),
		appMiddleware.SecurityHeaders,
	), nil
}

func csrfKey(configured string) ([]byte, error) {
	if configured != "" {
		return hex.DecodeString(configured)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate csrf key: %w", err)
	}
	return key, nil
}

func healthHandler(database *db.PostgresDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
