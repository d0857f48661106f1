package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/controllers"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/filestorage"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Home         *controllers.HomeController
	Auth         *controllers.AuthController
	Dashboard    *controllers.DashboardController
	Unit         *controllers.UnitController
	Resource     *controllers.ResourceController
	Event        *controllers.EventController
	AcademicYear *controllers.AcademicYearController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	// --- Public routes ---
	router.GET("/", ctrl.Home.Home)
	router.GET("/events.ics", ctrl.Home.Calendar)

	router.GET("/register/", ctrl.Auth.RegisterPage)
	router.POST("/register/", ctrl.Auth.Register)
	router.GET("/login/", ctrl.Auth.LoginPage)
	router.POST("/login/", ctrl.Auth.Login)
	router.POST("/logout/", ctrl.Auth.Logout)

	// --- Authenticated catalog routes ---
	catalog := router.Group("")
	catalog.Use(authMiddleware.LoginRequired())
	{
		catalog.GET("/academic-years/", ctrl.AcademicYear.List)
		catalog.GET("/academic-years/:id/", ctrl.AcademicYear.Units)

		catalog.GET("/resources/", ctrl.Resource.Categories)
		catalog.GET("/resources/:category/", ctrl.Resource.ByCategory)
		catalog.GET("/study-resources/", ctrl.Resource.StudyResources)
		catalog.GET("/past-papers/", ctrl.Resource.PastPapers)
	}

	// --- Admin routes ---
	admin := router.Group("")
	admin.Use(authMiddleware.AdminRequired())
	{
		admin.GET("/admin-dashboard/", ctrl.Dashboard.Dashboard)
		admin.GET("/admin-dashboard/export.xlsx", ctrl.Dashboard.Export)

		admin.GET("/academic-years/add/", ctrl.AcademicYear.New)
		admin.POST("/academic-years/add/", ctrl.AcademicYear.Create)
		admin.GET("/academic-years/:id/edit/", ctrl.AcademicYear.Edit)
		admin.POST("/academic-years/:id/edit/", ctrl.AcademicYear.Update)
		admin.GET("/academic-years/:id/delete/", ctrl.AcademicYear.ConfirmDelete)
		admin.POST("/academic-years/:id/delete/", ctrl.AcademicYear.Delete)

		admin.GET("/unit/add/", ctrl.Unit.New)
		admin.POST("/unit/add/", ctrl.Unit.Create)
		admin.GET("/unit/:id/edit/", ctrl.Unit.Edit)
		admin.POST("/unit/:id/edit/", ctrl.Unit.Update)
		admin.GET("/unit/:id/delete/", ctrl.Unit.ConfirmDelete)
		admin.POST("/unit/:id/delete/", ctrl.Unit.Delete)

		admin.GET("/resource/add/", ctrl.Resource.New)
		admin.POST("/resource/add/", ctrl.Resource.Create)
		admin.GET("/resource/:id/edit/", ctrl.Resource.Edit)
		admin.POST("/resource/:id/edit/", ctrl.Resource.Update)
		admin.GET("/resource/:id/delete/", ctrl.Resource.ConfirmDelete)
		admin.POST("/resource/:id/delete/", ctrl.Resource.Delete)

		admin.GET("/event/add/", ctrl.Event.New)
		admin.POST("/event/add/", ctrl.Event.Create)
		admin.GET("/event/:id/edit/", ctrl.Event.Edit)
		admin.POST("/event/:id/edit/", ctrl.Event.Update)
		admin.GET("/event/:id/delete/", ctrl.Event.ConfirmDelete)
		admin.POST("/event/:id/delete/", ctrl.Event.Delete)
	}
}

// SetupSystemRoutes mounts stored files, health checks and metrics
func SetupSystemRoutes(router *gin.Engine, uploads http.FileSystem, health gin.HandlerFunc, metrics http.Handler) {
	files := router.Group("/uploads", middleware.Attachments(filestorage.NamespaceEventPosters))
	files.StaticFS("/", uploads)
	router.GET("/health", health)
	router.GET("/metrics", gin.WrapH(metrics))
}
