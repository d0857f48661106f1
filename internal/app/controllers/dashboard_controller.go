package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardController serves the admin dashboard
type DashboardController struct {
	dashboardService *services.DashboardService
	views            *views.Renderer
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService, views *views.Renderer) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		views:            views,
	}
}

// Dashboard shows units, resources and events
// GET /admin-dashboard/
func (c *DashboardController) Dashboard(ctx *gin.Context) {
	board, err := c.dashboardService.Overview(ctx.Request.Context(), appAuth.PrincipalFrom(ctx))
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "dashboard.html", gin.H{
		"Title": "Admin Dashboard",
		"Board": board,
	})
}

// Export downloads the dashboard as a spreadsheet
// GET /admin-dashboard/export.xlsx
func (c *DashboardController) Export(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := c.dashboardService.Export(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), &buf); err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="`+services.ExportFilename(time.Now())+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
