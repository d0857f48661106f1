package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/middleware"
)

// HomeController serves the public event pages
type HomeController struct {
	eventService *services.EventService
	views        *views.Renderer
}

// NewHomeController creates a new HomeController
func NewHomeController(eventService *services.EventService, views *views.Renderer) *HomeController {
	return &HomeController{
		eventService: eventService,
		views:        views,
	}
}

// Home lists upcoming and past events
// GET /
func (c *HomeController) Home(ctx *gin.Context) {
	partition, err := c.eventService.Partition(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "home.html", gin.H{
		"Title":  "Events",
		"Events": partition,
	})
}

// Calendar serves every event as an iCalendar feed
// GET /events.ics
func (c *HomeController) Calendar(ctx *gin.Context) {
	feed, err := c.eventService.Calendar(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	ctx.Header("Content-Disposition", `inline; filename="events.ics"`)
	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
