package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/middleware"
)

// EventController handles event CRUD pages
type EventController struct {
	eventService   *services.EventService
	maxUploadBytes int64
	views          *views.Renderer
}

// NewEventController creates a new EventController
func NewEventController(eventService *services.EventService, maxUploadBytes int64, views *views.Renderer) *EventController {
	return &EventController{
		eventService:   eventService,
		maxUploadBytes: maxUploadBytes,
		views:          views,
	}
}

func (c *EventController) submitFailed(ctx *gin.Context, title string, form *dto.EventForm, event *models.Event, err error) {
	data := gin.H{"Title": title, "Form": form, "Event": event}
	if !renderForm(ctx, c.views, "event_form.html", data, err) {
		middleware.HandleError(ctx, c.views, err)
	}
}

// New shows an empty event form
// GET /event/add/
func (c *EventController) New(ctx *gin.Context) {
	c.views.HTML(ctx, http.StatusOK, "event_form.html", gin.H{
		"Title": "Add Event",
		"Form":  &dto.EventForm{},
		"Event": (*models.Event)(nil),
	})
}

// Create adds an event
// POST /event/add/
func (c *EventController) Create(ctx *gin.Context) {
	form := &dto.EventForm{}
	if err := bindUpload(ctx, form, "poster", c.maxUploadBytes); err != nil {
		c.submitFailed(ctx, "Add Event", form, nil, err)
		return
	}
	poster, err := middleware.FormFile(ctx, "poster")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	if _, err := c.eventService.Create(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), form, poster); err != nil {
		c.submitFailed(ctx, "Add Event", form, nil, err)
		return
	}
	redirect(ctx, appAuth.AdminLandingPath)
}

// Edit shows the form of an existing event
// GET /event/:id/edit/
func (c *EventController) Edit(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	event, err := c.eventService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	form := &dto.EventForm{}
	form.FromEvent(event, c.eventService.Location())
	c.views.HTML(ctx, http.StatusOK, "event_form.html", gin.H{
		"Title": "Edit Event",
		"Form":  form,
		"Event": event,
	})
}

// Update saves changes to an event
// POST /event/:id/edit/
func (c *EventController) Update(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	event, err := c.eventService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}

	form := &dto.EventForm{}
	if err := bindUpload(ctx, form, "poster", c.maxUploadBytes); err != nil {
		c.submitFailed(ctx, "Edit Event", form, event, err)
		return
	}
	poster, err := middleware.FormFile(ctx, "poster")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	if _, err := c.eventService.Update(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), id, form, poster); err != nil {
		c.submitFailed(ctx, "Edit Event", form, event, err)
		return
	}
	redirect(ctx, appAuth.AdminLandingPath)
}

// ConfirmDelete asks before deleting an event
// GET /event/:id/delete/
func (c *EventController) ConfirmDelete(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	event, err := c.eventService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "confirm_delete.html", gin.H{
		"Title":  "Delete Event",
		"Kind":   "event",
		"Name":   event.Title,
		"Cancel": appAuth.AdminLandingPath,
	})
}

// Delete removes an event and its poster
// POST /event/:id/delete/
func (c *EventController) Delete(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	if err := c.eventService.Delete(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), id); err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	redirect(ctx, appAuth.AdminLandingPath)
}
