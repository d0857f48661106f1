package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/middleware"
)

// UnitController handles unit CRUD pages
type UnitController struct {
	unitService *services.UnitService
	yearService *services.AcademicYearService
	views       *views.Renderer
}

// NewUnitController creates a new UnitController
func NewUnitController(unitService *services.UnitService, yearService *services.AcademicYearService, views *views.Renderer) *UnitController {
	return &UnitController{
		unitService: unitService,
		yearService: yearService,
		views:       views,
	}
}

func (c *UnitController) formData(ctx *gin.Context, title string, form *dto.UnitForm) (gin.H, error) {
	years, err := c.yearService.List(ctx.Request.Context())
	if err != nil {
		return nil, err
	}
	return gin.H{"Title": title, "Form": form, "Years": years}, nil
}

func (c *UnitController) showForm(ctx *gin.Context, title string, form *dto.UnitForm) {
	data, err := c.formData(ctx, title, form)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "unit_form.html", data)
}

func (c *UnitController) submitFailed(ctx *gin.Context, title string, form *dto.UnitForm, err error) {
	data, dataErr := c.formData(ctx, title, form)
	if dataErr != nil {
		middleware.HandleError(ctx, c.views, dataErr)
		return
	}
	if !renderForm(ctx, c.views, "unit_form.html", data, err) {
		middleware.HandleError(ctx, c.views, err)
	}
}

// New shows an empty unit form
// GET /unit/add/
func (c *UnitController) New(ctx *gin.Context) {
	c.showForm(ctx, "Add Unit", &dto.UnitForm{})
}

// Create adds a unit
// POST /unit/add/
func (c *UnitController) Create(ctx *gin.Context) {
	form := &dto.UnitForm{}
	if err := middleware.BindForm(ctx, form); err != nil {
		c.submitFailed(ctx, "Add Unit", form, err)
		return
	}
	if _, err := c.unitService.Create(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), form); err != nil {
		c.submitFailed(ctx, "Add Unit", form, err)
		return
	}
	redirect(ctx, appAuth.AdminLandingPath)
}

// Edit shows the form of an existing unit
// GET /unit/:id/edit/
func (c *UnitController) Edit(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	unit, err := c.unitService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	form := &dto.UnitForm{}
	form.FromUnit(unit)
	c.showForm(ctx, "Edit Unit", form)
}

// Update saves changes to a unit
// POST /unit/:id/edit/
func (c *UnitController) Update(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	form := &dto.UnitForm{}
	if err := middleware.BindForm(ctx, form); err != nil {
		c.submitFailed(ctx, "Edit Unit", form, err)
		return
	}
	if _, err := c.unitService.Update(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), id, form); err != nil {
		c.submitFailed(ctx, "Edit Unit", form, err)
		return
	}
	redirect(ctx, appAuth.AdminLandingPath)
}

// ConfirmDelete asks before deleting a unit
// GET /unit/:id/delete/
func (c *UnitController) ConfirmDelete(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	unit, err := c.unitService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "confirm_delete.html", gin.H{
		"Title":   "Delete Unit",
		"Kind":    "unit",
		"Name":    unit.Title,
		"Warning": "Resources of this unit are kept without a unit.",
		"Cancel":  appAuth.AdminLandingPath,
	})
}

// Delete removes a unit
// POST /unit/:id/delete/
func (c *UnitController) Delete(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	if err := c.unitService.Delete(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), id); err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	redirect(ctx, appAuth.AdminLandingPath)
}
