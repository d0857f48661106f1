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

const academicYearsPath = "/academic-years/"

// AcademicYearController handles the year catalog and year CRUD
type AcademicYearController struct {
	yearService *services.AcademicYearService
	views       *views.Renderer
}

// NewAcademicYearController creates a new AcademicYearController
func NewAcademicYearController(yearService *services.AcademicYearService, views *views.Renderer) *AcademicYearController {
	return &AcademicYearController{
		yearService: yearService,
		views:       views,
	}
}

func yearChoices() []int {
	choices := make([]int, 0, models.MaxYearOfStudy)
	for y := models.MinYearOfStudy; y <= models.MaxYearOfStudy; y++ {
		choices = append(choices, y)
	}
	return choices
}

// List shows every academic year
// GET /academic-years/
func (c *AcademicYearController) List(ctx *gin.Context) {
	years, err := c.yearService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "academic_years.html", gin.H{
		"Title": "Academic Years",
		"Years": years,
	})
}

// Units lists the units of one academic year
// GET /academic-years/:id/
func (c *AcademicYearController) Units(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	listing, err := c.yearService.UnitsByYear(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "units_by_year.html", gin.H{
		"Title":   listing.Year.Label(),
		"Listing": listing,
	})
}

// New shows the academic year form
// GET /academic-years/add/
func (c *AcademicYearController) New(ctx *gin.Context) {
	c.views.HTML(ctx, http.StatusOK, "academic_year_form.html", gin.H{
		"Title":   "Add Academic Year",
		"Form":    &dto.AcademicYearForm{},
		"Choices": yearChoices(),
	})
}

// Create adds an academic year
// POST /academic-years/add/
func (c *AcademicYearController) Create(ctx *gin.Context) {
	form := &dto.AcademicYearForm{}
	data := gin.H{"Title": "Add Academic Year", "Form": form, "Choices": yearChoices()}
	if err := middleware.BindForm(ctx, form); err != nil {
		renderForm(ctx, c.views, "academic_year_form.html", data, err)
		return
	}
	if _, err := c.yearService.Create(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), form); err != nil {
		if !renderForm(ctx, c.views, "academic_year_form.html", data, err) {
			middleware.HandleError(ctx, c.views, err)
		}
		return
	}
	redirect(ctx, academicYearsPath)
}

// Edit shows the form for an existing year
// GET /academic-years/:id/edit/
func (c *AcademicYearController) Edit(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	year, err := c.yearService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "academic_year_form.html", gin.H{
		"Title":   "Edit Academic Year",
		"Form":    &dto.AcademicYearForm{Year: year.Year},
		"Choices": yearChoices(),
	})
}

// Update changes a year of study
// POST /academic-years/:id/edit/
func (c *AcademicYearController) Update(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	form := &dto.AcademicYearForm{}
	data := gin.H{"Title": "Edit Academic Year", "Form": form, "Choices": yearChoices()}
	if err := middleware.BindForm(ctx, form); err != nil {
		renderForm(ctx, c.views, "academic_year_form.html", data, err)
		return
	}
	if _, err := c.yearService.Update(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), id, form); err != nil {
		if !renderForm(ctx, c.views, "academic_year_form.html", data, err) {
			middleware.HandleError(ctx, c.views, err)
		}
		return
	}
	redirect(ctx, academicYearsPath)
}

// ConfirmDelete asks before deleting a year
// GET /academic-years/:id/delete/
func (c *AcademicYearController) ConfirmDelete(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	year, err := c.yearService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "confirm_delete.html", gin.H{
		"Title":   "Delete Academic Year",
		"Kind":    "academic year",
		"Name":    year.Label(),
		"Warning": "All units of this year are deleted too.",
		"Cancel":  academicYearsPath,
	})
}

// Delete removes a year and its units
// POST /academic-years/:id/delete/
func (c *AcademicYearController) Delete(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	if err := c.yearService.Delete(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), id); err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	redirect(ctx, academicYearsPath)
}
