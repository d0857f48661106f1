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

// ResourceController handles resource CRUD and the resource catalog
type ResourceController struct {
	resourceService *services.ResourceService
	unitService     *services.UnitService
	views           *views.Renderer
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService *services.ResourceService, unitService *services.UnitService, views *views.Renderer) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
		unitService:     unitService,
		views:           views,
	}
}

func (c *ResourceController) formData(ctx *gin.Context, title string, form *dto.ResourceForm, res *models.Resource) (gin.H, error) {
	units, err := c.unitService.List(ctx.Request.Context())
	if err != nil {
		return nil, err
	}
	return gin.H{"Title": title, "Form": form, "Units": units, "Resource": res}, nil
}

func (c *ResourceController) showForm(ctx *gin.Context, title string, form *dto.ResourceForm, res *models.Resource) {
	data, err := c.formData(ctx, title, form, res)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "resource_form.html", data)
}

func (c *ResourceController) submitFailed(ctx *gin.Context, title string, form *dto.ResourceForm, res *models.Resource, err error) {
	data, dataErr := c.formData(ctx, title, form, res)
	if dataErr != nil {
		middleware.HandleError(ctx, c.views, dataErr)
		return
	}
	if !renderForm(ctx, c.views, "resource_form.html", data, err) {
		middleware.HandleError(ctx, c.views, err)
	}
}

// New shows an empty resource form
// GET /resource/add/
func (c *ResourceController) New(ctx *gin.Context) {
	form := &dto.ResourceForm{ResourceType: string(models.ResourceTypeNotes)}
	if unit := ctx.Query("unit"); unit != "" {
		form.Unit = unit
	}
	c.showForm(ctx, "Add Resource", form, nil)
}

// Create uploads a resource
// POST /resource/add/
func (c *ResourceController) Create(ctx *gin.Context) {
	form := &dto.ResourceForm{}
	if err := bindUpload(ctx, form, "file", c.resourceService.MaxUploadBytes()); err != nil {
		c.submitFailed(ctx, "Add Resource", form, nil, err)
		return
	}
	file, err := middleware.FormFile(ctx, "file")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	if _, err := c.resourceService.Create(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), form, file); err != nil {
		c.submitFailed(ctx, "Add Resource", form, nil, err)
		return
	}
	redirect(ctx, appAuth.AdminLandingPath)
}

// Edit shows the form of an existing resource
// GET /resource/:id/edit/
func (c *ResourceController) Edit(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	res, err := c.resourceService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	form := &dto.ResourceForm{}
	form.FromResource(res)
	c.showForm(ctx, "Edit Resource", form, res)
}

// Update saves changes to a resource, replacing the file when a new one is sent
// POST /resource/:id/edit/
func (c *ResourceController) Update(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	res, err := c.resourceService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}

	form := &dto.ResourceForm{}
	if err := bindUpload(ctx, form, "file", c.resourceService.MaxUploadBytes()); err != nil {
		c.submitFailed(ctx, "Edit Resource", form, res, err)
		return
	}
	file, err := middleware.FormFile(ctx, "file")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	if _, err := c.resourceService.Update(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), id, form, file); err != nil {
		c.submitFailed(ctx, "Edit Resource", form, res, err)
		return
	}
	redirect(ctx, appAuth.AdminLandingPath)
}

// ConfirmDelete asks before deleting a resource
// GET /resource/:id/delete/
func (c *ResourceController) ConfirmDelete(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	res, err := c.resourceService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.views.HTML(ctx, http.StatusOK, "confirm_delete.html", gin.H{
		"Title":  "Delete Resource",
		"Kind":   "resource",
		"Name":   res.Title,
		"Cancel": appAuth.AdminLandingPath,
	})
}

// Delete removes a resource and its file
// POST /resource/:id/delete/
func (c *ResourceController) Delete(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	if err := c.resourceService.Delete(ctx.Request.Context(), appAuth.PrincipalFrom(ctx), id); err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	redirect(ctx, appAuth.AdminLandingPath)
}

func (c *ResourceController) renderList(ctx *gin.Context, title string, resources []*models.Resource, unit *models.Unit) {
	c.views.HTML(ctx, http.StatusOK, "resources.html", gin.H{
		"Title":     title,
		"Resources": resources,
		"Unit":      unit,
	})
}

// StudyResources lists every resource except past papers
// GET /study-resources/
func (c *ResourceController) StudyResources(ctx *gin.Context) {
	resources, err := c.resourceService.StudyResources(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.renderList(ctx, "Study Resources", resources, nil)
}

// PastPapers lists past paper resources
// GET /past-papers/
func (c *ResourceController) PastPapers(ctx *gin.Context) {
	papers, err := c.resourceService.PastPapers(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.renderList(ctx, models.ResourceTypePapers.Label(), papers, nil)
}

// Categories lists the resource categories
// GET /resources/
func (c *ResourceController) Categories(ctx *gin.Context) {
	c.views.HTML(ctx, http.StatusOK, "resource_categories.html", gin.H{"Title": "Resources"})
}

// ByCategory lists the resources of one category, optionally for one unit
// GET /resources/:category/
func (c *ResourceController) ByCategory(ctx *gin.Context) {
	listing, err := c.resourceService.ByCategory(ctx.Request.Context(), ctx.Param("category"), ctx.Query("unit"))
	if err != nil {
		middleware.HandleError(ctx, c.views, err)
		return
	}
	c.renderList(ctx, listing.Type.Label(), listing.Resources, listing.Unit)
}
