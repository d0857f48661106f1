// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/metrics"
)

// parseIDParam reads a positive numeric path parameter. Anything else is treated as not found.
func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrNotFound
	}
	return id, nil
}

// renderForm re-renders page with the field errors of err and status 400.
// It reports false when err is not a validation error.
func renderForm(ctx *gin.Context, v *views.Renderer, page string, data gin.H, err error) bool {
	fields := apperrors.FieldErrors(err)
	if fields == nil {
		return false
	}
	data["Errors"] = fields
	v.HTML(ctx, http.StatusBadRequest, page, data)
	return true
}

// bindUpload binds a multipart form. A body over the request limit becomes a
// field error on fileField.
func bindUpload(ctx *gin.Context, form interface{}, fileField string, maxBytes int64) error {
	if err := middleware.BindForm(ctx, form); err != nil {
		if middleware.IsBodyTooLarge(err) {
			metrics.RejectedUploads.Inc()
			return apperrors.NewValidationError(fileField, dto.FileTooLargeMessage(maxBytes))
		}
		return err
	}
	return nil
}

func redirect(ctx *gin.Context, path string) {
	ctx.Redirect(http.StatusSeeOther, path)
}
