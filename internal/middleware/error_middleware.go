package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
	"github.com/yigit/clubhub/internal/pkg/observability"
)

// HandleError maps err to a redirect or an error page
func HandleError(c *gin.Context, v *views.Renderer, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthenticated, apperrors.ErrSessionExpired, apperrors.ErrSessionRevoked):
		RedirectToLogin(c)
	case apperrors.Is(err, apperrors.ErrNotFound):
		v.Error(c, http.StatusNotFound, "The requested page could not be found.")
	case apperrors.Is(err, apperrors.ErrPermissionDenied):
		v.Error(c, http.StatusForbidden, "You don't have permission to access this page.")
	case apperrors.Is(err, apperrors.ErrValidationFailed):
		v.Error(c, http.StatusBadRequest, err.Error())
	default:
		principal := appAuth.PrincipalFrom(c)
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int64("userID", principal.UserID()).
			Msg("Unhandled request error")
		observability.CaptureRequestErr(err, c.Request.Method, c.FullPath(), principal.UserID())
		v.Error(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
	}
}

// NotFound renders the 404 page for unmatched routes
func NotFound(v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		v.Error(c, http.StatusNotFound, "The requested page could not be found.")
	}
}
