package middleware

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/metrics"
	"github.com/yigit/clubhub/internal/pkg/validation"
)

// BindForm binds the submitted form into obj. Field constraints are checked by
// the form's own Validate method, so only malformed submissions fail here.
func BindForm(c *gin.Context, obj interface{}) error {
	err := c.ShouldBind(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return nil
	}
	if IsBodyTooLarge(err) {
		return err
	}
	return apperrors.NewFieldErrors(validation.Translate(err))
}

// FormFile returns the uploaded file for field, or nil when none was sent
func FormFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return file, nil
}

// BodyLimit caps request bodies before anything reads them. Multipart bodies get
// multipartLimit, every other body gets formLimit. A declared length over the cap
// is refused with 413 without reading the body.
func BodyLimit(formLimit, multipartLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			limit := formLimit
			if strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
				limit = multipartLimit
			}
			if r.ContentLength > limit {
				metrics.RejectedUploads.Inc()
				w.Header().Set("Connection", "close")
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// IsBodyTooLarge reports whether err was caused by BodyLimit
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
