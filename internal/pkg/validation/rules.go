package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/clubhub/internal/app/models"
)

// Custom tags understood by form structs
const (
	TagResourceType = "resourcetype"
	TagYearOfStudy  = "yearofstudy"
)

// RegisterRules installs the custom tags on v and reports field names by
// their form key so that errors map straight back onto form inputs
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation(TagResourceType, func(fl validator.FieldLevel) bool {
		return models.ResourceType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}

	return v.RegisterValidation(TagYearOfStudy, func(fl validator.FieldLevel) bool {
		return models.ValidYear(int(fl.Field().Int()))
	})
}

var (
	ginOnce sync.Once
	ginErr  error
)

// RegisterWithGin installs the rules on gin's default binding validator once
func RegisterWithGin() error {
	ginOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			ginErr = RegisterRules(v)
		}
	})
	return ginErr
}
