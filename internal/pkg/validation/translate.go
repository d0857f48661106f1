package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key used for errors that belong to the whole form
const NonFieldErrors = "__all__"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := RegisterRules(v); err != nil {
		panic(fmt.Sprintf("validation: register rules: %v", err))
	}
	return v
}

// Struct validates obj against its binding tags and returns messages keyed by
// form field, or nil when obj is valid
func Struct(obj interface{}) map[string]string {
	return Translate(validate.Struct(obj))
}

// Translate converts validator errors into messages keyed by form field
func Translate(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{NonFieldErrors: "Invalid form submission."}
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		if _, seen := fields[e.Field()]; seen {
			continue
		}
		fields[e.Field()] = formatValidationError(e)
	}
	return fields
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Ensure this value has at most " + e.Param() + " characters."
	case "email":
		return "Enter a valid email address."
	case TagResourceType, TagYearOfStudy, "oneof", "gt":
		return "Select a valid choice."
	default:
		return "Enter a valid value."
	}
}
