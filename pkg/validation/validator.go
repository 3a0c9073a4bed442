package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses form tag names in errors, so messages key on the input name.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=6") // password minimum length
	}
}

// ToFieldErrors converts binding errors into a map[field]message suitable
// for re-rendering a form with inline messages.
func ToFieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = messageFor(fe)
		}
		return out
	}

	// Fallback for malformed submissions
	return map[string]string{"form": "Invalid form submission."}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min", "pwd":
		return "Field must be at least " + minParam(fe) + " characters long."
	case "max":
		return "Field must be at most " + fe.Param() + " characters long."
	case "eqfield":
		return "Field must be equal to password."
	default:
		return "Invalid value."
	}
}

func minParam(fe validator.FieldError) string {
	if fe.Tag() == "pwd" {
		return "6"
	}
	return fe.Param()
}
