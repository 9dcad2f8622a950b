package validator

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	ierr "github.com/taktakmenu/platform/internal/errors"
)

var (
	validate *validator.Validate
	once     sync.Once

	subdomainPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// NewValidator returns the shared validator with the custom tags registered
func NewValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
			return IsValidSubdomain(fl.Field().String())
		})
	})
	return validate
}

func GetValidator() *validator.Validate {
	return NewValidator()
}

// IsValidSubdomain reports whether s is made of lower case letters, digits and hyphens only
func IsValidSubdomain(s string) bool {
	return subdomainPattern.MatchString(s)
}

func ValidateRequest(req interface{}) error {
	if err := GetValidator().Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
