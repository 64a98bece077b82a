package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/abeleng/shemeta/internal/domain"
)

// Validator checks request structs against their validate tags
type Validator struct {
	validate *validator.Validate
}

var (
	validatorOnce sync.Once
	validate      *Validator
)

// enumTags maps a tag to the domain parser it accepts. Empty values pass;
// presence is the job of the required tag.
var enumTags = map[string]func(string) bool{
	"region":             parses(domain.ParseRegion),
	"requirement_region": parses(domain.ParseRequirementRegion),
	"crop":               parses(domain.ParseCrop),
	"soil":               parses(domain.ParseSoil),
	"decision":           parses(domain.ParseDecision),
	"role": func(s string) bool {
		role, ok := domain.ParseRole(s)
		return ok && role != domain.RoleAdmin
	},
}

// tagMessages are the client-facing texts for failed tags
var tagMessages = map[string]string{
	"required":           "This field is required",
	"region":             "Unknown region",
	"requirement_region": "Unknown region",
	"crop":               "Unknown crop",
	"soil":               "Unknown soil type",
	"role":               "Role must be farmer or buyer",
	"decision":           ErrMsgInvalidDecision,
	"singleline":         "Contains invalid characters",
	"datetime":           "Must be a YYYY-MM-DD date",
}

func parses[T any](parse func(string) (T, bool)) func(string) bool {
	return func(s string) bool {
		_, ok := parse(s)
		return ok
	}
}

// InitValidator builds the shared validator. Field errors are keyed by the
// JSON name of the field.
func InitValidator() {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)

		for tag, accepts := range enumTags {
			_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				s := fl.Field().String()
				return s == "" || accepts(s)
			})
		}
		_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
			return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
		})

		validate = &Validator{validate: v}
	})
}

// GetValidator returns the shared validator, building it on first use
func GetValidator() *Validator {
	InitValidator()
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(f.Name)
	}
	return name
}

// FormatValidationError turns validator errors into a field to message map.
// Anything else collapses to a single generic entry.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"error": "Invalid request format"}
	}

	errs := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errs[e.Field()] = fieldMessage(e)
	}
	return errs
}

func fieldMessage(e validator.FieldError) string {
	if msg, ok := tagMessages[e.Tag()]; ok {
		return msg
	}
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", e.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", e.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", e.Param())
	}
	return "Invalid value"
}
