package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cuptime/webinar-landing/pkg/models"
)

// emailPattern requires a non-whitespace local part, "@" and a dotted domain
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// messages holds the visitor-facing message for each field and failing tag
var messages = map[string]map[string]string{
	models.FieldName: {
		"notblank": "Name is required",
	},
	models.FieldEmail: {
		"notblank":  "Email is required",
		"leademail": "Email is invalid",
	},
	models.FieldPhone: {
		"notblank": "Phone number is required",
	},
	models.FieldExperience: {
		"max": "Business experience must be at most 2000 characters",
	},
	models.FieldExpectations: {
		"max": "Expectations must be at most 2000 characters",
	},
	models.FieldAgreeToTerms: {
		"required": "You must agree to the terms",
	},
}

// Validator checks a registration form against its field rules
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the lead form rules registered
func New() *Validator {
	v := validator.New()
	v.SetTagName("validate")

	// Report errors under the json field names the form uses
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Both registrations only fail on programmer error (empty tag or nil func)
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("leademail", leadEmail)

	return &Validator{validate: v}
}

// Validate returns the errors for every failing field; an empty map means the form is valid
func (v *Validator) Validate(state models.FormState) models.ValidationErrors {
	out := models.ValidationErrors{}

	err := v.validate.Struct(state)
	if err == nil {
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only InvalidValidationError lands here, which a struct value never triggers
		return out
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, exists := out[field]; exists {
			continue
		}
		out[field] = message(field, fe.Tag())
	}
	return out
}

// Valid reports whether the form passes every rule
func (v *Validator) Valid(state models.FormState) bool {
	return len(v.Validate(state)) == 0
}

func message(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return "This field is invalid"
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func leadEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}
