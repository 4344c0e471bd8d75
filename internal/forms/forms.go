// Package forms validates the login and registration forms before anything
// is sent upstream.
package forms

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"pasale-dashboard/internal/models"
)

// FieldErrors maps a JSON field name to its message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

var messages = map[string]map[string]string{
	"email": {
		"required": "Please enter a valid email address",
		"email":    "Please enter a valid email address",
	},
	"password": {
		"required":  "Password is required",
		"min":       "Password must be at least 6 characters",
		"mixedcase": "Password must contain at least one uppercase letter, one lowercase letter, and one number",
	},
	"name": {
		"min": "Name must be at least 2 characters",
		"max": "Name must be less than 100 characters",
	},
	"citizenship_no": {
		"min": "Citizenship number must be at least 10 characters",
		"max": "Citizenship number must be less than 20 characters",
	},
	"contact_no": {
		"len":     "Contact must be exactly 10 digits",
		"numeric": "Contact must contain only numbers",
	},
	"confirm_password": {
		"eqfield": "Passwords don't match",
	},
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration cannot fail: the tag is non-empty and fn is non-nil.
	_ = v.RegisterValidation("mixedcase", mixedCase)
	return &Validator{v: v}
}

// mixedCase requires a lowercase letter, an uppercase letter and a digit.
func mixedCase(fl validator.FieldLevel) bool {
	var lower, upper, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func (v *Validator) Login(in models.LoginRequest) error {
	return v.check(in)
}

func (v *Validator) Register(in models.RegisterRequest) error {
	return v.check(in)
}

// check returns FieldErrors, keeping the first failure per field.
func (v *Validator) check(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[field] = msg
	}
	return out
}
