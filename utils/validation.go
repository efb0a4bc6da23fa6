package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9()\-\s]{8,20}$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the custom rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		// Report JSON names so callers can map errors onto form fields.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// ValidateStruct checks s against its `validate` tags and returns a
// ValidationError naming every offending field.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return NewValidationError(
		fmt.Sprintf("invalid or missing fields: %s", strings.Join(fields, ", ")),
		fields...,
	)
}

// IsValidPhone applies the same rule as the `phone` tag.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
