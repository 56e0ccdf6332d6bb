package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the isodate tag registered
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("isodate", isoDate)
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// Var validates a single value against tag
func (cv *CustomValidator) Var(field interface{}, tag string) error {
	return cv.v.Var(field, tag)
}

// isoDate accepts YYYY-MM-DD calendar dates. An empty value clears a date.
func isoDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
