package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/futig/cbam-wizard/internal/entity"
)

// Validator checks request DTOs against their validate tags
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates req. Missing required fields wrap entity.ErrMissingField,
// every other violation wraps entity.ErrInvalidFormat.
func (v *Validator) Struct(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", entity.ErrInvalidParameter, err)
	}

	fe := verrs[0]
	if fe.Tag() == "required" {
		return fmt.Errorf("%w: %s", entity.ErrMissingField, fe.Field())
	}
	return fmt.Errorf("%w: %s failed %s", entity.ErrInvalidFormat, fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// ValidateFormat checks a report format query value
func (v *Validator) ValidateFormat(raw string) (entity.ResultFormat, error) {
	if raw == "" {
		return entity.FormatMarkdown, nil
	}
	format := entity.ResultFormat(strings.ToLower(raw))
	if !format.IsValid() {
		return "", fmt.Errorf("%w: format %q", entity.ErrInvalidParameter, raw)
	}
	return format, nil
}
