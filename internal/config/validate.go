package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/roomstats/internal/model"
)

// MissingError reports required settings that were not provided by any
// flag, environment variable or config file.
type MissingError struct {
	Fields []string
}

func (e *MissingError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = "--" + f
	}
	return "missing required configuration: " + strings.Join(names, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("flag")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks a resolved run configuration. Absent required settings are
// reported together as a *MissingError.
func Validate(cfg model.RunConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}
	var missing MissingError
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing.Fields = append(missing.Fields, fe.Field())
			continue
		}
		return fmt.Errorf("invalid value %q for --%s", fmt.Sprint(fe.Value()), fe.Field())
	}
	return &missing
}
