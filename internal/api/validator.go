package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	app_errors "roadmate/backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

// This file provides a single, lazily built validator for API request bodies.
// validator.Validate caches struct metadata on first use, so one instance is
// shared by every handler instead of building a new one per request.

var (
	// validate is the shared instance; only getInstance touches it.
	validate *validator.Validate
	// once guards the construction of validate.
	once sync.Once
)

// getInstance uses sync.Once to build the validator on first use and return it.
// Field errors are reported under their JSON names (taken from the `json` tag),
// so clients see the keys they actually sent, e.g. "message" not "Message".
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// validateRequest checks a request DTO against the rules in its field tags
// (e.g. `validate:"required,email"`). On failure it returns an error wrapping
// app_errors.ErrValidation, which respondWithError maps to 400 with the
// message below.
func validateRequest(payload interface{}) error {
	err := getInstance().Struct(payload)
	if err == nil {
		return nil
	}

	// Anything other than validator.ValidationErrors (e.g. InvalidValidationError
	// for a nil or non-struct payload) is a programming error, but it is still
	// reported as a validation failure rather than a 500.
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: an unexpected error occurred during validation: %s", app_errors.ErrValidation, err.Error())
	}

	// One entry per failed field, e.g. "Field 'message' failed on the 'required' tag".
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag()))
	}
	// The joined message is safe to show to the client as is.
	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(messages, "; "))
}
