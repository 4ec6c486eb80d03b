package validation

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	apperrors "github.com/vitalpoint/backend/pkg/errors"
)

// Schema wraps a compiled JSON schema for request body validation
type Schema struct {
	compiled *jsonschema.Schema
}

// MustCompile compiles a JSON schema document, panicking on error.
// Schemas are package-level constants compiled at startup.
func MustCompile(name, document string) *Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(document)); err != nil {
		panic(fmt.Sprintf("failed to add schema %s: %v", name, err))
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile schema %s: %v", name, err))
	}
	return &Schema{compiled: compiled}
}

// Validate checks a decoded JSON value against the schema and returns
// a validation AppError carrying field-level details on failure.
func (s *Schema) Validate(value interface{}) error {
	err := s.compiled.Validate(value)
	if err == nil {
		return nil
	}

	var details []string
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		details = collectCauses(verr)
	} else {
		details = []string{err.Error()}
	}

	return apperrors.NewValidationErrorWithDetails("request body is invalid", details)
}

func collectCauses(err *jsonschema.ValidationError) []string {
	if len(err.Causes) == 0 {
		location := strings.TrimPrefix(err.InstanceLocation, "/")
		if location == "" {
			return []string{err.Message}
		}
		return []string{fmt.Sprintf("%s: %s", strings.ReplaceAll(location, "/", "."), err.Message)}
	}

	var details []string
	for _, cause := range err.Causes {
		details = append(details, collectCauses(cause)...)
	}
	return details
}
