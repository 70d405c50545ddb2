// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"sort"
	"strings"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps every field problem found in one payload.
type ValidationError struct {
	Detail string              `json:"detail"`
	Fields map[string][]string `json:"fields"`
}

func NewValidation(fields FieldErrors) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// FieldErrors collects validation messages per wire field. Services fill it
// while checking a payload and return it as an error once every rule ran.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Any reports whether at least one message was recorded.
func (fe FieldErrors) Any() bool { return len(fe) > 0 }

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], " "))
	}
	return strings.Join(parts, "; ")
}

// Field builds a FieldErrors holding a single message.
func Field(field, msg string) FieldErrors {
	return FieldErrors{field: {msg}}
}
