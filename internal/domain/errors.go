package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling at the
// boundary layer without the handlers knowing concrete error types.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found. A record owned by a
	// different user produces the same error so existence never leaks
	// across tenants.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid caller input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// Is implementations so errors.Is() matches the sentinels
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// GenerationErrorKind classifies why a model reply could not be turned into
// a content record.
type GenerationErrorKind string

const (
	// GenerationMalformed means no parseable JSON object was found in the reply
	GenerationMalformed GenerationErrorKind = "malformed_response"
	// GenerationIncomplete means the JSON object was missing required keys
	GenerationIncomplete GenerationErrorKind = "incomplete_response"
	// GenerationInvalidField means a required key had the wrong type or was empty
	GenerationInvalidField GenerationErrorKind = "invalid_field_type"
)

// GenerationError is returned when a model reply fails normalization.
// ModelID attributes the failure to the model that produced the reply.
// Detail may contain an excerpt of the raw reply and must never be echoed
// to callers outside of the dev environment.
type GenerationError struct {
	Kind    GenerationErrorKind
	ModelID string
	Missing []string // populated for GenerationIncomplete
	Field   string   // populated for GenerationInvalidField
	Detail  string
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case GenerationIncomplete:
		return fmt.Sprintf("model %s reply missing required fields: %s", e.ModelID, strings.Join(e.Missing, ", "))
	case GenerationInvalidField:
		return fmt.Sprintf("model %s reply has invalid field %q", e.ModelID, e.Field)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("model %s reply is not valid JSON: %s", e.ModelID, e.Detail)
		}
		return fmt.Sprintf("model %s reply is not valid JSON", e.ModelID)
	}
}

// StatusCode implements HTTPError. Normalization failures are upstream
// faults, not caller faults.
func (e *GenerationError) StatusCode() int { return http.StatusBadGateway }
