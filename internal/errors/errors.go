package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrParse        = errors.New("unparsable input")
	ErrEnvironment  = errors.New("environment unavailable")
	ErrNotConfirmed = errors.New("not confirmed")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "card", "config"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ParseError indicates import or stored input that could not be parsed.
// Source names where the input came from ("json import", "text import", "storage").
type ParseError struct {
	Source  string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Source, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

// EnvironmentError indicates something outside erflow failed: clipboard
// access denied, storage backend unreachable.
type EnvironmentError struct {
	Resource string
	Err      error
}

func (e *EnvironmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("%s unavailable", e.Resource)
}

func (e *EnvironmentError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrEnvironment, e.Err}
	}
	return []error{ErrEnvironment}
}

// Helper constructors for common cases

func CardNotFound(ref string) error {
	return &NotFoundError{Resource: "card", ID: ref}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Parse(source, message string, err error) error {
	return &ParseError{Source: source, Message: message, Err: err}
}

func Environment(resource string, err error) error {
	return &EnvironmentError{Resource: resource, Err: err}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsParseError checks if an error is a parse error.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsEnvironmentError checks if an error is an environment error.
func IsEnvironmentError(err error) bool {
	return errors.Is(err, ErrEnvironment)
}
