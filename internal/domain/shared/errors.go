// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFutureTimestamp = errors.New("timestamp cannot be in the future")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrExpired         = errors.New("expired")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "learner", "skill", "resource"
	Op      string // Operation that failed, e.g., "Create", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Learner domain errors
var (
	ErrLearnerNotFound      = NewDomainError("learner", "Find", ErrNotFound, "learner not found")
	ErrLearnerAlreadyExists = NewDomainError("learner", "Create", ErrAlreadyExists, "learner already exists")
	ErrInvalidEmail         = NewDomainError("learner", "Validate", ErrInvalidFormat, "invalid email address")
	ErrInvalidCredentials   = NewDomainError("learner", "Authenticate", ErrUnauthorized, "invalid email or password")
)

// Skill domain errors
var (
	ErrSkillNotFound    = NewDomainError("skill", "Find", ErrNotFound, "skill not found")
	ErrProgressNotFound = NewDomainError("skill", "FindProgress", ErrNotFound, "skill progress not found")
	ErrSkillStarted     = NewDomainError("skill", "Start", ErrAlreadyExists, "skill already started")
	ErrInvalidSkillID   = NewDomainError("skill", "Validate", ErrInvalidID, "invalid skill ID")
)

// Resource domain errors
var (
	ErrInvalidResource = NewDomainError("resource", "Validate", ErrInvalidEntity, "resource is missing required fields")
	ErrInvalidMaxCount = NewDomainError("resource", "Select", ErrValueOutOfRange, "max count must be at least 1")
	ErrSupplierTimeout = NewDomainError("resource", "Fetch", ErrTimeout, "resource supplier timed out")
	ErrSupplierFailure = NewDomainError("resource", "Fetch", ErrServiceUnavailable, "resource supplier unavailable")
)

// Quiz domain errors
var (
	ErrAttemptNotFound = NewDomainError("quiz", "Find", ErrNotFound, "quiz attempt not found")
	ErrInvalidAttempt  = NewDomainError("quiz", "Validate", ErrInvalidEntity, "quiz attempt has no questions")
)
