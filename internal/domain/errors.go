package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrShapeMismatch     = errors.New("content shape mismatch")
	ErrCapacityExceeded  = errors.New("page capacity exceeded")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPaymentRequired   = errors.New("payment required")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   string
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ShapeMismatchError is returned when content does not match the section's
// declared content kind. Nothing is written.
type ShapeMismatchError struct {
	SectionID string
	Kind      string
	Reason    string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("section %s expects %s content: %s", e.SectionID, e.Kind, e.Reason)
}

func (e *ShapeMismatchError) StatusCode() int      { return http.StatusBadRequest }
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// CapacityExceededError reports the first text page whose estimated line
// count is over budget. PageIndex is zero-based.
type CapacityExceededError struct {
	SectionID string
	PageIndex int
	Estimated int
	Max       int
}

// Over is how many lines the page has to shrink by.
func (e *CapacityExceededError) Over() int { return e.Estimated - e.Max }

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("page %d of %s is too long (%d/%d lines), remove %d lines or move text to a new page",
		e.PageIndex+1, e.SectionID, e.Estimated, e.Max, e.Over())
}

func (e *CapacityExceededError) StatusCode() int      { return http.StatusUnprocessableEntity }
func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// InvalidTransitionError is returned when a status change is not allowed for
// the caller or the section has no record to act on.
type InvalidTransitionError struct {
	SectionID string
	From      string
	To        string
	Reason    string
}

func (e *InvalidTransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("cannot set %s to %s: %s", e.SectionID, e.To, e.Reason)
	}
	return fmt.Sprintf("cannot move %s from %s to %s: %s", e.SectionID, e.From, e.To, e.Reason)
}

func (e *InvalidTransitionError) StatusCode() int      { return http.StatusConflict }
func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// PaymentRequiredError blocks content writes for students without an entitlement.
type PaymentRequiredError struct {
	StudentID string
}

func (e *PaymentRequiredError) Error() string {
	return "report editing is locked until the fee is paid"
}

func (e *PaymentRequiredError) StatusCode() int      { return http.StatusPaymentRequired }
func (e *PaymentRequiredError) Is(target error) bool { return target == ErrPaymentRequired }
