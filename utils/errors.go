package utils

import (
	"errors"
	"fmt"
)

// NotFoundError names the missing resource type and id.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s with id=%d not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource type and id.
func NewNotFoundError(resource string, id uint) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError carries every violation found in a request so clients see
// all problems at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Messages[0]
}

// NewValidationError creates a ValidationError from the collected messages.
func NewValidationError(messages []string) error {
	return &ValidationError{Messages: messages}
}

// BusinessRuleError marks a request that is well-formed but violates a
// domain rule (duplicate name, protected system role, and so on).
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

// NewBusinessRuleError creates a BusinessRuleError with the given message.
func NewBusinessRuleError(format string, args ...interface{}) error {
	return &BusinessRuleError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
