// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrInvalidConfiguration indicates invalid pool configuration
	ErrInvalidConfiguration = errors.New("invalid pool configuration")

	// ErrPoolStopped indicates submission was rejected because shutdown has begun
	ErrPoolStopped = errors.New("pool is stopped")

	// ErrPoolShutdown indicates a queued task was discarded by forced shutdown
	ErrPoolShutdown = errors.New("task discarded by pool shutdown")
)

// TaskError represents a failure raised while executing a task body
type TaskError struct {
	// Op is the operation during which the failure occurred
	Op string

	// Cause is the underlying error
	Cause error

	// Context contains error context information
	Context map[string]interface{}
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("task error in %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is a specific error
func (e *TaskError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewTaskError creates a new task error
func NewTaskError(op string, cause error) *TaskError {
	return &TaskError{
		Op:      op,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds error context
func (e *TaskError) WithContext(key string, value interface{}) *TaskError {
	e.Context[key] = value
	return e
}
