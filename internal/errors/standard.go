// Package errors provides standardized error messaging for goanalyzer
package errors

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryInternal   ErrorCategory = "INTERNAL"
	CategoryIO         ErrorCategory = "IO"
	CategoryConfig     ErrorCategory = "CONFIG"
	CategoryValidation ErrorCategory = "VALIDATION"
	CategoryVersion    ErrorCategory = "VERSION"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]any
	Caller   string
	Cause    error
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// Unwrap returns the underlying cause, if any
func (e *StandardError) Unwrap() error {
	return e.Cause
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]any) *StandardError {
	return newStandardError(2, category, code, message, context)
}

func newStandardError(skip int, category ErrorCategory, code, message string, context map[string]any) *StandardError {
	pc, _, _, ok := runtime.Caller(skip)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Common error constructors

// InternalFault wraps a value recovered from a panic during analysis
func InternalFault(phase string, recovered any) *StandardError {
	e := newStandardError(2, CategoryInternal, "INTERNAL_FAULT",
		fmt.Sprintf("Internal error during %s: %v", phase, recovered),
		map[string]any{"phase": phase})
	if err, ok := recovered.(error); ok {
		e.Cause = err
	}
	return e
}

// ReadFailure reports a source file that could not be read
func ReadFailure(path string, err error) *StandardError {
	e := newStandardError(2, CategoryIO, "READ_FAILURE",
		fmt.Sprintf("Cannot read %s", path),
		map[string]any{"path": path})
	e.Cause = err
	return e
}

// InvalidConfig reports a configuration file rejected by the schema
func InvalidConfig(path string, err error) *StandardError {
	e := newStandardError(2, CategoryConfig, "INVALID_CONFIG",
		fmt.Sprintf("Invalid configuration %s: %v", path, err),
		map[string]any{"path": path})
	e.Cause = err
	return e
}

// VersionMismatch reports an unsatisfied version constraint
func VersionMismatch(constraint, version string) *StandardError {
	return newStandardError(2, CategoryVersion, "VERSION_MISMATCH",
		fmt.Sprintf("Version %s does not satisfy %s", version, constraint),
		map[string]any{"constraint": constraint, "version": version})
}
