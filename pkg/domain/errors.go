package domain

import "errors"

// FailureKind classifies why a tool invocation did not succeed.
type FailureKind string

const (
	// FailureNotFound means the requested tool name is not registered.
	FailureNotFound FailureKind = "not_found"
	// FailureValidation means the raw parameters did not match the tool's schema.
	FailureValidation FailureKind = "validation_error"
	// FailureExecution means the external action failed (non-zero exit,
	// network failure, provider rejection, filesystem precondition).
	FailureExecution FailureKind = "execution_error"
)

func (k FailureKind) String() string { return string(k) }

// ErrDuplicateName is returned when registering a tool whose name is taken.
var ErrDuplicateName = errors.New("duplicate_name")

// ErrToolNotFound is returned when a registry lookup misses.
var ErrToolNotFound = errors.New("not_found")
