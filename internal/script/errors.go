package script

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingImplementation is returned when a variant has no Execute method
	ErrMissingImplementation = errors.New("missing 'execute' method implementation")

	// ErrUnimplementedCapability is returned when a variant does not supply an optional capability
	ErrUnimplementedCapability = errors.New("capability not implemented")

	// ErrCancelled marks a run that stopped because its context was cancelled.
	// It is a terminal outcome, not a failure.
	ErrCancelled = errors.New("script execution cancelled")
)

// ExecutionError is a runtime failure reported by a script variant
type ExecutionError struct {
	Script string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("script %q failed: %v", e.Script, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsCancelled reports whether err is the cancelled outcome
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
