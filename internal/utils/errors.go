package utils

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/script"
	"github.com/jeeftor/tether/internal/selector"
)

// ErrorExitCode represents different types of errors with their exit codes
type ErrorExitCode int

const (
	ExitCodeGeneral    ErrorExitCode = 1
	ExitCodeValidation ErrorExitCode = 2
	ExitCodeScript     ErrorExitCode = 3
	ExitCodeFileSystem ErrorExitCode = 4
	ExitCodeCancelled  ErrorExitCode = 130
)

// ExitCodeFor maps an error to the process exit code
func ExitCodeFor(err error) ErrorExitCode {
	var execErr *script.ExecutionError
	var pathErr *os.PathError
	switch {
	case err == nil:
		return 0
	case script.IsCancelled(err):
		return ExitCodeCancelled
	case errors.Is(err, selector.ErrScriptNotFound), errors.Is(err, selector.ErrDuplicateScript):
		return ExitCodeValidation
	case errors.As(err, &execErr), errors.Is(err, script.ErrMissingImplementation):
		return ExitCodeScript
	case errors.As(err, &pathErr):
		return ExitCodeFileSystem
	default:
		return ExitCodeGeneral
	}
}

// FatalError handles fatal errors with consistent logging and exit behavior
func FatalError(err error, context string) {
	logging.UserErrorf("%s: %v", context, err)
	os.Exit(int(ExitCodeFor(err)))
}

// FatalErrorWithCode handles fatal errors with specific exit codes
func FatalErrorWithCode(err error, context string, exitCode ErrorExitCode) {
	logging.UserErrorf("%s: %v", context, err)
	os.Exit(int(exitCode))
}

// ValidationError handles argument validation errors
func ValidationError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(int(ExitCodeValidation))
}

// WarnOnError logs a warning for non-fatal errors
func WarnOnError(err error, context string) {
	if err != nil {
		logging.UserWarnf("Warning: %s: %v", context, err)
	}
}

// CheckError is a convenience function for common error checking patterns
func CheckError(err error, context string) {
	if err != nil {
		FatalError(err, context)
	}
}

// MultiError represents multiple errors that occurred
type MultiError struct {
	Errors  []error
	Context string
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred: %v (and %d more)", len(m.Errors), m.Errors[0], len(m.Errors)-1)
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// NewMultiError creates a new MultiError
func NewMultiError(context string) *MultiError {
	return &MultiError{
		Context: context,
		Errors:  make([]error, 0),
	}
}

// Add adds an error to the MultiError
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ErrorOrNil returns m when errors were collected and nil otherwise
func (m *MultiError) ErrorOrNil() error {
	if m.HasErrors() {
		return m
	}
	return nil
}
