// Package script defines pluggable capture scripts and the dispatcher that
// runs them asynchronously against a camera automation context.
package script

import (
	"context"
	"sync"

	"github.com/jeeftor/tether/internal/automata"
)

// DefaultTitle is used for scripts that never set a title
const DefaultTitle = "Untitled script"

// Script is an automated action executable against a camera context
type Script interface {
	Title() string
	SetTitle(title string)

	// ConfigView returns the variant's configuration view, or
	// ErrUnimplementedCapability when it has none.
	ConfigView() (any, error)

	// ExecuteAsync starts a run and returns without blocking. The returned
	// task completes exactly once.
	ExecuteAsync(ctx context.Context, a automata.Automata) *Task

	// ExecuteFinish waits for the task and maps its outcome to an error:
	// nil, *ExecutionError, ErrMissingImplementation or ErrCancelled.
	ExecuteFinish(t *Task) error
}

// Base stores the title shared by every script
type Base struct {
	mu    sync.RWMutex
	title string
}

// Title returns the current title
func (b *Base) Title() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.title == "" {
		return DefaultTitle
	}
	return b.title
}

// SetTitle replaces the title. An empty title restores DefaultTitle.
func (b *Base) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
}
