// Package plugins provides the built-in capture scripts.
package plugins

import (
	"fmt"

	"github.com/jeeftor/tether/internal/script"
	"github.com/jeeftor/tether/internal/selector"
)

// Registry holds the built-in scripts so they can be attached to and
// detached from a selector as a group
type Registry struct {
	Shooter *ShooterConfig
	scripts []script.Script
}

// NewRegistry creates the built-in scripts backed by settings
func NewRegistry(settings Settings) *Registry {
	cfg := NewShooterConfig(settings)
	return &Registry{
		Shooter: cfg,
		scripts: []script.Script{
			NewShooter(cfg),
			NewSingle(),
		},
	}
}

// Scripts returns the built-in scripts in registration order
func (r *Registry) Scripts() []script.Script {
	out := make([]script.Script, len(r.scripts))
	copy(out, r.scripts)
	return out
}

// Activate registers every built-in script with sel
func (r *Registry) Activate(sel *selector.Selector) error {
	for _, sc := range r.scripts {
		if err := sel.RegisterScript(sc); err != nil {
			return fmt.Errorf("activate plugins: %w", err)
		}
	}
	return nil
}

// Deactivate removes the built-in scripts from sel, ignoring any that
// were never registered
func (r *Registry) Deactivate(sel *selector.Selector) {
	for _, sc := range r.scripts {
		// ErrScriptNotFound is the only failure and is expected here
		_ = sel.Unregister(sc)
	}
}
