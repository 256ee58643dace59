package script

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeeftor/tether/internal/automata"
)

// Executor is the one capability every variant must supply. Execute must
// not block: long-running work belongs in a goroutine that eventually
// completes t. An error returned here fails the task immediately.
type Executor interface {
	Execute(ctx context.Context, a automata.Automata, t *Task) error
}

// ConfigViewer is implemented by variants that have configuration options
type ConfigViewer interface {
	ConfigView() any
}

// TaskDataInitializer is implemented by variants needing per-run state.
// InitTaskData is called once per ExecuteAsync.
type TaskDataInitializer interface {
	InitTaskData() any
}

// Simple dispatches the Script contract to a variant value
type Simple struct {
	Base
	variant any
}

var _ Script = (*Simple)(nil)

// NewSimple wraps a variant. The variant should implement Executor and may
// implement ConfigViewer and TaskDataInitializer.
func NewSimple(title string, variant any) *Simple {
	s := &Simple{variant: variant}
	s.SetTitle(title)
	return s
}

// Variant returns the wrapped implementation
func (s *Simple) Variant() any {
	return s.variant
}

// ConfigView delegates to the variant
func (s *Simple) ConfigView() (any, error) {
	cv, ok := s.variant.(ConfigViewer)
	if !ok {
		return nil, fmt.Errorf("%s: config view: %w", s.Title(), ErrUnimplementedCapability)
	}
	return cv.ConfigView(), nil
}

// ExecuteAsync creates a fresh task and hands it to the variant
func (s *Simple) ExecuteAsync(ctx context.Context, a automata.Automata) *Task {
	t := newTask(ctx, s.Title())

	exec, ok := s.variant.(Executor)
	if !ok {
		t.complete(ErrMissingImplementation)
		return t
	}

	if init, ok := s.variant.(TaskDataInitializer); ok {
		if err := capture(func() error { t.data = init.InitTaskData(); return nil }); err != nil {
			t.complete(err)
			return t
		}
	}

	if err := capture(func() error { return exec.Execute(t.ctx, a, t) }); err != nil {
		t.complete(err)
	}
	return t
}

// ExecuteFinish waits for t and returns its outcome
func (s *Simple) ExecuteFinish(t *Task) error {
	if t == nil {
		return errors.New("execute finish: nil task")
	}
	return t.Wait()
}

// capture runs fn and converts a panic into an error
func capture(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during script setup: %v", r)
		}
	}()
	return fn()
}
