// Package selector keeps the ordered list of registered scripts, each paired
// with its configuration view, and tracks which one is active.
//
// The first entry is always a sentinel meaning "no script". A Selector is
// owned by one goroutine; it does no locking of its own.
package selector

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jeeftor/tether/internal/script"
)

var (
	// ErrDuplicateScript is returned when registering a script twice
	ErrDuplicateScript = errors.New("script already registered")

	// ErrIncomparableScript is returned when a script value cannot be
	// matched by identity, such as a struct holding a slice or map
	ErrIncomparableScript = errors.New("script type is not comparable")

	// ErrScriptNotFound is returned when a script is not registered
	ErrScriptNotFound = errors.New("script not registered")
)

// NoScriptTitle labels the sentinel entry
const NoScriptTitle = "No script"

// Placeholder is the view used for scripts without configuration options
type Placeholder struct {
	Label string
}

func (p Placeholder) String() string {
	return p.Label
}

// NoConfigOptions is the placeholder registered for scripts with no view
var NoConfigOptions = Placeholder{Label: "No config options"}

// Entry pairs a script with its config view. The sentinel has both nil.
type Entry struct {
	Script script.Script
	View   any
}

// IsSentinel reports whether e is the "no script" entry
func (e Entry) IsSentinel() bool {
	return e.Script == nil
}

// Title is the script title, or NoScriptTitle for the sentinel
func (e Entry) Title() string {
	if e.Script == nil {
		return NoScriptTitle
	}
	return e.Script.Title()
}

// Change describes the active entry after a selection change. Visible
// tells a presentation layer whether to show the config view at all.
type Change struct {
	Index   int
	Entry   Entry
	Visible bool
}

// Selector is the script registry and active-selection tracker
type Selector struct {
	entries   []Entry
	active    int
	observers []func(Change)
}

// New creates a selector holding only the sentinel, which is active
func New() *Selector {
	return &Selector{
		entries: []Entry{{}},
		active:  0,
	}
}

// OnChange registers fn to be called after every change of active entry.
// Observers run synchronously, in registration order, before the call
// that caused the change returns.
func (s *Selector) OnChange(fn func(Change)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// Register appends sc with its config view. A nil view is replaced by
// NoConfigOptions. Scripts are matched by identity, so sc should be a
// pointer or another comparable value.
func (s *Selector) Register(sc script.Script, view any) error {
	if sc == nil {
		return fmt.Errorf("register: nil script")
	}
	if !isComparable(sc) {
		return fmt.Errorf("register %T: %w", sc, ErrIncomparableScript)
	}
	if s.indexOf(sc) >= 0 {
		return fmt.Errorf("register %q: %w", sc.Title(), ErrDuplicateScript)
	}
	if view == nil {
		view = NoConfigOptions
	}
	s.entries = append(s.entries, Entry{Script: sc, View: view})
	return nil
}

// RegisterScript registers sc using the config view it provides. A script
// without the config capability gets the placeholder.
func (s *Selector) RegisterScript(sc script.Script) error {
	if sc == nil {
		return fmt.Errorf("register: nil script")
	}
	view, err := sc.ConfigView()
	if err != nil && !errors.Is(err, script.ErrUnimplementedCapability) {
		return fmt.Errorf("register %q: %w", sc.Title(), err)
	}
	return s.Register(sc, view)
}

// Unregister removes sc. When sc was active, the first remaining real
// script becomes active, or the sentinel if none remain.
func (s *Selector) Unregister(sc script.Script) error {
	idx := s.indexOf(sc)
	if idx < 0 {
		return ErrScriptNotFound
	}

	wasActive := idx == s.active
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)

	switch {
	case wasActive:
		// The index may be unchanged while the entry behind it is not
		s.active = 0
		if len(s.entries) > 1 {
			s.active = 1
		}
		s.notify()
	case idx < s.active:
		// Same entry stays active; only its position moved
		s.active--
	}
	return nil
}

// HasScripts reports whether any real script is registered
func (s *Selector) HasScripts() bool {
	return len(s.entries) > 1
}

// Selected returns the active script, or nil when the sentinel is active
func (s *Selector) Selected() script.Script {
	return s.entries[s.active].Script
}

// Active returns the active index and entry
func (s *Selector) Active() (int, Entry) {
	return s.active, s.entries[s.active]
}

// Select makes sc the active entry
func (s *Selector) Select(sc script.Script) error {
	idx := s.indexOf(sc)
	if idx < 0 {
		return ErrScriptNotFound
	}
	s.setActive(idx)
	return nil
}

// SelectNone activates the sentinel
func (s *Selector) SelectNone() {
	s.setActive(0)
}

// SelectIndex activates the entry at position i, sentinel included
func (s *Selector) SelectIndex(i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("select: index %d out of range [0,%d)", i, len(s.entries))
	}
	s.setActive(i)
	return nil
}

// Find returns the first script whose title matches, ignoring case
func (s *Selector) Find(title string) (script.Script, bool) {
	for _, e := range s.entries[1:] {
		if strings.EqualFold(e.Script.Title(), strings.TrimSpace(title)) {
			return e.Script, true
		}
	}
	return nil, false
}

// Entries returns a copy of the entries in order, sentinel first
func (s *Selector) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries including the sentinel
func (s *Selector) Len() int {
	return len(s.entries)
}

func (s *Selector) setActive(i int) {
	if i == s.active {
		return
	}
	s.active = i
	s.notify()
}

func (s *Selector) notify() {
	e := s.entries[s.active]
	c := Change{Index: s.active, Entry: e, Visible: e.View != nil}
	for _, fn := range s.observers {
		fn(c)
	}
}

// indexOf finds sc by identity; linear, the list holds tens of entries
func (s *Selector) indexOf(sc script.Script) int {
	if sc == nil || !isComparable(sc) {
		return -1
	}
	for i, e := range s.entries {
		if e.Script == sc {
			return i
		}
	}
	return -1
}

func isComparable(sc script.Script) bool {
	return reflect.TypeOf(sc).Comparable()
}
