package selector

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeftor/tether/internal/automata"
	"github.com/jeeftor/tether/internal/script"
)

type noop struct{}

func (noop) Execute(ctx context.Context, a automata.Automata, t *script.Task) error {
	go t.ReturnSuccess()
	return nil
}

type viewed struct {
	noop
	view any
}

func (v viewed) ConfigView() any { return v.view }

func newScript(title string) *script.Simple {
	return script.NewSimple(title, noop{})
}

func titles(s *Selector) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Title())
	}
	return out
}

func TestNewSelector(t *testing.T) {
	s := New()

	assert.False(t, s.HasScripts())
	assert.Nil(t, s.Selected())
	assert.Equal(t, 1, s.Len())

	idx, e := s.Active()
	assert.Equal(t, 0, idx)
	assert.True(t, e.IsSentinel())
	assert.Equal(t, NoScriptTitle, e.Title())
	assert.Nil(t, e.View)
}

func TestHasScripts(t *testing.T) {
	s := New()
	a := newScript("A")

	require.NoError(t, s.Register(a, nil))
	assert.True(t, s.HasScripts())

	require.NoError(t, s.Unregister(a))
	assert.False(t, s.HasScripts())
}

func TestRegisterPlaceholderView(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(newScript("A"), nil))

	e := s.Entries()[1]
	assert.Equal(t, NoConfigOptions, e.View)
	assert.Equal(t, "No config options", e.View.(Placeholder).String())
}

func TestRegisterScriptUsesConfigView(t *testing.T) {
	s := New()
	withView := script.NewSimple("Viewed", viewed{view: "form"})
	without := newScript("Plain")

	require.NoError(t, s.RegisterScript(withView))
	require.NoError(t, s.RegisterScript(without))

	entries := s.Entries()
	assert.Equal(t, "form", entries[1].View)
	assert.Equal(t, NoConfigOptions, entries[2].View)
}

func TestRegisterNil(t *testing.T) {
	s := New()
	assert.Error(t, s.Register(nil, nil))
	assert.Error(t, s.RegisterScript(nil))
	assert.Equal(t, 1, s.Len())
}

// Scenario: registering A twice fails and leaves the list unchanged
func TestDuplicateRegister(t *testing.T) {
	s := New()
	a := newScript("A")

	require.NoError(t, s.Register(a, nil))
	before := titles(s)

	err := s.Register(a, "other view")
	assert.ErrorIs(t, err, ErrDuplicateScript)
	assert.Equal(t, before, titles(s))
	assert.Equal(t, NoConfigOptions, s.Entries()[1].View)

	// A different script with the same title is a different entry
	require.NoError(t, s.Register(newScript("A"), nil))
	assert.Equal(t, 3, s.Len())
}

func TestUnregisterUnknown(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Unregister(newScript("ghost")), ErrScriptNotFound)
	assert.ErrorIs(t, s.Unregister(nil), ErrScriptNotFound)
}

// HasScripts must track the live registrations over any mix of calls
func TestHasScriptsTracksRegistrations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := make([]*script.Simple, 6)
	for i := range pool {
		pool[i] = newScript(string(rune('A' + i)))
	}

	for round := 0; round < 20; round++ {
		s := New()
		live := map[*script.Simple]bool{}
		for step := 0; step < 40; step++ {
			sc := pool[rng.Intn(len(pool))]
			if live[sc] {
				require.NoError(t, s.Unregister(sc))
				delete(live, sc)
			} else {
				require.NoError(t, s.Register(sc, nil))
				live[sc] = true
			}
			if rng.Intn(3) == 0 && live[sc] {
				require.NoError(t, s.Select(sc))
			}
			assert.Equal(t, len(live) > 0, s.HasScripts(), "round %d step %d", round, step)
			assert.Equal(t, len(live)+1, s.Len())
		}
	}
}

func TestSelectThenUnregisterFirst(t *testing.T) {
	s := New()
	rotate := newScript("Rotate")
	focus := newScript("Focus-stack")
	require.NoError(t, s.Register(rotate, nil))
	require.NoError(t, s.Register(focus, nil))
	assert.Nil(t, s.Selected())

	require.NoError(t, s.Select(rotate))
	assert.Same(t, rotate, s.Selected())

	require.NoError(t, s.Unregister(rotate))
	assert.Same(t, focus, s.Selected())
}

// tagged is a value-typed script whose slice field makes it incomparable
type tagged struct{ tags []string }

func (tagged) Title() string                                                { return "Tagged" }
func (tagged) SetTitle(string)                                              {}
func (tagged) ConfigView() (any, error)                                     { return nil, nil }
func (tagged) ExecuteAsync(context.Context, automata.Automata) *script.Task { return nil }
func (tagged) ExecuteFinish(*script.Task) error                             { return nil }

func TestRegisterIncomparableScript(t *testing.T) {
	s := New()
	sc := tagged{tags: []string{"x"}}

	assert.ErrorIs(t, s.Register(sc, nil), ErrIncomparableScript)
	assert.ErrorIs(t, s.Unregister(sc), ErrScriptNotFound)
	assert.Error(t, s.Select(sc))
	assert.False(t, s.HasScripts())
}

// Scenario: removing the active "Focus stack" falls back to "Rotate"
func TestUnregisterActiveFallsBackToFirstScript(t *testing.T) {
	s := New()
	rotate := newScript("Rotate")
	focus := newScript("Focus stack")
	require.NoError(t, s.Register(rotate, nil))
	require.NoError(t, s.Register(focus, "focus view"))
	require.NoError(t, s.Select(focus))

	var changes []Change
	s.OnChange(func(c Change) { changes = append(changes, c) })

	require.NoError(t, s.Unregister(focus))

	assert.Same(t, rotate, s.Selected())
	assert.Equal(t, []string{NoScriptTitle, "Rotate"}, titles(s))
	require.Len(t, changes, 1)
	assert.Equal(t, 1, changes[0].Index)
	assert.Same(t, rotate, changes[0].Entry.Script)
	assert.True(t, changes[0].Visible)
}

func TestUnregisterActiveAtSameIndexNotifies(t *testing.T) {
	s := New()
	a, b := newScript("A"), newScript("B")
	require.NoError(t, s.Register(a, nil))
	require.NoError(t, s.Register(b, nil))
	require.NoError(t, s.Select(a))

	var got []string
	s.OnChange(func(c Change) { got = append(got, c.Entry.Title()) })

	// B slides into index 1, which stays the active index
	require.NoError(t, s.Unregister(a))
	assert.Same(t, b, s.Selected())
	assert.Equal(t, []string{"B"}, got)
}

func TestUnregisterLastScriptSelectsNone(t *testing.T) {
	s := New()
	a := newScript("A")
	require.NoError(t, s.Register(a, nil))
	require.NoError(t, s.Select(a))

	var changes []Change
	s.OnChange(func(c Change) { changes = append(changes, c) })

	require.NoError(t, s.Unregister(a))
	assert.Nil(t, s.Selected())
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Entry.IsSentinel())
	assert.False(t, changes[0].Visible)
}

func TestUnregisterBeforeActiveKeepsSelection(t *testing.T) {
	s := New()
	a, b, c := newScript("A"), newScript("B"), newScript("C")
	for _, sc := range []script.Script{a, b, c} {
		require.NoError(t, s.Register(sc, nil))
	}
	require.NoError(t, s.Select(c))

	notified := 0
	s.OnChange(func(Change) { notified++ })

	require.NoError(t, s.Unregister(a))
	assert.Same(t, c, s.Selected())
	idx, _ := s.Active()
	assert.Equal(t, 2, idx)
	assert.Zero(t, notified)

	// Removing one after the active entry changes nothing either
	d := newScript("D")
	require.NoError(t, s.Register(d, nil))
	require.NoError(t, s.Unregister(d))
	assert.Same(t, c, s.Selected())
	assert.Zero(t, notified)
}

func TestUnregisterPreservesOrder(t *testing.T) {
	s := New()
	scripts := []script.Script{newScript("A"), newScript("B"), newScript("C"), newScript("D")}
	for _, sc := range scripts {
		require.NoError(t, s.Register(sc, nil))
	}

	require.NoError(t, s.Unregister(scripts[1]))
	assert.Equal(t, []string{NoScriptTitle, "A", "C", "D"}, titles(s))
}

func TestSelect(t *testing.T) {
	s := New()
	a, b := newScript("A"), newScript("B")
	require.NoError(t, s.Register(a, nil))
	require.NoError(t, s.Register(b, nil))

	var changes []Change
	s.OnChange(func(c Change) { changes = append(changes, c) })

	require.NoError(t, s.Select(b))
	assert.Same(t, b, s.Selected())

	// Reselecting the active entry is not a change
	require.NoError(t, s.Select(b))
	assert.Len(t, changes, 1)

	require.NoError(t, s.SelectIndex(1))
	assert.Same(t, a, s.Selected())

	s.SelectNone()
	assert.Nil(t, s.Selected())

	assert.Len(t, changes, 3)
	assert.Equal(t, []int{2, 1, 0}, []int{changes[0].Index, changes[1].Index, changes[2].Index})

	assert.ErrorIs(t, s.Select(newScript("ghost")), ErrScriptNotFound)
	assert.Error(t, s.SelectIndex(3))
	assert.Error(t, s.SelectIndex(-1))
	assert.Len(t, changes, 3)
}

func TestObserversRunInOrder(t *testing.T) {
	s := New()
	a := newScript("A")
	require.NoError(t, s.Register(a, nil))

	var order []string
	s.OnChange(func(Change) { order = append(order, "first") })
	s.OnChange(func(Change) { order = append(order, "second") })
	s.OnChange(nil)

	require.NoError(t, s.Select(a))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestObserverSeesStateAfterMutation(t *testing.T) {
	s := New()
	a := newScript("A")
	require.NoError(t, s.Register(a, nil))

	var seen script.Script
	s.OnChange(func(Change) { seen = s.Selected() })

	require.NoError(t, s.Select(a))
	assert.Same(t, a, seen)
}

func TestFind(t *testing.T) {
	s := New()
	shooter := newScript("Repeat shooter")
	require.NoError(t, s.Register(shooter, nil))
	require.NoError(t, s.Register(newScript("Single shot"), nil))

	found, ok := s.Find("repeat SHOOTER")
	require.True(t, ok)
	assert.Same(t, shooter, found)

	_, ok = s.Find(NoScriptTitle)
	assert.False(t, ok)
	_, ok = s.Find("timelapse")
	assert.False(t, ok)
}

func TestEntriesReturnsCopy(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(newScript("A"), nil))

	entries := s.Entries()
	entries[1] = Entry{}
	assert.Equal(t, "A", s.Entries()[1].Title())
}
