package script

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeftor/tether/internal/automata"
)

type fakeAutomata struct {
	captures int
}

func (f *fakeAutomata) Capture(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.captures++
	return nil
}

func (f *fakeAutomata) Preview(ctx context.Context) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

var _ automata.Automata = (*fakeAutomata)(nil)

// waiter runs until cancelled, then reports cancellation
type waiter struct{}

func (waiter) Execute(ctx context.Context, a automata.Automata, t *Task) error {
	go func() {
		<-ctx.Done()
		t.ReturnErrorIfCancelled()
	}()
	return nil
}

type funcVariant func(ctx context.Context, a automata.Automata, t *Task) error

func (f funcVariant) Execute(ctx context.Context, a automata.Automata, t *Task) error {
	return f(ctx, a, t)
}

type withView struct {
	funcVariant
	view string
}

func (w withView) ConfigView() any { return w.view }

type counterData struct{ n int }

type withData struct {
	funcVariant
	inits *int
}

func (w withData) InitTaskData() any {
	*w.inits++
	return &counterData{n: 3}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"explicit", "Rotate", "Rotate"},
		{"empty uses default", "", DefaultTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSimple(tt.title, waiter{})
			assert.Equal(t, tt.want, s.Title())
		})
	}

	s := NewSimple("A", waiter{})
	s.SetTitle("B")
	assert.Equal(t, "B", s.Title())
	s.SetTitle("")
	assert.Equal(t, DefaultTitle, s.Title())
}

func TestMissingImplementation(t *testing.T) {
	s := NewSimple("Nothing", struct{}{})

	for i := 0; i < 3; i++ {
		task := s.ExecuteAsync(context.Background(), &fakeAutomata{})
		err := s.ExecuteFinish(task)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingImplementation)
		assert.Equal(t, Failed, task.State())

		var execErr *ExecutionError
		assert.False(t, errors.As(err, &execErr), "missing implementation is not an execution error")
	}
}

func TestConfigView(t *testing.T) {
	s := NewSimple("Viewless", waiter{})
	view, err := s.ConfigView()
	assert.Nil(t, view)
	assert.ErrorIs(t, err, ErrUnimplementedCapability)

	s = NewSimple("Viewed", withView{view: "options"})
	view, err = s.ConfigView()
	require.NoError(t, err)
	assert.Equal(t, "options", view)
}

func TestExecuteThenCancel(t *testing.T) {
	s := NewSimple("Waiter", waiter{})
	task := s.ExecuteAsync(context.Background(), &fakeAutomata{})
	assert.Equal(t, Running, task.State())

	task.Cancel()
	err := s.ExecuteFinish(task)

	assert.ErrorIs(t, err, ErrCancelled)
	assert.True(t, IsCancelled(err))
	assert.Equal(t, Cancelled, task.State())
}

func TestParentContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSimple("Waiter", waiter{})
	task := s.ExecuteAsync(ctx, &fakeAutomata{})

	cancel()
	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not finish after parent cancellation")
	}
	assert.Equal(t, Cancelled, task.State())
}

func TestExecuteSuccess(t *testing.T) {
	a := &fakeAutomata{}
	s := NewSimple("Once", funcVariant(func(ctx context.Context, a automata.Automata, task *Task) error {
		go func() {
			if err := a.Capture(ctx); err != nil {
				task.ReturnError(err)
				return
			}
			task.ReturnSuccess()
		}()
		return nil
	}))

	task := s.ExecuteAsync(context.Background(), a)
	require.NoError(t, s.ExecuteFinish(task))
	assert.Equal(t, Succeeded, task.State())
	assert.Equal(t, 1, a.captures)
	assert.Equal(t, "Once", task.Title())
}

func TestExecuteFailure(t *testing.T) {
	boom := errors.New("shutter jammed")
	s := NewSimple("Broken", funcVariant(func(ctx context.Context, a automata.Automata, task *Task) error {
		go task.ReturnError(boom)
		return nil
	}))

	err := s.ExecuteFinish(s.ExecuteAsync(context.Background(), &fakeAutomata{}))
	require.Error(t, err)

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "Broken", execErr.Script)
	assert.ErrorIs(t, err, boom)
}

func TestExecuteReturnsErrorSynchronously(t *testing.T) {
	boom := errors.New("no camera")
	s := NewSimple("Sync", funcVariant(func(ctx context.Context, a automata.Automata, task *Task) error {
		return boom
	}))

	task := s.ExecuteAsync(context.Background(), &fakeAutomata{})
	select {
	case <-task.Done():
	default:
		t.Fatal("task should already be complete")
	}
	assert.ErrorIs(t, s.ExecuteFinish(task), boom)
	assert.Equal(t, Failed, task.State())
}

func TestPanicBecomesFailure(t *testing.T) {
	s := NewSimple("Panics", funcVariant(func(ctx context.Context, a automata.Automata, task *Task) error {
		panic("bad variant")
	}))

	err := s.ExecuteFinish(s.ExecuteAsync(context.Background(), &fakeAutomata{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad variant")
}

func TestTaskCompletesOnce(t *testing.T) {
	task := newTask(context.Background(), "once")

	assert.True(t, task.ReturnSuccess())
	assert.False(t, task.ReturnError(errors.New("late")))
	assert.False(t, task.ReturnErrorIfCancelled())

	assert.NoError(t, task.Wait())
	assert.Equal(t, Succeeded, task.State())

	// Completion releases the task context
	assert.Error(t, task.Context().Err())
}

func TestSuccessAfterCancelIsCancelled(t *testing.T) {
	task := newTask(context.Background(), "late")
	task.Cancel()
	task.ReturnSuccess()

	assert.ErrorIs(t, task.Wait(), ErrCancelled)
	assert.Equal(t, Cancelled, task.State())
}

func TestDeadlineIsFailure(t *testing.T) {
	tests := []struct {
		name   string
		finish func(task *Task)
	}{
		{"checked", func(task *Task) { task.ReturnErrorIfCancelled() }},
		{"success after deadline", func(task *Task) { task.ReturnSuccess() }},
		{"variant reports context error", func(task *Task) { task.ReturnError(task.Context().Err()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
			defer cancel()
			task := newTask(ctx, "timed")
			<-task.Context().Done()

			tt.finish(task)

			err := task.Wait()
			var execErr *ExecutionError
			require.ErrorAs(t, err, &execErr)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.False(t, IsCancelled(err))
			assert.Equal(t, Failed, task.State())
		})
	}
}

func TestDeadlineWaitingVariantFails(t *testing.T) {
	s := NewSimple("Waits", waiter{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	task := s.ExecuteAsync(ctx, &fakeAutomata{})
	err := s.ExecuteFinish(task)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, Failed, task.State())
}

func TestReturnNilError(t *testing.T) {
	task := newTask(context.Background(), "nil")
	task.ReturnError(nil)

	err := task.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown error")
}

func TestTaskData(t *testing.T) {
	inits := 0
	s := NewSimple("Counter", withData{
		inits: &inits,
		funcVariant: func(ctx context.Context, a automata.Automata, task *Task) error {
			data, ok := task.Data().(*counterData)
			if !ok {
				return errors.New("missing task data")
			}
			go func() {
				data.n--
				task.ReturnSuccess()
			}()
			return nil
		},
	})

	first := s.ExecuteAsync(context.Background(), &fakeAutomata{})
	require.NoError(t, s.ExecuteFinish(first))
	second := s.ExecuteAsync(context.Background(), &fakeAutomata{})
	require.NoError(t, s.ExecuteFinish(second))

	assert.Equal(t, 2, inits)
	assert.Equal(t, 2, first.Data().(*counterData).n)
	assert.Equal(t, 2, second.Data().(*counterData).n)
	assert.NotSame(t, first.Data(), second.Data())
}

type panicData struct{ funcVariant }

func (panicData) InitTaskData() any { panic("no data") }

func TestInitTaskDataPanicBecomesFailure(t *testing.T) {
	executed := false
	s := NewSimple("Bad data", panicData{funcVariant(func(ctx context.Context, a automata.Automata, task *Task) error {
		executed = true
		task.ReturnSuccess()
		return nil
	})})

	task := s.ExecuteAsync(context.Background(), &fakeAutomata{})
	err := s.ExecuteFinish(task)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, err.Error(), "no data")
	assert.False(t, executed)
	assert.Nil(t, task.Data())
	assert.Equal(t, Failed, task.State())
}

func TestExecuteFinishNilTask(t *testing.T) {
	s := NewSimple("Nil", waiter{})
	assert.Error(t, s.ExecuteFinish(nil))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, Failed.Terminal())
	assert.False(t, Running.Terminal())
}
