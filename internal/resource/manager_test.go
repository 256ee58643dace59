package resource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRunsNewestFirst(t *testing.T) {
	rm := NewResourceManager()
	var order []string
	rm.Register("camera", func() error { order = append(order, "camera"); return nil })
	rm.Register("task", func() error { order = append(order, "task"); return nil })

	require.NoError(t, rm.CleanupAll())
	assert.Equal(t, []string{"task", "camera"}, order)
	assert.Zero(t, rm.Pending())

	// Nothing runs twice
	require.NoError(t, rm.CleanupAll())
	assert.Len(t, order, 2)
}

func TestReleaseSkipsCleanup(t *testing.T) {
	rm := NewResourceManager()
	ran := false
	release := rm.Register("task", func() error { ran = true; return nil })
	assert.Equal(t, 1, rm.Pending())

	release()
	assert.Zero(t, rm.Pending())
	require.NoError(t, rm.CleanupAll())
	assert.False(t, ran)
}

func TestCleanupCollectsErrors(t *testing.T) {
	rm := NewResourceManager()
	first := errors.New("first")
	second := errors.New("second")
	rm.Register("a", func() error { return first })
	rm.Register("b", func() error { return nil })
	rm.Register("c", func() error { return second })

	err := rm.CleanupAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestContextManagerShutdown(t *testing.T) {
	cm := NewContextManager(false)
	assert.True(t, cm.IsActive())

	ctx, cancel := cm.WithTimeout(time.Hour)
	defer cancel()

	cleaned := false
	cm.GetResourceManager().Register("flag", func() error { cleaned = true; return nil })

	require.NoError(t, cm.Shutdown())
	assert.False(t, cm.IsActive())
	assert.True(t, cleaned)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	// Shutdown is idempotent
	assert.NoError(t, cm.Shutdown())
}
