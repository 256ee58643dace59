package resource

import (
	"fmt"
	"sync"

	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/utils"
)

// ResourceManager runs registered cleanup functions at shutdown
type ResourceManager struct {
	mu       sync.Mutex
	nextID   int
	cleanups map[int]cleanup
	order    []int
}

type cleanup struct {
	name string
	fn   func() error
}

// NewResourceManager creates an empty resource manager
func NewResourceManager() *ResourceManager {
	return &ResourceManager{cleanups: make(map[int]cleanup)}
}

// Register adds a cleanup function and returns a func that removes it
// again without running it
func (rm *ResourceManager) Register(name string, fn func() error) (release func()) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	id := rm.nextID
	rm.nextID++
	rm.cleanups[id] = cleanup{name: name, fn: fn}
	rm.order = append(rm.order, id)

	logging.Debug("Registered cleanup", "name", name)

	return func() {
		rm.mu.Lock()
		defer rm.mu.Unlock()
		delete(rm.cleanups, id)
	}
}

// Pending returns the number of cleanups not yet run or released
func (rm *ResourceManager) Pending() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.cleanups)
}

// CleanupAll runs every pending cleanup, newest first, and collects errors
func (rm *ResourceManager) CleanupAll() error {
	rm.mu.Lock()
	pending := make([]cleanup, 0, len(rm.cleanups))
	for i := len(rm.order) - 1; i >= 0; i-- {
		if c, ok := rm.cleanups[rm.order[i]]; ok {
			pending = append(pending, c)
		}
	}
	rm.cleanups = make(map[int]cleanup)
	rm.order = nil
	rm.mu.Unlock()

	errs := utils.NewMultiError("cleanup")
	for _, c := range pending {
		if err := c.fn(); err != nil {
			logging.Warn("Cleanup failed", "name", c.name, "error", err)
			errs.Add(fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		logging.Debug("Cleanup completed", "name", c.name)
	}
	return errs.ErrorOrNil()
}
