package resource

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jeeftor/tether/internal/constants"
	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/utils"
)

// ContextManager owns the application root context. The first interrupt
// cancels it so running scripts can finish as cancelled; a second one
// runs cleanup and exits.
type ContextManager struct {
	rootContext    context.Context
	cancelFunc     context.CancelFunc
	resourceMgr    *ResourceManager
	cleanupTimeout time.Duration
	mu             sync.RWMutex
	stopSignals    func()
}

// NewContextManager creates a context manager, optionally installing
// signal handlers
func NewContextManager(handleSignals bool) *ContextManager {
	rootCtx, cancel := context.WithCancel(context.Background())

	cm := &ContextManager{
		rootContext:    rootCtx,
		cancelFunc:     cancel,
		resourceMgr:    NewResourceManager(),
		cleanupTimeout: constants.CleanupTimeout,
		stopSignals:    func() {},
	}

	if handleSignals {
		cm.setupSignalHandling()
	}

	return cm
}

// GetContext returns the root context for operations
func (cm *ContextManager) GetContext() context.Context {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.rootContext
}

// GetResourceManager returns the resource manager
func (cm *ContextManager) GetResourceManager() *ResourceManager {
	return cm.resourceMgr
}

// WithTimeout creates a context with timeout
func (cm *ContextManager) WithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cm.GetContext(), timeout)
}

// WithCancel creates a cancellable context
func (cm *ContextManager) WithCancel() (context.Context, context.CancelFunc) {
	return context.WithCancel(cm.GetContext())
}

// setupSignalHandling sets up signal handlers for graceful shutdown
func (cm *ContextManager) setupSignalHandling() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	cm.stopSignals = func() {
		signal.Stop(sigChan)
		close(done)
	}

	go func() {
		select {
		case sig := <-sigChan:
			logging.Info("Received shutdown signal, cancelling running script",
				"signal", sig.String())
			cm.cancelFunc()
		case <-done:
			return
		}

		select {
		case sig := <-sigChan:
			logging.Warn("Received second signal, forcing exit", "signal", sig.String())
			cm.cleanupWithTimeout()
			os.Exit(int(utils.ExitCodeCancelled))
		case <-done:
		}
	}()
}

func (cm *ContextManager) cleanupWithTimeout() {
	cm.mu.RLock()
	timeout := cm.cleanupTimeout
	cm.mu.RUnlock()

	done := make(chan error, 1)
	go func() {
		done <- cm.resourceMgr.CleanupAll()
	}()

	select {
	case err := <-done:
		if err != nil {
			logging.Error("Resource cleanup completed with errors", "error", err)
		} else {
			logging.Debug("Resource cleanup completed successfully")
		}
	case <-time.After(timeout):
		logging.Warn("Resource cleanup timed out", "timeout", timeout)
	}
}

// Shutdown cancels the root context, stops signal handling and runs cleanup
func (cm *ContextManager) Shutdown() error {
	logging.Debug("Initiating shutdown")

	cm.mu.Lock()
	cm.cancelFunc()
	stop := cm.stopSignals
	cm.stopSignals = func() {}
	cm.mu.Unlock()

	stop()
	return cm.resourceMgr.CleanupAll()
}

// SetCleanupTimeout sets the timeout for cleanup operations
func (cm *ContextManager) SetCleanupTimeout(timeout time.Duration) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.cleanupTimeout = timeout
}

// IsActive returns whether the context manager is still active
func (cm *ContextManager) IsActive() bool {
	select {
	case <-cm.rootContext.Done():
		return false
	default:
		return true
	}
}
