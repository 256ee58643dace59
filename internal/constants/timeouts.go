package constants

import "time"

// Default timings used throughout the application
const (
	// Simulated camera
	DefaultCameraLatency = 300 * time.Millisecond
	DefaultPreviewCols   = 64

	// Shutdown
	CleanupTimeout = 10 * time.Second

	// TUI refresh while a script runs
	StatusTickInterval = 250 * time.Millisecond
)

// GetTimeout returns a timeout duration based on the operation type.
// Zero means no limit.
func GetTimeout(operation string) time.Duration {
	switch operation {
	case "cleanup":
		return CleanupTimeout
	case "preview":
		return 15 * time.Second
	default:
		return 0
	}
}
