package plugins

import (
	"fmt"
	"sync"
	"time"
)

// Settings is the key/value store plugin parameters live in. *viper.Viper
// satisfies it.
type Settings interface {
	GetInt(key string) int
	Set(key string, value any)
}

// Settings keys and limits for the repeat shooter
const (
	KeyShotCount    = "plugins.shooter.shot_count"
	KeyShotInterval = "plugins.shooter.shot_interval"

	DefaultShotCount = 1
	MinShotCount     = 1
	MaxShotCount     = 10000
	MaxShotInterval  = 1000 // seconds
)

// ShooterConfig reads and writes repeat shooter parameters
type ShooterConfig struct {
	mu       sync.Mutex
	settings Settings

	// Called after a successful set, e.g. to persist the config file
	onChange func()
}

// NewShooterConfig wraps settings
func NewShooterConfig(settings Settings) *ShooterConfig {
	return &ShooterConfig{settings: settings}
}

// OnChange installs a callback run after each successful set
func (c *ShooterConfig) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// ShotCount returns the number of shots, clamped to the valid range
func (c *ShooterConfig) ShotCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.settings.GetInt(KeyShotCount)
	switch {
	case n < MinShotCount:
		return DefaultShotCount
	case n > MaxShotCount:
		return MaxShotCount
	}
	return n
}

// SetShotCount stores the number of shots
func (c *ShooterConfig) SetShotCount(n int) error {
	if n < MinShotCount || n > MaxShotCount {
		return fmt.Errorf("shot count must be between %d and %d, got %d", MinShotCount, MaxShotCount, n)
	}
	c.set(KeyShotCount, n)
	return nil
}

// ShotInterval returns the wait between shots in whole seconds
func (c *ShooterConfig) ShotInterval() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.settings.GetInt(KeyShotInterval)
	switch {
	case n < 0:
		return 0
	case n > MaxShotInterval:
		return MaxShotInterval
	}
	return n
}

// SetShotInterval stores the wait between shots in whole seconds
func (c *ShooterConfig) SetShotInterval(seconds int) error {
	if seconds < 0 || seconds > MaxShotInterval {
		return fmt.Errorf("shot interval must be between 0 and %d seconds, got %d", MaxShotInterval, seconds)
	}
	c.set(KeyShotInterval, seconds)
	return nil
}

// Interval returns ShotInterval as a duration
func (c *ShooterConfig) Interval() time.Duration {
	return time.Duration(c.ShotInterval()) * time.Second
}

func (c *ShooterConfig) set(key string, value int) {
	c.mu.Lock()
	c.settings.Set(key, value)
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}
