package validation

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeeftor/tether/internal/plugins"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationResult holds the results of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []string
}

// AddError adds a validation error
func (vr *ValidationResult) AddError(field string, value interface{}, rule string, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	})
}

// AddWarning adds a validation warning
func (vr *ValidationResult) AddWarning(message string) {
	vr.Warnings = append(vr.Warnings, message)
}

// Err returns the first error, or nil when valid
func (vr *ValidationResult) Err() error {
	if vr.Valid || len(vr.Errors) == 0 {
		return nil
	}
	return vr.Errors[0]
}

// RunConfig is everything needed to run a script against a camera
type RunConfig struct {
	SessionDir     string
	SessionPattern string
	DeleteFile     bool
	Latency        time.Duration
	ShotCount      int
	ShotInterval   int
}

// ConfigValidator checks settings before a run starts
type ConfigValidator struct{}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateRunConfig performs validation of the run configuration
func (cv *ConfigValidator) ValidateRunConfig(cfg RunConfig) *ValidationResult {
	result := &ValidationResult{Valid: true}

	cv.validateSession(cfg, result)
	cv.validateCamera(cfg, result)
	cv.validateShooter(cfg, result)

	return result
}

func (cv *ConfigValidator) validateSession(cfg RunConfig, result *ValidationResult) {
	if strings.TrimSpace(cfg.SessionDir) == "" {
		result.AddError("session.dir", cfg.SessionDir, "required", "session directory must be set")
	} else if info, err := os.Stat(cfg.SessionDir); err == nil && !info.IsDir() {
		result.AddError("session.dir", cfg.SessionDir, "directory", "session path exists and is not a directory")
	}

	if cfg.SessionPattern != "" && strings.Contains(fmt.Sprintf(cfg.SessionPattern, 1), "%!") {
		result.AddError("session.pattern", cfg.SessionPattern, "format", "pattern needs exactly one integer verb such as %04d")
	}
}

func (cv *ConfigValidator) validateCamera(cfg RunConfig, result *ValidationResult) {
	if cfg.Latency < 0 {
		result.AddError("camera.latency", cfg.Latency, "non_negative", "latency cannot be negative")
	} else if cfg.Latency > 30*time.Second {
		result.AddWarning(fmt.Sprintf("camera latency %v is unusually long", cfg.Latency))
	}
}

func (cv *ConfigValidator) validateShooter(cfg RunConfig, result *ValidationResult) {
	if cfg.ShotCount < plugins.MinShotCount || cfg.ShotCount > plugins.MaxShotCount {
		result.AddError(plugins.KeyShotCount, cfg.ShotCount, "range",
			fmt.Sprintf("must be between %d and %d", plugins.MinShotCount, plugins.MaxShotCount))
	}
	if cfg.ShotInterval < 0 || cfg.ShotInterval > plugins.MaxShotInterval {
		result.AddError(plugins.KeyShotInterval, cfg.ShotInterval, "range",
			fmt.Sprintf("must be between 0 and %d seconds", plugins.MaxShotInterval))
	}
	if cfg.ShotInterval == 0 && cfg.ShotCount > 100 {
		result.AddWarning(fmt.Sprintf("%d back-to-back shots with no interval may fill the camera buffer", cfg.ShotCount))
	}
}
