package logging

import "fmt"

// LogTemplate represents a logging template with standardized emoji and formatting
type LogTemplate struct {
	emoji  string
	prefix string
	level  LogLevel
}

// LogLevel represents the logging level for templates
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelSuccess
	LevelWarn
	LevelError
	LevelDebug
)

// Common logging templates with standardized emojis and formats
var (
	CaptureTemplate  = LogTemplate{emoji: "📸", prefix: "Capturing", level: LevelInfo}
	PreviewTemplate  = LogTemplate{emoji: "👁️", prefix: "Previewing", level: LevelInfo}
	WaitTemplate     = LogTemplate{emoji: "⏳", prefix: "Waiting", level: LevelInfo}
	SaveTemplate     = LogTemplate{emoji: "💾", prefix: "Saved", level: LevelSuccess}
	DiscardTemplate  = LogTemplate{emoji: "🗑️", prefix: "Discarded", level: LevelWarn}
	StartTemplate    = LogTemplate{emoji: "🚀", prefix: "Starting", level: LevelInfo}
	CompleteTemplate = LogTemplate{emoji: "✓", prefix: "Completed", level: LevelSuccess}
	CancelTemplate   = LogTemplate{emoji: "🛑", prefix: "Cancelled", level: LevelWarn}
	FailTemplate     = LogTemplate{emoji: "✗", prefix: "Failed", level: LevelError}
	SelectTemplate   = LogTemplate{emoji: "🎯", prefix: "Selected", level: LevelDebug}
)

// Format formats the template with the provided message
func (t LogTemplate) Format(message string) string {
	if t.prefix != "" {
		return fmt.Sprintf("%s %s: %s", t.emoji, t.prefix, message)
	}
	return fmt.Sprintf("%s %s", t.emoji, message)
}

// Log logs the message using the appropriate logging function based on level
func (t LogTemplate) Log(message string) {
	formatted := t.Format(message)
	switch t.level {
	case LevelInfo:
		UserInfof("%s", formatted)
	case LevelSuccess:
		Successf("%s", formatted)
	case LevelWarn:
		UserWarnf("%s", formatted)
	case LevelError:
		UserErrorf("%s", formatted)
	case LevelDebug:
		Debug(formatted)
	}
}

// Logf logs the message using printf-style formatting
func (t LogTemplate) Logf(format string, args ...interface{}) {
	t.Log(fmt.Sprintf(format, args...))
}

// Capture logs the start of a capture
func Capture(camera string) {
	CaptureTemplate.Log(camera)
}

// Preview logs a live-view fetch
func Preview(camera string) {
	PreviewTemplate.Log(camera)
}

// Selected logs the script chosen for a run
func Selected(title string) {
	SelectTemplate.Log(title)
}

// WaitFor logs an interval wait
func WaitFor(duration string) {
	WaitTemplate.Log(duration)
}

// SaveFile logs file save operation
func SaveFile(path string, details string) {
	if details != "" {
		SaveTemplate.Logf("%s (%s)", path, details)
	} else {
		SaveTemplate.Log(path)
	}
}

// Discard logs a capture thrown away after cancellation
func Discard(name string) {
	DiscardTemplate.Log(name)
}

// Start logs script start
func Start(script string) {
	StartTemplate.Log(script)
}

// Complete logs successful completion
func Complete(script string) {
	CompleteTemplate.Log(script)
}

// Cancelled logs a cancelled run
func Cancelled(script string) {
	CancelTemplate.Log(script)
}

// Fail logs operation failure
func Fail(operation string, reason string) {
	if reason != "" {
		FailTemplate.Logf("%s: %s", operation, reason)
	} else {
		FailTemplate.Log(operation)
	}
}
