package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeeftor/tether/internal/constants"
)

// CommonTUIState holds state common to all TUI models
type CommonTUIState struct {
	Width     int
	Height    int
	Quitting  bool
	StartTime time.Time
}

// BaseTUIModel provides common functionality for all TUI models
type BaseTUIModel struct {
	State *CommonTUIState
}

// NewBaseTUIModel creates a new base TUI model
func NewBaseTUIModel() *BaseTUIModel {
	return &BaseTUIModel{
		State: &CommonTUIState{
			Width:     80,
			Height:    24,
			StartTime: time.Now(),
		},
	}
}

// HandleWindowResize handles window resize messages consistently
func (b *BaseTUIModel) HandleWindowResize(msg tea.WindowSizeMsg) {
	b.State.Width = msg.Width
	b.State.Height = msg.Height
}

// IsQuitting returns true if the TUI is in quitting state
func (b *BaseTUIModel) IsQuitting() bool {
	return b.State.Quitting
}

// GetUptime returns the time elapsed since the TUI started
func (b *BaseTUIModel) GetUptime() time.Duration {
	return time.Since(b.State.StartTime)
}

// TickCmd returns a command that sends a tick while a script runs
func (b *BaseTUIModel) TickCmd() tea.Cmd {
	return tea.Tick(constants.StatusTickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// TickMsg drives elapsed-time refreshes
type TickMsg time.Time

// LogEntry represents a log entry with timestamp and content
type LogEntry struct {
	Timestamp time.Time
	Content   string
	Level     LogLevel
}

// LogLevel represents the severity of a log entry
type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarn
	LogLevelError
	LogLevelSuccess
)

// LogManager handles log entries with automatic pruning
type LogManager struct {
	entries []LogEntry
	maxSize int
}

// NewLogManager creates a new log manager with the specified maximum size
func NewLogManager(maxSize int) *LogManager {
	return &LogManager{
		entries: make([]LogEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add adds a new log entry, pruning old entries if necessary
func (lm *LogManager) Add(content string, level LogLevel) {
	lm.entries = append(lm.entries, LogEntry{
		Timestamp: time.Now(),
		Content:   content,
		Level:     level,
	})

	if len(lm.entries) > lm.maxSize {
		lm.entries = lm.entries[1:]
	}
}

// GetEntries returns all log entries
func (lm *LogManager) GetEntries() []LogEntry {
	return lm.entries
}

// GetRecentEntries returns the most recent N entries
func (lm *LogManager) GetRecentEntries(n int) []LogEntry {
	if n >= len(lm.entries) {
		return lm.entries
	}
	return lm.entries[len(lm.entries)-n:]
}
