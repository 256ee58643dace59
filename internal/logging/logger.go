package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// LevelTrace sits below slog.LevelDebug for very chatty camera driver output
const LevelTrace = slog.Level(-8)

var (
	// Minimum level the handler lets through
	minLevel = slog.LevelInfo

	// Default logger instance
	logger *slog.Logger

	// Where user-facing messages go
	userOut io.Writer = os.Stdout

	// Colors for different log levels
	infoColor    = color.New(color.FgGreen).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	debugColor   = color.New(color.FgCyan).SprintFunc()
	traceColor   = color.New(color.FgMagenta).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// ColorTextHandler is a simple handler that adds colors to log output
type ColorTextHandler struct {
	w     io.Writer
	attrs []slog.Attr
}

// NewColorTextHandler creates a new ColorTextHandler
func NewColorTextHandler(w io.Writer) *ColorTextHandler {
	return &ColorTextHandler{w: w}
}

// Handle handles the log record
func (h *ColorTextHandler) Handle(ctx context.Context, r slog.Record) error {
	var levelText string
	switch {
	case r.Level < slog.LevelDebug:
		levelText = traceColor("TRACE")
	case r.Level == slog.LevelDebug:
		levelText = debugColor("DEBUG")
	case r.Level == slog.LevelInfo:
		levelText = infoColor("INFO")
	case r.Level == slog.LevelWarn:
		levelText = warnColor("WARN")
	case r.Level == slog.LevelError:
		levelText = errorColor("ERROR")
	default:
		levelText = r.Level.String()
	}

	var attrs strings.Builder
	for _, a := range h.attrs {
		attrs.WriteString(" " + a.Key + "=" + formatAttrValue(a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "source" {
			return true
		}
		attrs.WriteString(" " + a.Key + "=" + formatAttrValue(a.Value))
		return true
	})

	// Leading carriage return keeps the line clean when a spinner is drawing
	_, err := fmt.Fprintf(h.w, "\r%s %s%s\n", levelText, r.Message, attrs.String())
	return err
}

// formatAttrValue formats a slog.Value as a string
func formatAttrValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case slog.KindUint64:
		return fmt.Sprintf("%d", v.Uint64())
	case slog.KindFloat64:
		return fmt.Sprintf("%f", v.Float64())
	case slog.KindBool:
		return fmt.Sprintf("%t", v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format("15:04:05")
	case slog.KindAny:
		return fmt.Sprintf("%v", v.Any())
	default:
		return v.String()
	}
}

// WithAttrs returns a new handler with the given attributes
func (h *ColorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ColorTextHandler{w: h.w, attrs: merged}
}

// WithGroup returns a new handler with the given group
func (h *ColorTextHandler) WithGroup(name string) slog.Handler {
	return h
}

// Enabled reports whether the handler handles records at the given level
func (h *ColorTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= minLevel
}

// ParseLevel maps a --log-level string onto a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// InitWithLevel initializes the logger from a level name, falling back to info
func InitWithLevel(level string) {
	lvl, err := ParseLevel(level)
	minLevel = lvl

	logger = slog.New(NewColorTextHandler(os.Stderr))
	slog.SetDefault(logger)

	if err != nil {
		Warn("Falling back to info logging", "error", err)
	}
}

// SetOutput sets the output writer for the logger and user messages
func SetOutput(w io.Writer) {
	logger = slog.New(NewColorTextHandler(w))
	slog.SetDefault(logger)
	userOut = w
}

// Silence discards all output until the returned restore func is called
func Silence() (restore func()) {
	prevLogger, prevOut := slog.Default(), userOut
	logger = slog.New(NewColorTextHandler(io.Discard))
	slog.SetDefault(logger)
	userOut = io.Discard
	return func() {
		logger, userOut = prevLogger, prevOut
		slog.SetDefault(logger)
	}
}

// Trace logs a trace message
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}

// UserInfof prints a plain message for the person at the terminal
func UserInfof(format string, args ...any) {
	fmt.Fprintf(userOut, "\r"+format+"\n", args...)
}

// UserWarnf prints a highlighted warning for the person at the terminal
func UserWarnf(format string, args ...any) {
	fmt.Fprintf(userOut, "\r%s\n", warnColor(fmt.Sprintf(format, args...)))
}

// UserErrorf prints a highlighted error for the person at the terminal
func UserErrorf(format string, args ...any) {
	fmt.Fprintf(userOut, "\r%s\n", errorColor(fmt.Sprintf(format, args...)))
}

// Successf prints a success message for the person at the terminal
func Successf(format string, args ...any) {
	fmt.Fprintf(userOut, "\r%s\n", successColor(fmt.Sprintf(format, args...)))
}

// ContextualLogger carries component and operation attributes on every line
type ContextualLogger struct {
	l *slog.Logger
}

// NewContextualLogger creates a logger tagged with a component and operation
func NewContextualLogger(component, operation string) *ContextualLogger {
	return &ContextualLogger{
		l: slog.Default().With("component", component, "op", operation),
	}
}

// With returns a child logger carrying extra attributes
func (c *ContextualLogger) With(args ...any) *ContextualLogger {
	return &ContextualLogger{l: c.l.With(args...)}
}

func (c *ContextualLogger) Debug(msg string, args ...any) { c.l.Debug(msg, args...) }
func (c *ContextualLogger) Info(msg string, args ...any)  { c.l.Info(msg, args...) }
func (c *ContextualLogger) Warn(msg string, args ...any)  { c.l.Warn(msg, args...) }
func (c *ContextualLogger) Error(msg string, args ...any) { c.l.Error(msg, args...) }

// LogOperation runs fn and logs its duration and outcome at debug level
func LogOperation(operation, target string, fn func() error) error {
	start := time.Now()
	Debug("Operation started", "operation", operation, "target", target)

	err := fn()
	if err != nil {
		Debug("Operation failed", "operation", operation, "target", target,
			"duration", time.Since(start), "error", err)
		return err
	}

	Debug("Operation completed", "operation", operation, "target", target,
		"duration", time.Since(start))
	return nil
}

// LogCapture records a finished capture with its saved location
func LogCapture(camera, path string, size int, elapsed time.Duration) {
	Debug("Capture stored",
		"camera", camera,
		"path", path,
		"bytes", size,
		"elapsed", elapsed)
}
