package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	color.NoColor = true

	prevLevel := minLevel
	restore := Silence()
	t.Cleanup(func() {
		restore()
		minLevel = prevLevel
	})

	var buf bytes.Buffer
	SetOutput(&buf)
	minLevel = level
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{" info ", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHandlerFormatsAttrs(t *testing.T) {
	buf := captureOutput(t, slog.LevelDebug)

	NewContextualLogger("automata", "capture").With("camera", "Sim").Debug("Shutter released", "shot", 3)

	assert.Equal(t, "\rDEBUG Shutter released component=automata op=capture camera=Sim shot=3\n", buf.String())
}

func TestHandlerFiltersLevel(t *testing.T) {
	buf := captureOutput(t, slog.LevelWarn)

	Debug("hidden")
	Info("hidden")
	Trace("hidden")
	Warn("shown")

	assert.Equal(t, "\rWARN shown\n", buf.String())
}

func TestTraceLevel(t *testing.T) {
	buf := captureOutput(t, LevelTrace)

	Trace("exposure")
	assert.Contains(t, buf.String(), "TRACE exposure")
}

func TestTemplates(t *testing.T) {
	buf := captureOutput(t, slog.LevelInfo)

	SaveFile("session/capture-0001.pgm", "")
	Fail("Repeat shooter", "card full")
	Selected("Repeat shooter") // debug level, filtered

	out := buf.String()
	assert.Contains(t, out, "💾 Saved: session/capture-0001.pgm")
	assert.Contains(t, out, "✗ Failed: Repeat shooter: card full")
	assert.NotContains(t, out, "Selected")
}

func TestLogOperation(t *testing.T) {
	captureOutput(t, slog.LevelDebug)

	require.NoError(t, LogOperation("write", "config", func() error { return nil }))

	boom := errors.New("disk full")
	assert.ErrorIs(t, LogOperation("write", "config", func() error { return boom }), boom)
}

func TestSilence(t *testing.T) {
	buf := captureOutput(t, slog.LevelInfo)

	restore := Silence()
	Info("dropped")
	Successf("dropped")
	restore()
	Info("kept")

	assert.Equal(t, "\rINFO kept\n", buf.String())
}
