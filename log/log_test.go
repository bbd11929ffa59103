package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestTerminalHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTerminalHandler(&buf, false))

	logger.Info("conversion done", "records", 3, "gas", uint256.NewInt(21000))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "INFO "), out)
	assert.Contains(t, out, "conversion done")
	assert.Contains(t, out, "records=3")
	assert.Contains(t, out, "gas=21000")
}

func TestTerminalHandlerQuoting(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTerminalHandler(&buf, false))

	logger.Warn("bad input", "reason", "no successor frame")
	assert.Contains(t, buf.String(), `reason="no successor frame"`)
}

func TestHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTerminalHandlerWithLevel(&buf, Verbosity(2), false))

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	SetRootHandler(NewTerminalHandler(&buf, false))

	WithContext("pkg", "flat").Info("hello")
	assert.Contains(t, buf.String(), "pkg=flat")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
}
