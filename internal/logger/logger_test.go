package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Level: "warn", Format: "json"}.New(&buf)

	l.Info().Msg("hidden")
	l.Warn().Str("boundary", "EGTT").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "EGTT", entry["boundary"])
	assert.Equal(t, "shown", entry["message"])
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Level: "debug", NoColor: true}.New(&buf)

	l.Debug().Msg("console line")
	assert.Contains(t, buf.String(), "console line")
	assert.Contains(t, buf.String(), "DBG")
}
