package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":    slog.LevelError,
		" WARN ":   slog.LevelWarn,
		"warning":  slog.LevelWarn,
		"info":     slog.LevelInfo,
		"debug":    slog.LevelDebug,
		"verbose?": slog.LevelDebug,
	}
	for in, want := range cases {
		assert.Equal(t, want, levelFromString(in), in)
	}
}

func TestComponentTagsRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Component(NewWithWriter(&buf, "info", ""), "curator")
	logger.Debug("hidden")
	logger.Info("batch rated", "items", 15)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "component=curator")
	assert.Contains(t, out, "items=15")
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Component(NewWithWriter(&buf, "warn", "JSON"), "pipeline").Warn("run failed", "run_id", "r1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "run failed", record["msg"])
	assert.Equal(t, "pipeline", record["component"])
	assert.Equal(t, "r1", record["run_id"])
}
