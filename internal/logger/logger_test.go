package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gentlyventures/harboragent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildJSON(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, config.Log{Level: "warn", Format: "json"}, "test")

	log.Info().Msg("dropped")
	log.Warn().Str("session_id", "cs_1").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "cs_1", entry["session_id"])
	assert.Equal(t, "test", entry["env"])
}

func TestBuildBadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, config.Log{Level: "loud"}, "test")

	log.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}
