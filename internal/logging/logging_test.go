package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"":         zerolog.WarnLevel,
		"verbose!": zerolog.WarnLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Component(NewWithWriter(Config{Level: "info"}, &buf), "filestore")

	log.Debug().Msg("hidden")
	log.Info().Str("key", "State.1").Msg("loaded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "loaded", line["message"])
	assert.Equal(t, "filestore", line["component"])
	assert.Equal(t, "State.1", line["key"])
	assert.Contains(t, line, "time")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hbnb.log")
	log, err := New(Config{Level: "warn", Output: path})
	require.NoError(t, err)
	log.Warn().Msg("written")
	assert.FileExists(t, path)
}
