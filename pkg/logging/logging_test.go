package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"json debug", Config{Level: "debug", Format: FormatJSON}, false},
		{"bad level", Config{Level: "loud", Format: FormatJSON}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeLog, err := New(Config{Level: "warn", Format: FormatJSON}, &buf)
	require.NoError(t, err)
	defer closeLog()

	logger.Info().Msg("hidden")
	logger.Warn().Str("source", "mangadex").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "mangadex", entry["source"])
	assert.Contains(t, entry, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(DefaultConfig(), &buf)
	require.NoError(t, err)

	logger.Info().Msg("sources loaded")
	assert.Contains(t, buf.String(), "sources loaded")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mangadesk.log")
	var buf bytes.Buffer

	logger, closeLog, err := New(Config{Level: "info", Format: FormatJSON, File: path}, &buf)
	require.NoError(t, err)
	logger.Info().Msg("to file")
	require.NoError(t, closeLog())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "to file")
	assert.Zero(t, buf.Len())
}

func TestNewInvalid(t *testing.T) {
	_, closeLog, err := New(Config{Level: "nope", Format: FormatJSON}, &bytes.Buffer{})
	assert.Error(t, err)
	assert.NoError(t, closeLog())
}
