package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanSourcePath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		prefix string
		want   string
	}{
		{"module prefix", "/home/dev/zenbild-web/internal/handlers/auth.go", "/zenbild-web/", "internal/handlers/auth.go"},
		{"gopath", "/root/go/src/example.com/x/y.go", "/other/", "example.com/x/y.go"},
		{"src dir", "/opt/src/pkg/y.go", "/other/", "pkg/y.go"},
		{"unchanged", "/opt/pkg/y.go", "/other/", "/opt/pkg/y.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanSourcePath(tt.path, tt.prefix))
		})
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var debugOut, jsonOut bytes.Buffer
	logger := slog.New(NewHandler(slog.LevelInfo, &debugOut, &jsonOut))

	logger.Debug("hidden")
	logger.Info("request handled", "status", 302)

	assert.Empty(t, debugOut.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &entry))
	assert.Equal(t, "request handled", entry["msg"])
	assert.EqualValues(t, 302, entry["status"])
}

func TestNewHandler_Debug(t *testing.T) {
	var debugOut, jsonOut bytes.Buffer
	logger := slog.New(NewHandler(slog.LevelDebug, &debugOut, &jsonOut))

	logger.Debug("callback accepted", "error", errors.New("boom"))

	assert.Empty(t, jsonOut.String())
	assert.Contains(t, debugOut.String(), "callback accepted")
	assert.Contains(t, debugOut.String(), "boom")
}
