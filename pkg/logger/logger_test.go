package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.WithField("kind", "search_req").Info("request validated", "errors", 0)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "request validated", entry["msg"])
	assert.Equal(t, "search_req", entry["kind"])
	assert.Equal(t, float64(0), entry["errors"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "json", Output: &buf})

	log.Info("dropped")
	log.Debug("dropped")
	assert.Zero(t, buf.Len())

	log.Error(errors.New("boom"), "search failed")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "boom", entry["error"])
}

func TestWithContextRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))

	log.WithContext(ctx).Debug("stage done")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])

	assert.Same(t, log, log.WithContext(context.Background()))
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Format: "text", Output: &buf}).Info("hello", "city", "MCO")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "city=MCO")
}
