package correlation

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}

func TestIDRoundTrip(t *testing.T) {
	_, ok := ID(context.Background())
	assert.False(t, ok)

	_, ok = ID(WithID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := ID(WithID(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
}

func TestHandler_AddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil))).With(slog.String("component", "test"))

	logger.InfoContext(WithID(context.Background(), "req-1"), "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-1", rec["correlation_id"])
	assert.Equal(t, "test", rec["component"])

	buf.Reset()
	logger.Info("no id")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotContains(t, buf.String(), "correlation_id")
}
