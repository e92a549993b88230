package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("checkout", "info", &buf)
	l.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "checkout", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("checkout", "warn", &buf)
	l.Info("dropped")
	assert.Empty(t, buf.String())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", CorrelationIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestWithContext_EnrichesFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("checkout", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-1")
	ctx = WithCustomerID(ctx, "cust-9")

	WithContext(ctx, base).Info("enriched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-1", entry["correlation_id"])
	assert.Equal(t, "cust-9", entry["customer_id"])
}

func TestFromContext_Default(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	l := NewWithWriter("checkout", "info", &bytes.Buffer{})
	ctx := NewContext(context.Background(), l)
	assert.Equal(t, l, FromContext(ctx))
}
