package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-report-engine/internal/logger"
)

func TestInitEnablesRecordingSpans(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "true")
	// Same boot order as cmd/server: logger first, then the tracer.
	require.NoError(t, logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"}))
	require.NoError(t, Init())
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	ctx, span := StartSpan(context.Background(), "ingest-daily")
	defer span.End()

	assert.True(t, Enabled())
	assert.True(t, span.IsRecording())
	assert.True(t, span.SpanContext().IsValid())

	traceID, spanID, ok := GetTraceFields(ctx)
	require.True(t, ok)
	assert.NotEmpty(t, traceID)
	assert.NotEmpty(t, spanID)
}

func TestStartSpanDisabled(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "false")
	require.NoError(t, Init())

	ctx, span := StartSpan(context.Background(), "ingest-daily")
	assert.False(t, span.IsRecording())
	assert.False(t, span.SpanContext().IsValid())

	_, _, ok := GetTraceFields(ctx)
	assert.False(t, ok)
}
