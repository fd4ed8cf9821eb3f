package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Disabled(t *testing.T) {
	tp, err := NewProvider(context.Background(), ExporterConfig{Protocol: "carrier-pigeon"})
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewProvider_UnsupportedProtocol(t *testing.T) {
	_, err := NewProvider(context.Background(), ExporterConfig{Enabled: true, Protocol: "carrier-pigeon"})
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestNewProvider_HTTP(t *testing.T) {
	tp, err := NewProvider(context.Background(), ExporterConfig{Enabled: true, Protocol: "http", Endpoint: "localhost:4318", Insecure: true})
	require.NoError(t, err)
	require.NotNil(t, tp)
}

func TestSpans(t *testing.T) {
	tp, err := NewProvider(context.Background(), ExporterConfig{})
	require.NoError(t, err)
	SetTracer(tp.Tracer("test"))
	defer SetTracer(nil)

	ctx, span := StartSpan(context.Background(), "op")
	defer span.End()

	assert.Len(t, GetTraceID(ctx), 32)
	assert.Empty(t, GetTraceID(context.Background()))

	RecordError(span, errors.New("boom"))
	RecordError(nil, errors.New("ignored"))
	SetAttributes(span, map[string]string{"traveler_id": "t-1"})
}
