package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, "itemsvc", cfg.ServiceName)
	assert.Equal(t, ExporterOTLPGRPC, cfg.ExporterType)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
}

func TestProvider_StartStop(t *testing.T) {
	t.Parallel()

	provider, err := NewProvider(&Config{
		ServiceName:  "itemsvc-test",
		ExporterType: ExporterNone,
		SampleRate:   1.0,
	}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, provider.Start(ctx))

	tracer := provider.Tracer("test")
	require.NotNil(t, tracer)

	_, span := tracer.Start(ctx, "test-span")
	span.End()

	require.NoError(t, provider.Stop(ctx))
}

func TestProvider_StopWithoutStart(t *testing.T) {
	t.Parallel()

	provider, err := NewProvider(nil, nil)
	require.NoError(t, err)
	assert.NoError(t, provider.Stop(context.Background()))
}

func TestProvider_Sampler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rate float64
	}{
		{name: "always sample", rate: 1.0},
		{name: "never sample", rate: 0},
		{name: "ratio sample", rate: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider, err := NewProvider(&Config{
				ExporterType: ExporterNone,
				SampleRate:   tt.rate,
			}, nil)
			require.NoError(t, err)
			assert.NotNil(t, provider.createSampler())
		})
	}
}

func TestStartSpan(t *testing.T) {
	t.Parallel()

	provider, err := NewProvider(&Config{ExporterType: ExporterNone, SampleRate: 1.0}, nil)
	require.NoError(t, err)
	require.NoError(t, provider.Start(context.Background()))
	defer func() { _ = provider.Stop(context.Background()) }()

	tracer := provider.Tracer(TracerName)

	ctx, span := StartSpan(context.Background(), tracer, "op",
		attribute.String("db.operation", "select"),
	)
	require.NotNil(t, span)
	assert.NotEmpty(t, TraceIDFromContext(ctx))

	EndSpan(span, nil)
}

func TestStartSpan_NilTracerFallsBack(t *testing.T) {
	t.Parallel()

	_, span := StartSpan(context.Background(), nil, "op")
	require.NotNil(t, span)
	EndSpan(span, assert.AnError)
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	t.Parallel()

	assert.Empty(t, TraceIDFromContext(context.Background()))
}
