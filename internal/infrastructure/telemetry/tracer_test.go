package telemetry

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{ServiceName: "storefront"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	// the gRPC exporter connects lazily, so no collector is needed
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		Insecure:          true,
		SamplingRatio:     0.5,
		ServiceName:       "storefront",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tp.Shutdown(ctx)
}

func TestSampler(t *testing.T) {
	cases := map[float64]string{
		1:   "ParentBased{root:AlwaysOnSampler",
		0:   "ParentBased{root:AlwaysOffSampler",
		0.2: "ParentBased{root:TraceIDRatioBased{0.2}",
	}
	for ratio, prefix := range cases {
		assert.Contains(t, sampler(ratio).Description(), prefix)
	}
	var _ sdktrace.Sampler = sampler(0.5)
}
