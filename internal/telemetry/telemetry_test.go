package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func TestNewDisabled(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, tel)

	assert.False(t, tel.IsEnabled())
	assert.True(t, tel.Health().Healthy)
	assert.False(t, tel.Health().Degraded)

	// No-op providers still hand out usable tracers and meters.
	tracer := tel.Tracer("forge.test")
	require.NotNil(t, tracer)
	_, span := tracer.Start(context.Background(), "noop")
	span.End()

	meter := tel.Meter("forge.test")
	require.NotNil(t, meter)

	assert.NoError(t, tel.ForceFlush(context.Background()))
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = ""

	tel, err := New(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, tel)
	assert.Contains(t, err.Error(), "invalid telemetry config")
}

func TestNewEnabledGRPC(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true
	// Exporters dial lazily; with no spans recorded, shutdown never
	// touches the network.
	cfg.Metrics.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, tel)

	assert.True(t, tel.IsEnabled())
	assert.False(t, tel.Health().Degraded)

	require.NoError(t, tel.Shutdown(context.Background()))
	assert.False(t, tel.IsEnabled())
}

func TestNewEnabledHTTP(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.Protocol = "http"
	cfg.Endpoint = "localhost:4318"
	cfg.Metrics.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, tel.IsEnabled())
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestNilReceiver(t *testing.T) {
	var tel *Telemetry

	assert.NotNil(t, tel.Tracer("x"))
	assert.NotNil(t, tel.Meter("x"))
	assert.Nil(t, tel.LoggerProvider())
	assert.False(t, tel.IsEnabled())
	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.NoError(t, tel.ForceFlush(context.Background()))

	health := tel.Health()
	assert.False(t, health.Healthy)
	assert.True(t, health.Degraded)
}

func TestTestTelemetrySpans(t *testing.T) {
	tt := NewTestTelemetry()

	tracer := tt.Tracer("forge.orchestrator")
	_, span := tracer.Start(context.Background(), "phase.plan",
		oteltrace.WithAttributes(attribute.String("project", "my-app")))
	span.End()

	tt.AssertSpanExists(t, "phase.plan")
	tt.AssertSpanAttribute(t, "phase.plan", "project", "my-app")
	assert.Nil(t, tt.SpanByName("missing"))
}

func TestTestTelemetryMetrics(t *testing.T) {
	tt := NewTestTelemetry()
	ctx := context.Background()

	meter := tt.Meter("forge.llm")
	counter, err := meter.Int64Counter("llm.requests")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	rm, err := tt.CollectMetrics(ctx)
	require.NoError(t, err)
	require.Len(t, rm.ScopeMetrics, 1)
	assert.Equal(t, "llm.requests", rm.ScopeMetrics[0].Metrics[0].Name)
}

func TestSetLoggerProvider(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)

	assert.Nil(t, tel.LoggerProvider())
	tel.SetLoggerProvider(nil)
	assert.Nil(t, tel.LoggerProvider())
}
