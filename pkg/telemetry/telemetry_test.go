package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"fuzzplot/config"
)

func TestNewTelemetryDisabled(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	telem, err := NewTelemetry(TelemetryParams{Lifecycle: lc, Config: &config.AppConfig{}})
	require.NoError(t, err)
	assert.Nil(t, telem)

	factory := NewTracerFactory(TracerFactoryParams{Telemetry: telem})
	assert.IsType(t, &DummyTracer{}, factory.NewTracer(context.Background(), "plot_runs"))
}

func TestNewTelemetryExportsSpans(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	// exporters connect lazily, nothing needs to listen here
	telem, err := NewTelemetry(TelemetryParams{Lifecycle: lc, Config: &config.AppConfig{
		OtelEndpoint: "http://127.0.0.1:4317",
		ServiceName:  "fuzzplot",
	}})
	require.NoError(t, err)
	require.NotNil(t, telem)
	assert.NotNil(t, telem.GetTracer())

	tracer := NewTracerFactory(TracerFactoryParams{Telemetry: telem}).NewTracer(context.Background(), "plot_runs")
	require.IsType(t, &TelemetryTracer{}, tracer)
	tracer.Start()
	child := tracer.Spawn("extract")
	child.Start()
	child.End()
	assert.Contains(t, tracer.Export(), "traceparent")
	tracer.End()
}
