package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestSpanAttributes(t *testing.T) {
	attrs := NewSpanAttributes(Extraction).
		WithRunId("run-1").
		WithSources([]string{"a/fuzz_log.txt"}).
		WithSeriesCount(2)

	assert.Equal(t, []attribute.KeyValue{
		attribute.String("plot.action.category", "extraction"),
		attribute.String("plot.run.id", "run-1"),
		attribute.StringSlice("plot.sources", []string{"a/fuzz_log.txt"}),
		attribute.Int("plot.series.count", 2),
	}, attrs.Attributes())
}

func TestSpanAttributesMerge(t *testing.T) {
	base := NewSpanAttributes(Rendering).WithJob("runs").WithExtraAttributes(map[string]any{"k": "kept"})
	base.Merge(EmptySpanAttributes().
		WithJob("throughput").
		WithPointCount(7).
		WithExtraAttributes(map[string]any{"k": "dropped", "n": 1}))

	got := base.Attributes()
	assert.Contains(t, got, attribute.String("plot.action.category", "rendering"))
	assert.Contains(t, got, attribute.String("plot.job", "runs"), "set values win")
	assert.Contains(t, got, attribute.Int("plot.points.count", 7))
	assert.Contains(t, got, attribute.String("k", "kept"))
	assert.Contains(t, got, attribute.Int("n", 1))

	base.Merge(NewSpanAttributes(Publishing))
	assert.Equal(t, "publishing", base.ActionCategory)
	base.Merge(nil)
}

func TestDummyTracer(t *testing.T) {
	tracer := NewTracerFactory(TracerFactoryParams{}).NewTracer(context.Background(), "plot_runs")
	assert.IsType(t, &DummyTracer{}, tracer)

	tracer.Start()
	child := tracer.WithAttributes(NewSpanAttributes(Rendering)).Spawn("extract")
	child.AddEvent("parsed", NewEventAttributes(map[string]string{"file": "x"}))
	child.SetStatus(codes.Ok, "")
	child.End()
	assert.Empty(t, tracer.Export())
	tracer.End()
}
