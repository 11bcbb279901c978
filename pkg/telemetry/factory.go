package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// Tracer wraps one span; child spans come from Spawn
type Tracer interface {
	Start()
	WithAttributes(attributes *SpanAttributes) Tracer
	AddEvent(name string, attributes EventAttributes)
	SetStatus(code codes.Code, message string)
	Spawn(spanName string) Tracer
	// Export returns the propagation carrier of the span as JSON
	Export() string
	End()
}

type TracerFactory struct {
	tracer trace.Tracer // nil without telemetry
}

type TracerFactoryParams struct {
	fx.In
	Telemetry Telemetry `optional:"true"`
}

func NewTracerFactory(p TracerFactoryParams) *TracerFactory {
	f := &TracerFactory{}
	if p.Telemetry != nil {
		f.tracer = p.Telemetry.GetTracer()
	}
	return f
}

func (f *TracerFactory) NewTracer(ctx context.Context, spanName string) Tracer {
	if f == nil || f.tracer == nil {
		return &DummyTracer{}
	}
	return NewTelemetryTracer(ctx, f.tracer, spanName)
}

// DummyTracer stands in when telemetry is off
type DummyTracer struct{}

func (*DummyTracer) Start()                                  {}
func (d *DummyTracer) WithAttributes(*SpanAttributes) Tracer { return d }
func (*DummyTracer) AddEvent(string, EventAttributes)        {}
func (*DummyTracer) SetStatus(codes.Code, string)            {}
func (d *DummyTracer) Spawn(string) Tracer                   { return d }
func (*DummyTracer) Export() string                          { return "" }
func (*DummyTracer) End()                                    {}
