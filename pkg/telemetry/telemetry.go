package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"fuzzplot/config"
)

type Telemetry interface {
	GetTracer() trace.Tracer
	// GetLogger is nil when the log exporter could not be created
	GetLogger() log.Logger
}

type otlpTelemetry struct {
	tracer trace.Tracer
	logger log.Logger
}

func (t *otlpTelemetry) GetTracer() trace.Tracer { return t.tracer }
func (t *otlpTelemetry) GetLogger() log.Logger   { return t.logger }

type TelemetryParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Config    *config.AppConfig
}

// NewTelemetry exports run spans and mirrored logs to the collector at
// OTEL_EXPORTER_OTLP_ENDPOINT. Without an endpoint it returns nil and
// consumers fall back to no-ops.
func NewTelemetry(p TelemetryParams) (Telemetry, error) {
	endpoint := p.Config.OtelEndpoint
	if endpoint == "" {
		return nil, nil
	}
	res := resource.NewWithAttributes(semconv.SchemaURL,
		attribute.String("service.name", p.Config.ServiceName))

	traceProvider, err := newTraceProvider(endpoint, res)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	shutdowns := []func(context.Context) error{traceProvider.Shutdown}
	telem := &otlpTelemetry{tracer: traceProvider.Tracer(p.Config.ServiceName)}

	// the log SDK is still beta, run without log export if it fails
	if logProvider, err := newLoggerProvider(endpoint, res); err == nil {
		shutdowns = append(shutdowns, logProvider.Shutdown)
		telem.logger = logProvider.Logger(p.Config.ServiceName)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			var errs []error
			for _, shutdown := range shutdowns {
				errs = append(errs, shutdown(ctx))
			}
			return errors.Join(errs...)
		},
	})
	return telem, nil
}

func newTraceProvider(endpoint string, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(context.Background(), otlptracegrpc.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func newLoggerProvider(endpoint string, res *resource.Resource) (*sdklog.LoggerProvider, error) {
	exporter, err := otlploggrpc.New(context.Background(), otlploggrpc.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}
	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	), nil
}
