package logger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fuzzplot/config"
	"fuzzplot/pkg/telemetry"
)

type LoggerParams struct {
	fx.In
	Lc        fx.Lifecycle
	AppConfig *config.AppConfig
	Telemetry telemetry.Telemetry `optional:"true"`
}

// NewLogger builds a development logger for info/debug and a production one for
// warn/error. With telemetry enabled every entry is also emitted as an otel log record.
func NewLogger(p LoggerParams) *zap.Logger {
	loggerCtx, cancel := context.WithCancel(context.Background())
	p.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})

	level := parseLevel(p.AppConfig.LogLevel)
	var cfg zap.Config
	if level > zapcore.InfoLevel {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	if p.Telemetry == nil || p.Telemetry.GetLogger() == nil {
		lg, err := cfg.Build()
		if err != nil {
			// log failed to build, return a default one
			return zap.NewExample()
		}
		return lg
	}

	lg, err := cfg.Build(
		zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return &telemetryCore{
				Core:  core,
				telem: p.Telemetry,
				ctx:   loggerCtx,
				attrsBase: []attribute.KeyValue{
					attribute.String("plot.action.name", "fuzzplot_log"),
					attribute.String("service.name", p.AppConfig.ServiceName),
				},
			}
		}),
		zap.AddCaller(),
	)
	if err != nil {
		lg, err := cfg.Build()
		if err != nil {
			// log failed to build, return a default one
			return zap.NewExample()
		}
		return lg
	}
	lg.Debug("logger with telemetry enabled")
	return lg
}

// parseLevel falls back to info for unknown names
func parseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// telemetryCore decorates a zapcore.Core to emit both through the original core
// and into OpenTelemetry, converting each zap.Field into an attribute.
type telemetryCore struct {
	zapcore.Core
	telem     telemetry.Telemetry
	ctx       context.Context
	attrsBase []attribute.KeyValue
}

// With keeps the wrapper on child cores created by logger.With(...)
func (t *telemetryCore) With(fields []zapcore.Field) zapcore.Core {
	return &telemetryCore{
		Core:      t.Core.With(fields),
		telem:     t.telem,
		ctx:       t.ctx,
		attrsBase: t.attrsBase,
	}
}

// Check adds this core, not the inner one, to the CheckedEntry
func (t *telemetryCore) Check(ent zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if t.Enabled(ent.Level) {
		return checked.AddCore(ent, t)
	}
	return checked
}

func (t *telemetryCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if err := t.Core.Write(ent, fields); err != nil {
		return err
	}

	rec := log.Record{}
	rec.SetTimestamp(ent.Time)
	rec.SetBody(log.StringValue(ent.Message))
	rec.SetSeverityText(ent.Level.String())
	for _, attr := range t.attrsBase {
		rec.AddAttributes(log.KeyValueFromAttribute(attr))
	}
	rec.AddAttributes(fieldsToLog(fields)...)

	t.telem.GetLogger().Emit(t.ctx, rec)
	return nil
}

// fieldsToLog lets zap encode the fields, then maps the scalar results onto
// log values. Anything else is kept as its printed form.
func fieldsToLog(fields []zapcore.Field) []log.KeyValue {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	kvs := make([]log.KeyValue, 0, len(enc.Fields))
	for key, value := range enc.Fields {
		switch v := value.(type) {
		case string:
			kvs = append(kvs, log.String(key, v))
		case bool:
			kvs = append(kvs, log.Bool(key, v))
		case float64:
			kvs = append(kvs, log.Float64(key, v))
		case float32:
			kvs = append(kvs, log.Float64(key, float64(v)))
		case int:
			kvs = append(kvs, log.Int(key, v))
		case int64:
			kvs = append(kvs, log.Int64(key, v))
		case int32, int16, int8, uint32, uint16, uint8:
			kvs = append(kvs, log.Int64(key, toInt64(v)))
		case time.Duration:
			kvs = append(kvs, log.String(key, v.String()))
		default:
			kvs = append(kvs, log.String(key, fmt.Sprint(v)))
		}
	}
	return kvs
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int8:
		return int64(n)
	case uint32:
		return int64(n)
	case uint16:
		return int64(n)
	case uint8:
		return int64(n)
	}
	return 0
}
