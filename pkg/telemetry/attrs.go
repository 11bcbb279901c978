package telemetry

import (
	"fmt"
	"maps"

	"go.opentelemetry.io/otel/attribute"
)

type ActionCategory int

const (
	Extraction ActionCategory = iota
	Rendering
	Publishing
)

func (a ActionCategory) String() string {
	switch a {
	case Extraction:
		return "extraction"
	case Rendering:
		return "rendering"
	case Publishing:
		return "publishing"
	default:
		return "unknown"
	}
}

type SpanAttributes struct {
	ActionCategory string

	RunId       optional[string]   // plot.run.id
	Job         optional[string]   // plot.job
	Renderer    optional[string]   // plot.renderer
	Output      optional[string]   // plot.output
	Sources     optional[[]string] // plot.sources
	seriesCount optional[int]      // plot.series.count
	pointCount  optional[int]      // plot.points.count

	extraAttributes map[string]any
}

func NewSpanAttributes(actionCategory ActionCategory) *SpanAttributes {
	return &SpanAttributes{
		ActionCategory:  actionCategory.String(),
		extraAttributes: make(map[string]any),
	}
}

// returns an empty SpanAttributes to be populated later
func EmptySpanAttributes() *SpanAttributes {
	return &SpanAttributes{
		extraAttributes: make(map[string]any),
	}
}

// Merge copies values that are set in other and unset in o.
// ActionCategory is always taken from other when present.
func (o *SpanAttributes) Merge(other *SpanAttributes) {
	if other == nil {
		return
	}

	if other.ActionCategory != "" {
		o.ActionCategory = other.ActionCategory
	}

	mergeOptional(&o.RunId, &other.RunId)
	mergeOptional(&o.Job, &other.Job)
	mergeOptional(&o.Renderer, &other.Renderer)
	mergeOptional(&o.Output, &other.Output)
	mergeOptional(&o.Sources, &other.Sources)
	mergeOptional(&o.seriesCount, &other.seriesCount)
	mergeOptional(&o.pointCount, &other.pointCount)

	if o.extraAttributes == nil {
		o.extraAttributes = make(map[string]any)
	}
	for k, v := range other.extraAttributes {
		if _, exists := o.extraAttributes[k]; !exists {
			o.extraAttributes[k] = v
		}
	}
}

func (o *SpanAttributes) WithRunId(val string) *SpanAttributes {
	o.RunId.Set(val)
	return o
}

func (o *SpanAttributes) WithJob(val string) *SpanAttributes {
	o.Job.Set(val)
	return o
}

func (o *SpanAttributes) WithRenderer(val string) *SpanAttributes {
	o.Renderer.Set(val)
	return o
}

func (o *SpanAttributes) WithOutput(val string) *SpanAttributes {
	o.Output.Set(val)
	return o
}

func (o *SpanAttributes) WithSources(val []string) *SpanAttributes {
	o.Sources.Set(val)
	return o
}

func (o *SpanAttributes) WithSeriesCount(val int) *SpanAttributes {
	o.seriesCount.Set(val)
	return o
}

func (o *SpanAttributes) WithPointCount(val int) *SpanAttributes {
	o.pointCount.Set(val)
	return o
}

func (o *SpanAttributes) WithExtraAttributes(attrs map[string]any) *SpanAttributes {
	if o.extraAttributes == nil {
		o.extraAttributes = make(map[string]any)
	}
	maps.Copy(o.extraAttributes, attrs)
	return o
}

func (o SpanAttributes) Attributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	attrs = append(attrs, attribute.String("plot.action.category", o.ActionCategory))
	if o.RunId.set {
		attrs = append(attrs, attribute.String("plot.run.id", o.RunId.val))
	}
	if o.Job.set {
		attrs = append(attrs, attribute.String("plot.job", o.Job.val))
	}
	if o.Renderer.set {
		attrs = append(attrs, attribute.String("plot.renderer", o.Renderer.val))
	}
	if o.Output.set {
		attrs = append(attrs, attribute.String("plot.output", o.Output.val))
	}
	if o.Sources.set {
		attrs = append(attrs, attribute.StringSlice("plot.sources", o.Sources.val))
	}
	if o.seriesCount.set {
		attrs = append(attrs, attribute.Int("plot.series.count", o.seriesCount.val))
	}
	if o.pointCount.set {
		attrs = append(attrs, attribute.Int("plot.points.count", o.pointCount.val))
	}

	for k, v := range o.extraAttributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}

	return attrs
}

type EventAttributes []attribute.KeyValue

func NewEventAttributes(attributes map[string]string) EventAttributes {
	attrs := make(EventAttributes, 0, len(attributes))
	for k, v := range attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}

type optional[T any] struct {
	val T
	set bool
}

func (o *optional[T]) Set(val T) { o.val = val; o.set = true }

func mergeOptional[T any](target, source *optional[T]) {
	if !target.set && source.set {
		target.val = source.val
		target.set = true
	}
}
