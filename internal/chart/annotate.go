package chart

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"fuzzplot/internal/series"
	"fuzzplot/internal/types"
)

const (
	annotationDX       = 0.05 // hours
	annotationDY       = 0.3  // metric units
	annotationFontSize = 8
)

// AnnotationRule labels values of selected series at chosen times.
// EveryHours marks N, 2N, ... up to the last whole hour of the series;
// AtHours marks fixed times. Both may be set.
type AnnotationRule struct {
	Series     []string  `yaml:"series"`
	EveryHours float64   `yaml:"every_hours,omitempty"`
	AtHours    []float64 `yaml:"at_hours,omitempty"`
}

func (r AnnotationRule) Matches(name string) bool {
	return slices.Contains(r.Series, name)
}

// Targets lists the times to mark for a series ending at maxHours
func (r AnnotationRule) Targets(maxHours float64) []float64 {
	var targets []float64
	if r.EveryHours > 0 {
		last := math.Floor(maxHours)
		for k := 1; ; k++ {
			t := r.EveryHours * float64(k)
			if t > last {
				break
			}
			targets = append(targets, t)
		}
	}
	return append(targets, r.AtHours...)
}

// Describe renders the rule for chart titles, e.g. "me/min every 2h" or "sa @22h/24h"
func (r AnnotationRule) Describe() string {
	var parts []string
	names := strings.Join(r.Series, "/")
	if r.EveryHours > 0 {
		parts = append(parts, fmt.Sprintf("%s every %gh", names, r.EveryHours))
	}
	if len(r.AtHours) > 0 {
		at := make([]string, len(r.AtHours))
		for i, h := range r.AtHours {
			at[i] = fmt.Sprintf("%gh", h)
		}
		parts = append(parts, fmt.Sprintf("%s @%s", names, strings.Join(at, "/")))
	}
	return strings.Join(parts, ", ")
}

// Annotate places a "%.4f%%" label on the first point at or after each target.
// points must be sorted.
func Annotate(points []types.Point, rule AnnotationRule) []Annotation {
	if len(points) == 0 {
		return nil
	}
	var out []Annotation
	for _, target := range rule.Targets(series.MaxHours(points)) {
		p, ok := series.FirstAtOrAfter(points, target)
		if !ok {
			continue
		}
		out = append(out, Annotation{
			X:        p.Hours + annotationDX,
			Y:        p.Value + annotationDY,
			Text:     fmt.Sprintf("%.4f%%", p.Value),
			FontSize: annotationFontSize,
		})
	}
	return out
}
