package logparse

import (
	"fmt"
	"io"
	"regexp"

	"fuzzplot/internal/types"
)

// PendingParser pairs every status time line with the next metric line.
//
// A time line only arms the pending time. The first metric line after it emits
// (time, value) and disarms; metric lines with nothing pending are dropped and a
// second time line simply replaces the pending one. Points come out in file order.
type PendingParser struct {
	metric  types.Metric
	pattern *regexp.Regexp
}

func NewPendingParser(metric types.Metric) (*PendingParser, error) {
	pattern, err := MetricPattern(metric)
	if err != nil {
		return nil, err
	}
	return &PendingParser{metric, pattern}, nil
}

func (p *PendingParser) Name() string {
	return "pending/" + string(p.metric)
}

func (p *PendingParser) Parse(r io.Reader) ([]types.Series, error) {
	series := types.Series{Metric: p.metric}

	var pending *float64
	scanner := newLineScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if m := statusTimeRe.FindStringSubmatch(line); m != nil {
			hours, err := hoursFromMatch(m[1:])
			if err != nil {
				return nil, err
			}
			pending = &hours
			continue
		}

		m := p.pattern.FindStringSubmatch(line)
		if m == nil || pending == nil {
			continue
		}
		value, err := parseValue(m[1])
		if err != nil {
			return nil, err
		}
		series.Points = append(series.Points, types.Point{Hours: *pending, Value: value})
		pending = nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	return []types.Series{series}, nil
}
