package logparse

import (
	"io"
	"regexp"

	"fuzzplot/internal/series"
	"fuzzplot/internal/types"
)

// DefaultLookahead is how many lines after a status time line are searched for its metric
const DefaultLookahead = 59

// LookaheadParser resolves each status time line to the first metric line within
// the next Window lines. Two time lines may resolve to the same metric line.
// Points are sorted by time.
type LookaheadParser struct {
	Window int

	metric  types.Metric
	pattern *regexp.Regexp
}

func NewLookaheadParser(metric types.Metric) (*LookaheadParser, error) {
	pattern, err := MetricPattern(metric)
	if err != nil {
		return nil, err
	}
	return &LookaheadParser{DefaultLookahead, metric, pattern}, nil
}

func (p *LookaheadParser) Name() string {
	return "lookahead/" + string(p.metric)
}

func (p *LookaheadParser) Parse(r io.Reader) ([]types.Series, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	out := types.Series{Metric: p.metric}
	for idx, line := range lines {
		m := statusTimeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		hours, err := hoursFromMatch(m[1:])
		if err != nil {
			return nil, err
		}

		end := min(idx+1+p.Window, len(lines))
		for _, next := range lines[idx+1 : end] {
			cm := p.pattern.FindStringSubmatch(next)
			if cm == nil {
				continue
			}
			value, err := parseValue(cm[1])
			if err != nil {
				return nil, err
			}
			out.Points = append(out.Points, types.Point{Hours: hours, Value: value})
			break
		}
	}
	series.Sort(out.Points)
	return []types.Series{out}, nil
}
