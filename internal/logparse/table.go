package logparse

import (
	"fmt"
	"io"
	"strings"

	"fuzzplot/internal/series"
	"fuzzplot/internal/types"
)

// TableParser reads a side-by-side comparison log where every status block is a
// small table, one column per campaign:
//
//	Metric        afl       libfuzzer
//	Elapsed Time  1h 0m 0s  1h 0m 2s
//	Coverage      12.5%     11.0%
//
// Rows whose cell count does not match the header are skipped. A Coverage row
// always consumes the current times, matched or not, and only pairs as many
// columns as there are times.
type TableParser struct{}

func NewTableParser() *TableParser {
	return &TableParser{}
}

func (p *TableParser) Name() string {
	return "table/coverage"
}

func (p *TableParser) Parse(r io.Reader) ([]types.Series, error) {
	var labels []string
	var order []string
	points := make(map[string][]types.Point)
	var currentTimes []float64

	scanner := newLineScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "Metric"):
			parts := strings.Fields(line)
			if len(parts) <= 1 {
				continue
			}
			labels = parts[1:]
			for _, label := range labels {
				if _, ok := points[label]; !ok {
					points[label] = nil
					order = append(order, label)
				}
			}

		case strings.Contains(line, "Elapsed Time"):
			matches := tableTimeRe.FindAllStringSubmatch(line, -1)
			if len(labels) == 0 || len(matches) == 0 || len(matches) != len(labels) {
				continue
			}
			times := make([]float64, len(matches))
			for i, m := range matches {
				hours, err := hoursFromMatch(m[1:])
				if err != nil {
					return nil, err
				}
				times[i] = hours
			}
			currentTimes = times

		case strings.Contains(line, "Coverage"):
			if len(labels) == 0 || currentTimes == nil {
				continue
			}
			matches := tableCoverageRe.FindAllStringSubmatch(line, -1)
			if len(matches) > 0 && len(matches) == len(labels) {
				// the header may have grown since the times were read
				n := min(len(matches), len(currentTimes))
				for i, m := range matches[:n] {
					value, err := parseValue(m[1])
					if err != nil {
						return nil, err
					}
					label := labels[i]
					points[label] = append(points[label], types.Point{Hours: currentTimes[i], Value: value})
				}
			}
			currentTimes = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	out := make([]types.Series, 0, len(order))
	for _, label := range order {
		pts := points[label]
		if len(pts) == 0 {
			continue
		}
		series.Sort(pts)
		out = append(out, types.Series{Name: label, Metric: types.Coverage, Points: pts})
	}
	return out, nil
}
