package logparse

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"fuzzplot/internal/types"
)

var (
	statusTimeRe = regexp.MustCompile(`Elapsed Time\s*:\s*(\d+)h\s*(\d+)m\s*(\d+)s`)
	coverageRe   = regexp.MustCompile(`Coverage\s*:\s*([\d.]+)%`)
	throughputRe = regexp.MustCompile(`Throughput\s*\(seeds/min\)\s*:\s*([0-9.]+)`)

	// table rows carry one cell per column and no "key :" prefix
	tableTimeRe     = regexp.MustCompile(`(\d+)h\s*(\d+)m\s*(\d+)s`)
	tableCoverageRe = regexp.MustCompile(`([\d.]+)%`)
)

const maxLineSize = 4 * 1024 * 1024

// Parser extracts one or more series from a single log.
//
// Single-series parsers return a series with an empty Name; the caller labels it.
type Parser interface {
	// Name identifies the parser and its metric, e.g. "pending/coverage"
	Name() string
	Parse(r io.Reader) ([]types.Series, error)
}

// MetricPattern returns the status-line pattern for a metric
func MetricPattern(metric types.Metric) (*regexp.Regexp, error) {
	switch metric {
	case types.Coverage:
		return coverageRe, nil
	case types.Throughput:
		return throughputRe, nil
	}
	return nil, fmt.Errorf("unknown metric %q", metric)
}

// ElapsedHours converts an h/m/s triple to fractional hours
func ElapsedHours(h, m, s int) float64 {
	return float64(h*3600+m*60+s) / 3600.0
}

// hoursFromMatch converts the three capture groups of a time match. Fields are
// parsed as floats so arbitrarily long digit runs never fail.
func hoursFromMatch(groups []string) (float64, error) {
	var hms [3]float64
	for i := range hms {
		v, err := strconv.ParseFloat(groups[i], 64)
		if err != nil {
			return 0, fmt.Errorf("bad elapsed time %q: %w", groups[i], err)
		}
		hms[i] = v
	}
	return (hms[0]*3600 + hms[1]*60 + hms[2]) / 3600.0, nil
}

func parseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("bad metric value %q: %w", raw, err)
	}
	return v, nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	scanner.Split(scanAnyLines)
	return scanner
}

// scanAnyLines splits on "\n", "\r\n" and a bare "\r"
func scanAnyLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// a "\n" may follow in the next read
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// readLines loads the whole log, used by parsers that need to look ahead
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := newLineScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	return lines, nil
}
