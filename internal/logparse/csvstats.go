package logparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"fuzzplot/internal/series"
	"fuzzplot/internal/types"
)

const (
	csvRuntimeColumn  = 0 // Runtime(seconds)
	csvCoverageColumn = 5 // Coverage
)

// CSVStatsParser reads the periodic stats csv written by mutation fuzzers:
//
//	Runtime(seconds),Iterations,Iterations/Second,Crashes,Interesting,Coverage
//
// The header row is skipped. Coverage there is an edge count, not a percentage.
type CSVStatsParser struct{}

func NewCSVStatsParser() *CSVStatsParser {
	return &CSVStatsParser{}
}

func (p *CSVStatsParser) Name() string {
	return "csvstats/coverage"
}

func (p *CSVStatsParser) Parse(r io.Reader) ([]types.Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	out := types.Series{Metric: types.Coverage}
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read stats row %d: %w", row, err)
		}
		if row == 0 {
			continue // header
		}
		if len(record) <= csvCoverageColumn {
			return nil, fmt.Errorf("stats row %d has %d columns, want at least %d", row, len(record), csvCoverageColumn+1)
		}

		seconds, err := strconv.ParseFloat(record[csvRuntimeColumn], 64)
		if err != nil {
			return nil, fmt.Errorf("bad runtime on row %d: %w", row, err)
		}
		coverage, err := parseValue(record[csvCoverageColumn])
		if err != nil {
			return nil, err
		}
		out.Points = append(out.Points, types.Point{Hours: seconds / 3600.0, Value: coverage})
	}
	series.Sort(out.Points)
	return []types.Series{out}, nil
}
