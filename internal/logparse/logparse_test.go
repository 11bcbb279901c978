package logparse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuzzplot/internal/types"
)

func TestElapsedHours(t *testing.T) {
	assert.Equal(t, 1.5, ElapsedHours(1, 30, 0))
	assert.InDelta(t, 2.0+1.0/60+1.0/3600, ElapsedHours(2, 1, 1), 1e-12)
	assert.Equal(t, 0.0, ElapsedHours(0, 0, 0))
}

func TestMetricPattern(t *testing.T) {
	_, err := MetricPattern(types.Coverage)
	require.NoError(t, err)
	_, err = MetricPattern(types.Throughput)
	require.NoError(t, err)
	_, err = MetricPattern("latency")
	assert.Error(t, err)
}

func TestPendingParser(t *testing.T) {
	tests := []struct {
		name   string
		metric types.Metric
		log    string
		want   []types.Point
	}{
		{
			name:   "pairs each time with the next coverage line",
			metric: types.Coverage,
			log: `== status ==
Elapsed Time : 0h 30m 0s
Coverage : 21.5%
Elapsed Time : 1h 0m 0s
Coverage : 22.25%
`,
			want: []types.Point{{Hours: 0.5, Value: 21.5}, {Hours: 1, Value: 22.25}},
		},
		{
			name:   "metric without pending time is dropped",
			metric: types.Coverage,
			log: `Coverage : 10%
Elapsed Time : 1h 0m 0s
Coverage : 11%
Coverage : 12%
`,
			want: []types.Point{{Hours: 1, Value: 11}},
		},
		{
			name:   "second time line replaces the pending one",
			metric: types.Coverage,
			log: `Elapsed Time : 1h 0m 0s
Elapsed Time : 2h 0m 0s
Coverage : 30%
`,
			want: []types.Point{{Hours: 2, Value: 30}},
		},
		{
			name:   "file order is kept",
			metric: types.Coverage,
			log: `Elapsed Time : 2h 0m 0s
Coverage : 30%
Elapsed Time : 1h 0m 0s
Coverage : 20%
`,
			want: []types.Point{{Hours: 2, Value: 30}, {Hours: 1, Value: 20}},
		},
		{
			name:   "throughput",
			metric: types.Throughput,
			log: `Elapsed Time: 0h 10m 0s
Coverage : 30%
Throughput (seeds/min) : 1234.5
`,
			want: []types.Point{{Hours: 1.0 / 6, Value: 1234.5}},
		},
		{
			name:   "no status lines",
			metric: types.Coverage,
			log:    "starting fuzzer\n",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPendingParser(tt.metric)
			require.NoError(t, err)
			got, err := p.Parse(strings.NewReader(tt.log))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Empty(t, got[0].Name)
			assert.Equal(t, tt.metric, got[0].Metric)
			if diff := cmp.Diff(tt.want, got[0].Points); diff != "" {
				t.Errorf("points mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPendingParserName(t *testing.T) {
	p, err := NewPendingParser(types.Throughput)
	require.NoError(t, err)
	assert.Equal(t, "pending/throughput", p.Name())

	_, err = NewPendingParser("latency")
	assert.Error(t, err)
}

func TestLookaheadParser(t *testing.T) {
	t.Run("searches the following lines and sorts", func(t *testing.T) {
		log := `Elapsed Time : 2h 0m 0s
some noise
Coverage : 40.1234%
Elapsed Time : 1h 0m 0s
Coverage : 35%
`
		p, err := NewLookaheadParser(types.Coverage)
		require.NoError(t, err)
		got, err := p.Parse(strings.NewReader(log))
		require.NoError(t, err)
		require.Len(t, got, 1)
		want := []types.Point{{Hours: 1, Value: 35}, {Hours: 2, Value: 40.1234}}
		if diff := cmp.Diff(want, got[0].Points); diff != "" {
			t.Errorf("points mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("two times may share one metric line", func(t *testing.T) {
		log := `Elapsed Time : 1h 0m 0s
Elapsed Time : 1h 0m 30s
Coverage : 50%
`
		p, err := NewLookaheadParser(types.Coverage)
		require.NoError(t, err)
		got, err := p.Parse(strings.NewReader(log))
		require.NoError(t, err)
		want := []types.Point{{Hours: 1, Value: 50}, {Hours: ElapsedHours(1, 0, 30), Value: 50}}
		if diff := cmp.Diff(want, got[0].Points); diff != "" {
			t.Errorf("points mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("window bounds the search", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("Elapsed Time : 1h 0m 0s\n")
		for range DefaultLookahead - 1 {
			b.WriteString("noise\n")
		}
		b.WriteString("Coverage : 10%\n") // line idx+59, still inside
		b.WriteString("Elapsed Time : 2h 0m 0s\n")
		for range DefaultLookahead {
			b.WriteString("noise\n")
		}
		b.WriteString("Coverage : 20%\n") // line idx+60, outside

		p, err := NewLookaheadParser(types.Coverage)
		require.NoError(t, err)
		got, err := p.Parse(strings.NewReader(b.String()))
		require.NoError(t, err)
		want := []types.Point{{Hours: 1, Value: 10}}
		if diff := cmp.Diff(want, got[0].Points); diff != "" {
			t.Errorf("points mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unparsable value aborts", func(t *testing.T) {
		p, err := NewLookaheadParser(types.Coverage)
		require.NoError(t, err)
		_, err = p.Parse(strings.NewReader("Elapsed Time : 1h 0m 0s\nCoverage : 1.2.3%\n"))
		assert.Error(t, err)
	})
}

const tableLog = `Metric        afl        libfuzzer
Elapsed Time  1h 0m 0s   1h 0m 2s
Coverage      12.5%      11.0%
Metric        afl        libfuzzer
Elapsed Time  0h 30m 0s  0h 30m 0s
Coverage      10.0%      9.5%
Elapsed Time  2h 0m 0s
Coverage      20.0%      19.0%
Coverage      21.0%      20.0%
`

func TestTableParser(t *testing.T) {
	p := NewTableParser()
	assert.Equal(t, "table/coverage", p.Name())

	got, err := p.Parse(strings.NewReader(tableLog))
	require.NoError(t, err)

	want := []types.Series{
		{Name: "afl", Metric: types.Coverage, Points: []types.Point{
			{Hours: 0.5, Value: 10}, {Hours: 1, Value: 12.5},
		}},
		{Name: "libfuzzer", Metric: types.Coverage, Points: []types.Point{
			{Hours: 0.5, Value: 9.5}, {Hours: ElapsedHours(1, 0, 2), Value: 11},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestTableParserRowPairing(t *testing.T) {
	tests := []struct {
		name string
		log  string
		want []types.Series
	}{
		{
			name: "mismatched coverage row consumes the times",
			log: `Metric  a     b
Elapsed Time  1h 0m 0s  1h 0m 0s
Coverage  5%
Coverage  6%  7%
`,
			want: []types.Series{},
		},
		{
			name: "header grown after the time row pairs only timed columns",
			log: `Metric a
Elapsed Time  1h 0m 0s
Metric a b
Coverage  1%  2%
`,
			want: []types.Series{
				{Name: "a", Metric: types.Coverage, Points: []types.Point{{Hours: 1, Value: 1}}},
			},
		},
		{
			name: "header shrunk after the time row",
			log: `Metric a b
Elapsed Time  1h 0m 0s  2h 0m 0s
Metric b
Coverage  3%
`,
			want: []types.Series{
				{Name: "b", Metric: types.Coverage, Points: []types.Point{{Hours: 1, Value: 3}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTableParser().Parse(strings.NewReader(tt.log))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("series mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// statusBlock is one pending-style status sample
const statusBlock = "Elapsed Time : 1h 0m 0s\nCoverage : 12.5%\n"

func TestParsersTolerateRawInput(t *testing.T) {
	long := strings.Repeat("x", 200*1024) // beyond the default 64 KiB scanner buffer

	tests := []struct {
		name string
		log  string
	}{
		{"invalid utf-8", "\xff\xfe\x00garbage\x80\n" + "Elapsed Time : 1h 0m 0s \xc3\x28\nCoverage : 12.5% \xff\n"},
		{"long noise line", long + "\n" + statusBlock},
		{"long status line", long + " Elapsed Time : 1h 0m 0s\n" + long + " Coverage : 12.5%\n"},
		{"crlf line endings", "Elapsed Time : 1h 0m 0s\r\nCoverage : 12.5%\r\n"},
		{"bare cr line endings", "noise\rElapsed Time : 1h 0m 0s\rCoverage : 12.5%\r"},
	}
	want := []types.Point{{Hours: 1, Value: 12.5}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending, err := NewPendingParser(types.Coverage)
			require.NoError(t, err)
			lookahead, err := NewLookaheadParser(types.Coverage)
			require.NoError(t, err)

			for _, p := range []Parser{pending, lookahead} {
				got, err := p.Parse(strings.NewReader(tt.log))
				require.NoError(t, err, p.Name())
				require.Len(t, got, 1, p.Name())
				if diff := cmp.Diff(want, got[0].Points); diff != "" {
					t.Errorf("%s points mismatch (-want +got):\n%s", p.Name(), diff)
				}
			}
		})
	}
}

func TestTableParserBareCarriageReturns(t *testing.T) {
	log := "Metric a b\rElapsed Time  1h 0m 0s  0h 30m 0s\rCoverage  4%  \xff 5%\r"
	got, err := NewTableParser().Parse(strings.NewReader(log))
	require.NoError(t, err)
	want := []types.Series{
		{Name: "a", Metric: types.Coverage, Points: []types.Point{{Hours: 1, Value: 4}}},
		{Name: "b", Metric: types.Coverage, Points: []types.Point{{Hours: 0.5, Value: 5}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestParserRejectsOverlongLine(t *testing.T) {
	log := strings.Repeat("x", maxLineSize+1) + "\n" + statusBlock
	p, err := NewPendingParser(types.Coverage)
	require.NoError(t, err)
	_, err = p.Parse(strings.NewReader(log))
	assert.ErrorContains(t, err, "scanner error")
}

func TestHugeElapsedField(t *testing.T) {
	log := "Elapsed Time : 100000000000000000000h 0m 0s\nCoverage : 1%\n"
	p, err := NewPendingParser(types.Coverage)
	require.NoError(t, err)
	got, err := p.Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, got[0].Points, 1)
	assert.InEpsilon(t, 1e20, got[0].Points[0].Hours, 1e-12)
}

func TestCSVStatsParser(t *testing.T) {
	log := `Runtime(seconds),Iterations,Iterations/Second,Crashes,Interesting,Coverage
7200,100,1,0,3,250
3600,50,1,0,2,200
`
	p := NewCSVStatsParser()
	got, err := p.Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, got, 1)
	want := []types.Point{{Hours: 1, Value: 200}, {Hours: 2, Value: 250}}
	if diff := cmp.Diff(want, got[0].Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}

	_, err = p.Parse(strings.NewReader("header\n1,2,3\n"))
	assert.Error(t, err)
}
