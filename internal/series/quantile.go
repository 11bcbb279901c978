package series

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"fuzzplot/internal/types"
)

// BandOptions controls QuantileBand. Percentiles are in [0, 100].
type BandOptions struct {
	BinMinutes float64
	Start      float64 // hours
	End        float64 // hours
	Low        float64
	Mid        float64
	High       float64
}

// DefaultBandOptions: 10 minute bins over the first day, P25/P50/P75
func DefaultBandOptions() BandOptions {
	return BandOptions{
		BinMinutes: 10,
		Start:      0,
		End:        24,
		Low:        25,
		Mid:        50,
		High:       75,
	}
}

func (o BandOptions) Validate() error {
	if o.BinMinutes <= 0 {
		return fmt.Errorf("bin width must be positive, got %v minutes", o.BinMinutes)
	}
	if o.End <= o.Start {
		return fmt.Errorf("band window is empty: start %vh, end %vh", o.Start, o.End)
	}
	for _, q := range []float64{o.Low, o.Mid, o.High} {
		if q < 0 || q > 100 {
			return fmt.Errorf("percentile %v out of range [0, 100]", q)
		}
	}
	return nil
}

// Band is a binned summary of a series. X holds bin centers.
type Band struct {
	X    []float64
	Low  []float64
	Mid  []float64
	High []float64
}

func (b Band) Len() int {
	return len(b.X)
}

// QuantileBand bins the timeline into fixed windows and computes the Low, Mid and
// High percentiles of every non-empty window.
//
// One cursor sweeps the time-sorted points: window i consumes every point before
// its right edge and keeps those at or after its left edge, so points before Start
// are dropped and points at or after End never land in a window.
func QuantileBand(points []types.Point, opts BandOptions) (Band, error) {
	if err := opts.Validate(); err != nil {
		return Band{}, err
	}
	if len(points) == 0 {
		return Band{}, nil
	}

	pairs := slices.Clone(points)
	slices.SortStableFunc(pairs, func(a, b types.Point) int {
		switch {
		case a.Hours < b.Hours:
			return -1
		case a.Hours > b.Hours:
			return 1
		}
		return 0
	})

	binWidth := opts.BinMinutes / 60.0
	nBins := int((opts.End-opts.Start)/binWidth + 1e-9)

	var band Band
	j := 0
	for i := range nBins {
		left := opts.Start + float64(i)*binWidth
		right := left + binWidth

		var vals []float64
		for j < len(pairs) && pairs[j].Hours < right {
			if pairs[j].Hours >= left {
				vals = append(vals, pairs[j].Value)
			}
			j++
		}
		if len(vals) == 0 {
			continue
		}

		slices.Sort(vals)
		band.X = append(band.X, left+binWidth/2.0)
		band.Low = append(band.Low, percentileSorted(vals, opts.Low))
		band.Mid = append(band.Mid, percentileSorted(vals, opts.Mid))
		band.High = append(band.High, percentileSorted(vals, opts.High))
	}
	return band, nil
}

var ErrEmptySample = errors.New("percentile of empty sample")

// Percentile returns the q-th percentile of values, interpolating linearly
// between the two closest ranks.
func Percentile(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySample
	}
	if q < 0 || q > 100 {
		return 0, fmt.Errorf("percentile %v out of range [0, 100]", q)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return percentileSorted(sorted, q), nil
}

func percentileSorted(sorted []float64, q float64) float64 {
	rank := q / 100.0 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
