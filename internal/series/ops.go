package series

import (
	"cmp"
	"slices"

	"fuzzplot/internal/types"
)

// Sort orders points by time, ties broken by value
func Sort(points []types.Point) {
	slices.SortFunc(points, func(a, b types.Point) int {
		if c := cmp.Compare(a.Hours, b.Hours); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
}

// Clip keeps the points with lo <= t <= hi. Order is preserved.
func Clip(points []types.Point, lo, hi float64) []types.Point {
	out := make([]types.Point, 0, len(points))
	for _, p := range points {
		if p.Hours >= lo && p.Hours <= hi {
			out = append(out, p)
		}
	}
	return out
}

// FirstAtOrAfter returns the first point whose time reaches target.
// points must be sorted.
func FirstAtOrAfter(points []types.Point, target float64) (types.Point, bool) {
	for _, p := range points {
		if p.Hours >= target {
			return p, true
		}
	}
	return types.Point{}, false
}

// MaxHours returns the latest time in points, 0 when empty
func MaxHours(points []types.Point) float64 {
	var maxH float64
	for i, p := range points {
		if i == 0 || p.Hours > maxH {
			maxH = p.Hours
		}
	}
	return maxH
}
