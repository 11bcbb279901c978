package series

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"fuzzplot/internal/types"
)

// Summary describes a series at a glance, logged after each render
type Summary struct {
	Name   string
	Count  int
	First  float64 // hours
	Last   float64 // hours
	Final  float64 // value at Last
	Max    float64
	Mean   float64
	StdDev float64
}

func Summarize(s types.Series) Summary {
	sum := Summary{Name: s.Name, Count: len(s.Points)}
	if len(s.Points) == 0 {
		return sum
	}

	values := s.Values()
	sum.First = s.Points[0].Hours
	sum.Last = s.Points[len(s.Points)-1].Hours
	sum.Final = values[len(values)-1]
	sum.Max = slices.Max(values)
	if len(values) > 1 {
		sum.Mean, sum.StdDev = stat.MeanStdDev(values, nil)
	} else {
		sum.Mean = values[0]
	}
	return sum
}
