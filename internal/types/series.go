package types

// Metric names the quantity a series tracks
type Metric string

const (
	Coverage   Metric = "coverage"   // percentage
	Throughput Metric = "throughput" // seeds/min
)

// single status sample, time in elapsed hours
type Point struct {
	Hours float64 `json:"h"`
	Value float64 `json:"v"`
}

// Series is one labelled timeline extracted from a log
type Series struct {
	Name   string  `json:"name"`   // label derived from the file or table column
	Metric Metric  `json:"metric"` // what Value means
	Source string  `json:"source"` // path of the log it came from
	Points []Point `json:"points"`
}

func (s Series) Len() int {
	return len(s.Points)
}

// Hours returns the x values of the series
func (s Series) Hours() []float64 {
	xs := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.Hours
	}
	return xs
}

// Values returns the y values of the series
func (s Series) Values() []float64 {
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Value
	}
	return ys
}
