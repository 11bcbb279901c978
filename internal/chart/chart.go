package chart

import (
	"errors"
	"image/color"

	"fuzzplot/internal/types"
)

// Limits pins one end or both ends of an axis; unset ends autoscale
type Limits struct {
	Min, Max       float64
	HasMin, HasMax bool
}

func Between(lo, hi float64) Limits {
	return Limits{Min: lo, Max: hi, HasMin: true, HasMax: true}
}

func From(lo float64) Limits {
	return Limits{Min: lo, HasMin: true}
}

// Line is a plotted series. Width and MarkerRadius are in points.
type Line struct {
	Name         string
	Color        color.Color
	Width        float64
	MarkerRadius float64 // 0 draws no markers
	Points       []types.Point
}

// Band is a filled area between Low and High, drawn under the lines
type Band struct {
	Name  string
	Color color.Color
	Alpha float64
	X     []float64
	Low   []float64
	High  []float64
}

// Annotation is a text label anchored at data coordinates
type Annotation struct {
	X, Y     float64
	Text     string
	FontSize float64 // points
}

// Chart is everything a renderer needs, independent of the plotting library
type Chart struct {
	Title  string
	XLabel string
	YLabel string

	Width  float64 // inches
	Height float64 // inches
	DPI    float64

	X Limits
	Y Limits

	Grid          bool
	LegendColumns int

	Bands       []Band
	Lines       []Line
	Annotations []Annotation
}

const DefaultDPI = 100

// New returns a chart with a dashed grid, a legend and the given figure size
func New(title, xLabel, yLabel string, width, height float64) *Chart {
	return &Chart{
		Title:         title,
		XLabel:        xLabel,
		YLabel:        yLabel,
		Width:         width,
		Height:        height,
		DPI:           DefaultDPI,
		Grid:          true,
		LegendColumns: 1,
	}
}

var ErrEmptyChart = errors.New("chart has nothing to draw")

func (c *Chart) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New("chart size must be positive")
	}
	if c.DPI <= 0 {
		return errors.New("chart dpi must be positive")
	}
	if len(c.Lines) == 0 && len(c.Bands) == 0 {
		return ErrEmptyChart
	}
	for _, b := range c.Bands {
		if len(b.Low) != len(b.X) || len(b.High) != len(b.X) {
			return errors.New("band " + b.Name + " has mismatched lengths")
		}
	}
	return nil
}

// SeriesNames lists line names in drawing order
func (c *Chart) SeriesNames() []string {
	names := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		names = append(names, l.Name)
	}
	return names
}
