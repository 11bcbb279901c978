package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	fchart "fuzzplot/internal/chart"
)

// GoChartRenderer draws with go-chart. go-chart cannot fill between two
// series, so bands are drawn as dashed low/high edges around the median.
type GoChartRenderer struct {
	logger *zap.Logger
}

func NewGoChartRenderer(logger *zap.Logger) *GoChartRenderer {
	return &GoChartRenderer{logger.Named("gochart")}
}

func (r *GoChartRenderer) Name() string      { return "gochart" }
func (r *GoChartRenderer) Formats() []string { return []string{"png", "svg"} }

func (r *GoChartRenderer) Render(w io.Writer, c *fchart.Chart, format string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	var provider chart.RendererProvider
	switch format {
	case "png":
		provider = chart.PNG
	case "svg":
		provider = chart.SVG
	default:
		return fmt.Errorf("gochart renderer cannot write %q", format)
	}

	graph := r.build(c)
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func (r *GoChartRenderer) build(c *fchart.Chart) *chart.Chart {
	xMin, xMax, yMin, yMax := extent(c)
	if c.X.HasMin {
		xMin = c.X.Min
	}
	if c.X.HasMax {
		xMax = c.X.Max
	}
	if c.Y.HasMin {
		yMin = c.Y.Min
	}
	if c.Y.HasMax {
		yMax = c.Y.Max
	}

	gridStyle := chart.Style{Hidden: true}
	if c.Grid {
		gridStyle = chart.Style{
			StrokeColor:     toDrawing(fchart.WithAlpha(color.Gray{Y: 0xb0}, 0.4)),
			StrokeWidth:     1,
			StrokeDashArray: []float64{4, 2},
		}
	}

	graph := &chart.Chart{
		Title:  c.Title,
		Width:  int(c.Width * c.DPI),
		Height: int(c.Height * c.DPI),
		DPI:    c.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           c.XLabel,
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           c.YLabel,
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			GridMajorStyle: gridStyle,
		},
	}

	for _, band := range c.Bands {
		edge := chart.Style{
			StrokeColor:     toDrawing(fchart.WithAlpha(band.Color, math.Max(band.Alpha*3, 0.4))),
			StrokeWidth:     1,
			StrokeDashArray: []float64{3, 3},
		}
		graph.Series = append(graph.Series,
			chart.ContinuousSeries{Name: band.Name + " (low)", XValues: band.X, YValues: band.Low, Style: edge},
			chart.ContinuousSeries{Name: band.Name + " (high)", XValues: band.X, YValues: band.High, Style: edge},
		)
	}

	for _, line := range c.Lines {
		xs := make([]float64, len(line.Points))
		ys := make([]float64, len(line.Points))
		for i, p := range line.Points {
			xs[i], ys[i] = p.Hours, p.Value
		}
		style := chart.Style{
			StrokeColor: toDrawing(line.Color),
			StrokeWidth: line.Width * c.DPI / 72,
		}
		if line.MarkerRadius > 0 {
			style.DotColor = toDrawing(line.Color)
			style.DotWidth = line.MarkerRadius * c.DPI / 72
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    line.Name,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	if len(c.Annotations) > 0 {
		values := make([]chart.Value2, len(c.Annotations))
		for i, a := range c.Annotations {
			values[i] = chart.Value2{XValue: a.X, YValue: a.Y, Label: a.Text}
		}
		graph.Series = append(graph.Series, chart.AnnotationSeries{
			Annotations: values,
			Style:       chart.Style{FontSize: c.Annotations[0].FontSize},
		})
	}

	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	if c.LegendColumns > 1 {
		r.logger.Debug("legend columns are not supported, using one column", zap.Int("columns", c.LegendColumns))
	}
	return graph
}

// extent is the data bounding box over lines, bands and annotations
func extent(c *fchart.Chart) (xMin, xMax, yMin, yMax float64) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	add := func(x, y float64) {
		xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
		yMin, yMax = math.Min(yMin, y), math.Max(yMax, y)
	}
	for _, l := range c.Lines {
		for _, p := range l.Points {
			add(p.Hours, p.Value)
		}
	}
	for _, b := range c.Bands {
		for i := range b.X {
			add(b.X[i], b.Low[i])
			add(b.X[i], b.High[i])
		}
	}
	for _, a := range c.Annotations {
		add(a.X, a.Y)
	}
	if math.IsInf(xMin, 1) {
		return 0, 1, 0, 1
	}
	if xMin == xMax {
		xMax = xMin + 1
	}
	if yMin == yMax {
		yMax = yMin + 1
	}
	return xMin, xMax, yMin, yMax
}

func toDrawing(c color.Color) drawing.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
