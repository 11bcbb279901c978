package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"fuzzplot/internal/chart"
)

// EChartsRenderer writes a self-contained interactive html page
type EChartsRenderer struct {
	logger *zap.Logger
}

func NewEChartsRenderer(logger *zap.Logger) *EChartsRenderer {
	return &EChartsRenderer{logger.Named("echarts")}
}

func (r *EChartsRenderer) Name() string      { return "html" }
func (r *EChartsRenderer) Formats() []string { return []string{"html"} }

func (r *EChartsRenderer) Render(w io.Writer, c *chart.Chart, format string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if format != "html" {
		return fmt.Errorf("html renderer cannot write %q", format)
	}
	if err := r.build(c).Render(w); err != nil {
		return fmt.Errorf("failed to render html chart: %w", err)
	}
	return nil
}

func (r *EChartsRenderer) build(c *chart.Chart) *charts.Line {
	xAxis := opts.XAxis{Name: c.XLabel, Type: "value"}
	if c.X.HasMin {
		xAxis.Min = c.X.Min
	}
	if c.X.HasMax {
		xAxis.Max = c.X.Max
	}
	yAxis := opts.YAxis{Name: c.YLabel, Type: "value"}
	if c.Y.HasMin {
		yAxis.Min = c.Y.Min
	}
	if c.Y.HasMax {
		yAxis.Max = c.Y.Max
	}
	if c.Grid {
		xAxis.SplitLine = &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Type: "dashed"}}
		yAxis.SplitLine = &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Type: "dashed"}}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: c.Title,
			Width:     fmt.Sprintf("%dpx", int(c.Width*c.DPI)),
			Height:    fmt.Sprintf("%dpx", int(c.Height*c.DPI)),
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
	)

	for _, band := range c.Bands {
		edge := opts.LineStyle{Color: rgba(band.Color, 0.6), Width: 1, Type: "dashed"}
		line.AddSeries(band.Name+" (low)", pairs(band.X, band.Low),
			charts.WithLineStyleOpts(edge),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false), ShowSymbol: opts.Bool(false)}),
		)
		line.AddSeries(band.Name+" (high)", pairs(band.X, band.High),
			charts.WithLineStyleOpts(edge),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false), ShowSymbol: opts.Bool(false)}),
		)
	}

	for i, l := range c.Lines {
		xs := make([]float64, len(l.Points))
		ys := make([]float64, len(l.Points))
		for j, p := range l.Points {
			xs[j], ys[j] = p.Hours, p.Value
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineStyleOpts(opts.LineStyle{Color: rgba(l.Color, 1), Width: float32(l.Width)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: chart.Hex(l.Color)}),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false), ShowSymbol: opts.Bool(l.MarkerRadius > 0)}),
		}
		// annotations ride on the first line, mark points need a host series
		if i == 0 {
			for _, a := range c.Annotations {
				seriesOpts = append(seriesOpts, charts.WithMarkPointNameCoordItemOpts(opts.MarkPointNameCoordItem{
					Name:       a.Text,
					Value:      a.Text,
					Coordinate: []interface{}{a.X, a.Y},
				}))
			}
		}
		line.AddSeries(l.Name, pairs(xs, ys), seriesOpts...)
	}

	if c.LegendColumns > 1 {
		r.logger.Debug("legend columns are not supported, using one column", zap.Int("columns", c.LegendColumns))
	}
	return line
}

func pairs(xs, ys []float64) []opts.LineData {
	data := make([]opts.LineData, len(xs))
	for i := range xs {
		data[i] = opts.LineData{Value: []interface{}{xs[i], ys[i]}}
	}
	return data
}

func rgba(c color.Color, alpha float64) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", n.R, n.G, n.B, alpha*float64(n.A)/255)
}
