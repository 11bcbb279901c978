package render

import (
	"fmt"
	"image/color"
	"io"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"fuzzplot/internal/chart"
	"fuzzplot/internal/types"
)

var gridColor = chart.WithAlpha(color.Gray{Y: 0xb0}, 0.4)

// GonumRenderer draws with gonum/plot. Bands become filled polygons.
type GonumRenderer struct {
	logger *zap.Logger
}

func NewGonumRenderer(logger *zap.Logger) *GonumRenderer {
	return &GonumRenderer{logger.Named("gonum")}
}

func (r *GonumRenderer) Name() string      { return "gonum" }
func (r *GonumRenderer) Formats() []string { return []string{"png", "svg"} }

func (r *GonumRenderer) Render(w io.Writer, c *chart.Chart, format string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	p, err := r.build(c)
	if err != nil {
		return err
	}

	width := vg.Length(c.Width) * vg.Inch
	height := vg.Length(c.Height) * vg.Inch

	switch format {
	case "png":
		canvas := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(int(c.DPI)))
		p.Draw(draw.New(canvas))
		if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(w); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	case "svg":
		wt, err := p.WriterTo(width, height, "svg")
		if err != nil {
			return fmt.Errorf("failed to prepare svg: %w", err)
		}
		if _, err := wt.WriteTo(w); err != nil {
			return fmt.Errorf("failed to encode svg: %w", err)
		}
	default:
		return fmt.Errorf("gonum renderer cannot write %q", format)
	}
	return nil
}

func (r *GonumRenderer) build(c *chart.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true

	if c.Grid {
		grid := plotter.NewGrid()
		for _, style := range []*draw.LineStyle{&grid.Vertical, &grid.Horizontal} {
			style.Color = gridColor
			style.Dashes = []vg.Length{vg.Points(3.7), vg.Points(1.6)}
		}
		p.Add(grid)
	}

	for _, band := range c.Bands {
		poly, err := plotter.NewPolygon(bandOutline(band))
		if err != nil {
			return nil, fmt.Errorf("band %s: %w", band.Name, err)
		}
		poly.Color = chart.WithAlpha(band.Color, band.Alpha)
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	for _, line := range c.Lines {
		xys := toXYs(line.Points)
		if line.MarkerRadius > 0 {
			l, s, err := plotter.NewLinePoints(xys)
			if err != nil {
				return nil, fmt.Errorf("series %s: %w", line.Name, err)
			}
			l.Color = line.Color
			l.Width = vg.Points(line.Width)
			s.Color = line.Color
			s.Radius = vg.Points(line.MarkerRadius)
			s.Shape = draw.CircleGlyph{}
			p.Add(l, s)
			p.Legend.Add(line.Name, l, s)
			continue
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", line.Name, err)
		}
		l.Color = line.Color
		l.Width = vg.Points(line.Width)
		p.Add(l)
		p.Legend.Add(line.Name, l)
	}

	if len(c.Annotations) > 0 {
		xyl := plotter.XYLabels{
			XYs:    make(plotter.XYs, len(c.Annotations)),
			Labels: make([]string, len(c.Annotations)),
		}
		for i, a := range c.Annotations {
			xyl.XYs[i] = plotter.XY{X: a.X, Y: a.Y}
			xyl.Labels[i] = a.Text
		}
		labels, err := plotter.NewLabels(xyl)
		if err != nil {
			return nil, fmt.Errorf("annotations: %w", err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Font.Size = vg.Points(c.Annotations[i].FontSize)
			labels.TextStyle[i].Color = color.Black
		}
		p.Add(labels)
	}

	// limits go last, Add widens the axes
	if c.X.HasMin {
		p.X.Min = c.X.Min
	}
	if c.X.HasMax {
		p.X.Max = c.X.Max
	}
	if c.Y.HasMin {
		p.Y.Min = c.Y.Min
	}
	if c.Y.HasMax {
		p.Y.Max = c.Y.Max
	}

	if c.LegendColumns > 1 {
		r.logger.Debug("legend columns are not supported, using one column", zap.Int("columns", c.LegendColumns))
	}
	return p, nil
}

func toXYs(points []types.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.Hours, Y: pt.Value}
	}
	return xys
}

// bandOutline walks the upper edge forward and the lower edge back
func bandOutline(b chart.Band) plotter.XYs {
	n := len(b.X)
	xys := make(plotter.XYs, 0, 2*n)
	for i := 0; i < n; i++ {
		xys = append(xys, plotter.XY{X: b.X[i], Y: b.High[i]})
	}
	for i := n - 1; i >= 0; i-- {
		xys = append(xys, plotter.XY{X: b.X[i], Y: b.Low[i]})
	}
	return xys
}
