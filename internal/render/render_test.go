package render

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fuzzplot/internal/chart"
	"fuzzplot/internal/types"
)

func newTestRegistry() *Registry {
	logger := zap.NewNop()
	var nilRenderer *GoChartRenderer
	return NewRegistry(RegistryParams{
		Logger: logger,
		Renderers: []Renderer{
			NewGonumRenderer(logger),
			NewGoChartRenderer(logger),
			NewEChartsRenderer(logger),
			nilRenderer,
		},
	})
}

func sampleChart() *chart.Chart {
	c := chart.New("Coverage over time (webkit)", "Elapsed time (hours)", "Coverage (%)", 4, 3)
	c.X = chart.Between(0, 3)
	c.Y = chart.From(0)
	c.LegendColumns = 2
	c.Bands = []chart.Band{{
		Name:  "afl",
		Color: color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		Alpha: 0.18,
		X:     []float64{0.5, 1.5, 2.5},
		Low:   []float64{1, 2, 3},
		High:  []float64{2, 3, 4},
	}}
	c.Lines = []chart.Line{
		{
			Name:         "afl",
			Color:        color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
			Width:        0.9,
			MarkerRadius: 0.5,
			Points:       []types.Point{{Hours: 0.5, Value: 1.5}, {Hours: 1.5, Value: 2.5}, {Hours: 2.5, Value: 3.5}},
		},
		{
			Name:   "libfuzzer",
			Color:  color.NRGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
			Width:  1.5,
			Points: []types.Point{{Hours: 0, Value: 1}, {Hours: 3, Value: 2}},
		},
	}
	c.Annotations = []chart.Annotation{{X: 1.55, Y: 2.8, Text: "2.5000%", FontSize: 8}}
	return c
}

func TestRegistry(t *testing.T) {
	reg := newTestRegistry()
	assert.Equal(t, []string{"gochart", "gonum", "html"}, reg.Names())

	r, err := reg.Get("gonum")
	require.NoError(t, err)
	assert.Equal(t, "gonum", r.Name())

	_, err = reg.Get("matplotlib")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gochart, gonum, html")
}

func TestFormatFor(t *testing.T) {
	gonum := NewGonumRenderer(zap.NewNop())
	html := NewEChartsRenderer(zap.NewNop())

	tests := []struct {
		renderer Renderer
		output   string
		want     string
		wantErr  bool
	}{
		{gonum, "out/plot.png", "png", false},
		{gonum, "out/plot.SVG", "svg", false},
		{gonum, "plot", "png", false},
		{gonum, "plot.html", "", true},
		{html, "plot.html", "html", false},
		{html, "plot.png", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.renderer.Name()+"/"+tt.output, func(t *testing.T) {
			got, err := FormatFor(tt.renderer, tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultOutput(t *testing.T) {
	html := NewEChartsRenderer(zap.NewNop())
	gonum := NewGonumRenderer(zap.NewNop())
	assert.Equal(t, "logs/coverage_plot.html", DefaultOutput(html, "logs/coverage_plot.png"))
	assert.Equal(t, "logs/coverage_plot.png", DefaultOutput(gonum, "logs/coverage_plot.png"))
}

func TestRenderers(t *testing.T) {
	reg := newTestRegistry()
	tests := []struct {
		renderer string
		format   string
		check    func(t *testing.T, out []byte)
	}{
		{"gonum", "png", checkPNG(400, 300)},
		{"gonum", "svg", checkContains("<svg")},
		{"gochart", "png", checkPNG(400, 300)},
		{"gochart", "svg", checkContains("<svg")},
		{"html", "html", checkContains("Coverage over time (webkit)", "echarts")},
	}
	for _, tt := range tests {
		t.Run(tt.renderer+"/"+tt.format, func(t *testing.T) {
			r, err := reg.Get(tt.renderer)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, sampleChart(), tt.format))
			tt.check(t, buf.Bytes())
		})
	}
}

func TestRenderRejects(t *testing.T) {
	reg := newTestRegistry()
	for _, name := range reg.Names() {
		r, err := reg.Get(name)
		require.NoError(t, err)

		var buf bytes.Buffer
		assert.ErrorIs(t, r.Render(&buf, chart.New("empty", "x", "y", 4, 3), r.Formats()[0]), chart.ErrEmptyChart)
		assert.Error(t, r.Render(&buf, sampleChart(), "bmp"))
	}
}

func checkPNG(width, height int) func(t *testing.T, out []byte) {
	return func(t *testing.T, out []byte) {
		img, err := png.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, width, img.Bounds().Dx())
		assert.Equal(t, height, img.Bounds().Dy())
	}
}

func checkContains(needles ...string) func(t *testing.T, out []byte) {
	return func(t *testing.T, out []byte) {
		for _, needle := range needles {
			assert.True(t, strings.Contains(string(out), needle), "output misses %q", needle)
		}
	}
}
