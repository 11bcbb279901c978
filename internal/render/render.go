package render

import (
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"fuzzplot/internal/chart"
)

// Renderer draws a chart with one plotting library
type Renderer interface {
	Name() string
	// Formats lists the file extensions (without dot) the renderer can write,
	// the first one is the default
	Formats() []string
	Render(w io.Writer, c *chart.Chart, format string) error
}

// Registry maps renderer names to renderers
type Registry struct {
	renderers map[string]Renderer
	logger    *zap.Logger
}

type RegistryParams struct {
	fx.In
	Logger    *zap.Logger
	Renderers []Renderer `group:"renderers"`
}

func NewRegistry(params RegistryParams) *Registry {
	renderers := make(map[string]Renderer)
	for _, r := range params.Renderers {
		rv := reflect.ValueOf(r)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			continue
		}
		renderers[r.Name()] = r
		params.Logger.Debug("renderer registered", zap.String("renderer", r.Name()), zap.Strings("formats", r.Formats()))
	}
	return &Registry{renderers, params.Logger}
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Get(name string) (Renderer, error) {
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown renderer %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return renderer, nil
}

// FormatFor picks the output format from the file extension
func FormatFor(renderer Renderer, output string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	if ext == "" {
		return renderer.Formats()[0], nil
	}
	if !slices.Contains(renderer.Formats(), ext) {
		return "", fmt.Errorf("renderer %s cannot write .%s files (supported: %s)",
			renderer.Name(), ext, strings.Join(renderer.Formats(), ", "))
	}
	return ext, nil
}

// DefaultOutput swaps the extension of output for the renderer's default format
// when the renderer cannot write it
func DefaultOutput(renderer Renderer, output string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	if slices.Contains(renderer.Formats(), ext) {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + renderer.Formats()[0]
}

var Module = fx.Options(
	fx.Provide(
		fx.Annotate(NewGonumRenderer, fx.As(new(Renderer)), fx.ResultTags(`group:"renderers"`)),
		fx.Annotate(NewGoChartRenderer, fx.As(new(Renderer)), fx.ResultTags(`group:"renderers"`)),
		fx.Annotate(NewEChartsRenderer, fx.As(new(Renderer)), fx.ResultTags(`group:"renderers"`)),
		NewRegistry,
	),
)
