package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/palette/brewer"
)

// Palette is a colour cycle; At wraps around
type Palette []color.Color

func (p Palette) At(i int) color.Color {
	if len(p) == 0 {
		return color.Black
	}
	return p[i%len(p)]
}

// Tab10 is the ten colour cycle most plotting tools default to
func Tab10() Palette {
	hexes := []string{
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	}
	p := make(Palette, len(hexes))
	for i, h := range hexes {
		p[i], _ = ParseHex(h)
	}
	return p
}

// named colours accepted in profiles besides hex codes
var tabColors = map[string]string{
	"tab:blue":   "#1f77b4",
	"tab:orange": "#ff7f0e",
	"tab:green":  "#2ca02c",
	"tab:red":    "#d62728",
	"tab:purple": "#9467bd",
	"tab:brown":  "#8c564b",
	"tab:pink":   "#e377c2",
	"tab:gray":   "#7f7f7f",
	"tab:olive":  "#bcbd22",
	"tab:cyan":   "#17becf",
	"black":      "#000000",
}

// NewPalette resolves "tab10" or "brewer:<name>" (a qualitative ColorBrewer
// scheme such as brewer:Set1). n is a hint for how many colours are needed.
func NewPalette(name string, n int) (Palette, error) {
	if name == "" || name == "tab10" {
		return Tab10(), nil
	}
	scheme, ok := strings.CutPrefix(name, "brewer:")
	if !ok {
		return nil, fmt.Errorf("unknown palette %q", name)
	}

	// brewer schemes have between 3 and a scheme-specific maximum of colours
	var lastErr error
	for k := max(n, 3); k >= 3; k-- {
		p, err := brewer.GetPalette(brewer.TypeQualitative, scheme, k)
		if err != nil {
			lastErr = err
			continue
		}
		return Palette(p.Colors()), nil
	}
	return nil, fmt.Errorf("brewer palette %q: %w", scheme, lastErr)
}

// ParseColor accepts "#rrggbb", "#rrggbbaa" or a tab:<name> colour
func ParseColor(s string) (color.Color, error) {
	if hex, ok := tabColors[strings.ToLower(s)]; ok {
		s = hex
	}
	return ParseHex(s)
}

func ParseHex(s string) (color.Color, error) {
	raw := strings.TrimPrefix(s, "#")
	if len(raw) != 6 && len(raw) != 8 {
		return nil, fmt.Errorf("bad colour %q", s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad colour %q: %w", s, err)
	}
	if len(raw) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats c as "#rrggbb", dropping alpha
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// WithAlpha returns c with its opacity replaced, alpha in [0, 1]
func WithAlpha(c color.Color, alpha float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(alpha*255 + 0.5)
	return n
}
