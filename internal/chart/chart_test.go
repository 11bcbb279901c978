package chart

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuzzplot/internal/types"
)

func TestAnnotationRuleTargets(t *testing.T) {
	every := AnnotationRule{Series: []string{"me", "min"}, EveryHours: 2}
	assert.Equal(t, []float64{2, 4, 6}, every.Targets(7.9))
	assert.Equal(t, []float64{2, 4, 6, 8}, every.Targets(8))
	assert.Empty(t, every.Targets(1.5))

	at := AnnotationRule{Series: []string{"sa"}, AtHours: []float64{22, 24}}
	assert.Equal(t, []float64{22, 24}, at.Targets(3))

	assert.True(t, every.Matches("min"))
	assert.False(t, every.Matches("sa"))
}

func TestAnnotationRuleDescribe(t *testing.T) {
	assert.Equal(t, "me/min every 2h", AnnotationRule{Series: []string{"me", "min"}, EveryHours: 2}.Describe())
	assert.Equal(t, "sa @22h/24h", AnnotationRule{Series: []string{"sa"}, AtHours: []float64{22, 24}}.Describe())
	assert.Equal(t, "", AnnotationRule{Series: []string{"x"}}.Describe())
}

func TestAnnotate(t *testing.T) {
	points := []types.Point{
		{Hours: 1.5, Value: 10},
		{Hours: 2.1, Value: 12.34567},
		{Hours: 4.0, Value: 15},
		{Hours: 4.7, Value: 15.5},
	}
	got := Annotate(points, AnnotationRule{Series: []string{"me"}, EveryHours: 2, AtHours: []float64{9}})

	require.Len(t, got, 2) // 9h is past the end of the series
	assert.InDelta(t, 2.15, got[0].X, 1e-12)
	assert.InDelta(t, 12.64567, got[0].Y, 1e-12)
	assert.Equal(t, "12.3457%", got[0].Text)
	assert.Equal(t, 8.0, got[0].FontSize)
	assert.Equal(t, "15.0000%", got[1].Text)

	assert.Nil(t, Annotate(nil, AnnotationRule{EveryHours: 1}))
}

func TestChartValidate(t *testing.T) {
	c := New("t", "x", "y", 10, 6)
	assert.ErrorIs(t, c.Validate(), ErrEmptyChart)

	c.Lines = append(c.Lines, Line{Name: "a", Color: color.Black, Points: []types.Point{{Hours: 1, Value: 1}}})
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"a"}, c.SeriesNames())

	c.Bands = append(c.Bands, Band{Name: "b", X: []float64{1, 2}, Low: []float64{1}, High: []float64{1, 2}})
	assert.Error(t, c.Validate())

	bad := New("t", "x", "y", 0, 6)
	bad.Lines = c.Lines
	assert.Error(t, bad.Validate())
}

func TestLimits(t *testing.T) {
	assert.Equal(t, Limits{Min: 0, Max: 24, HasMin: true, HasMax: true}, Between(0, 24))
	assert.Equal(t, Limits{Min: 20, HasMin: true}, From(20))
}

func TestPalette(t *testing.T) {
	tab, err := NewPalette("", 3)
	require.NoError(t, err)
	assert.Len(t, tab, 10)
	assert.Equal(t, "#1f77b4", Hex(tab.At(0)))
	assert.Equal(t, "#1f77b4", Hex(tab.At(10)))

	set1, err := NewPalette("brewer:Set1", 4)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(set1), 3)

	// more colours than the scheme has falls back to its largest size
	many, err := NewPalette("brewer:Set1", 40)
	require.NoError(t, err)
	assert.NotEmpty(t, many)

	_, err = NewPalette("viridis", 3)
	assert.Error(t, err)
	_, err = NewPalette("brewer:NoSuchScheme", 3)
	assert.Error(t, err)

	assert.Equal(t, color.Black, Palette(nil).At(3))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "tab:orange", want: "#ff7f0e"},
		{in: "TAB:Blue", want: "#1f77b4"},
		{in: "#2ca02c", want: "#2ca02c"},
		{in: "2ca02c80", want: "#2ca02c"},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, Hex(c))
		})
	}

	c, err := ParseHex("#2ca02c80")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0x80}, c)
	assert.Equal(t, uint8(128), WithAlpha(c, 0.5).A)
}
