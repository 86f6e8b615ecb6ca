package chart

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHSL(t *testing.T) {
	tests := []struct {
		in   string
		want HSL
	}{
		{"hsl(221, 83%, 53%)", HSL{H: 221, S: 83, L: 53, A: 1}},
		{"HSL(221,83%,53%)", HSL{H: 221, S: 83, L: 53, A: 1}},
		{"hsla(10, 50%, 40%, 0.3)", HSL{H: 10, S: 50, L: 40, A: 0.3}},
		{"hsl(10 50% 40%)", HSL{H: 10, S: 50, L: 40, A: 1}},
		{"hsl(10deg 50% 40% / 25%)", HSL{H: 10, S: 50, L: 40, A: 0.25}},
		{"hsla(0, 0%, 100%, 7)", HSL{H: 0, S: 0, L: 100, A: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHSL(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.H, got.H, 1e-9)
			assert.InDelta(t, tt.want.S, got.S, 1e-9)
			assert.InDelta(t, tt.want.L, got.L, 1e-9)
			assert.InDelta(t, tt.want.A, got.A, 1e-9)
		})
	}

	for _, bad := range []string{"", "blue", "#fff", "hsl(1, 2%)", "hsl(a, 2%, 3%)", "rgb(1, 2, 3)"} {
		_, err := ParseHSL(bad)
		assert.ErrorIs(t, err, ErrInvalidColor, bad)
	}
}

func TestWithAlpha(t *testing.T) {
	tests := []struct {
		in    string
		alpha float64
		want  string
	}{
		{"hsl(221, 83%, 53%)", 0.5, "hsla(221, 83%, 53%, 0.5)"},
		{"hsl(221, 83%, 53%)", 0, "hsla(221, 83%, 53%, 0)"},
		{"hsl(221, 83%, 53%)", 1, "hsla(221, 83%, 53%, 1)"},
		{"hsla(221, 83%, 53%, 0.9)", 0.25, "hsla(221, 83%, 53%, 0.25)"},
		{"hsl(221 83% 53%)", 0.125, "hsla(221, 83%, 53%, 0.125)"},
		{"hsl(221, 83%, 53%)", 3, "hsla(221, 83%, 53%, 1)"},
		{"hsl(221, 83%, 53%)", -1, "hsla(221, 83%, 53%, 0)"},
	}
	for _, tt := range tests {
		got, err := WithAlpha(tt.in, tt.alpha)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := WithAlpha("red", 0.5)
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("hsl(0, 100%, 50%)")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, c)

	c, err = ParseColor("hsla(0, 0%, 100%, 0.5)")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 128}, c)

	c, err = ParseColor("#ffffff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c)
}

func TestThemes(t *testing.T) {
	require.NoError(t, LightTheme().Validate())
	require.NoError(t, DarkTheme().Validate())
	assert.Equal(t, "dark", ThemeByName("Dark").Name)
	assert.Equal(t, "light", ThemeByName("").Name)

	bad := LightTheme()
	bad.BorderLight = "grey"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidColor)
}
