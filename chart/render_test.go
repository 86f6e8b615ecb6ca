package chart

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var size = Size{Width: 440, Height: 300}

func months(values ...float64) []Point {
	labels := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	out := make([]Point, len(values))
	for i, v := range values {
		out[i] = Point{Label: labels[i%len(labels)], Value: v}
	}
	return out
}

func TestScaleMax(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"all zero", []float64{0, 0}, 10},
		{"rounds up", []float64{3, 41}, 50},
		{"exact multiple", []float64{30, 20}, 30},
		{"fraction", []float64{0.5}, 10},
		{"negative only", []float64{-5}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScaleMax(months(tt.values...)))
		})
	}
}

func TestGridLabels(t *testing.T) {
	assert.Equal(t, []string{"10", "8", "6", "4", "2", "0"}, GridLabels(10))
	assert.Equal(t, []string{"45,000", "36,000", "27,000", "18,000", "9,000", "0"}, GridLabels(45000))
}

func TestRender_ZeroSeriesDrawsGrid(t *testing.T) {
	for _, kind := range []Kind{Bar, Line} {
		t.Run(string(kind), func(t *testing.T) {
			rec := &Recorder{}
			require.NoError(t, Render(rec, months(0, 0), kind, size, LightTheme()))

			var labels []string
			for _, op := range rec.Named("FillText") {
				if op.Align == AlignRight {
					labels = append(labels, op.Text)
				}
			}
			assert.Equal(t, []string{"10", "8", "6", "4", "2", "0"}, labels)
		})
	}
}

func TestRender_SetupOrder(t *testing.T) {
	rec := &Recorder{}
	require.NoError(t, Render(rec, months(5, 7), Bar, Size{Width: 440, Height: 300, PixelRatio: 2}, LightTheme()))
	require.GreaterOrEqual(t, len(rec.Ops), 2)
	assert.Equal(t, Op{Name: "Scale", Args: []float64{2, 2}}, rec.Ops[0])
	assert.Equal(t, "Clear", rec.Ops[1].Name)

	rec = &Recorder{}
	require.NoError(t, Render(rec, months(5, 7), Bar, size, LightTheme()))
	assert.Equal(t, []float64{1, 1}, rec.Ops[0].Args)
}

func TestRender_Skipped(t *testing.T) {
	tests := []struct {
		name   string
		series []Point
		kind   Kind
	}{
		{"nil bar", nil, Bar},
		{"empty line", []Point{}, Line},
		{"single point line", months(4), Line},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recorder{}
			err := Render(rec, tt.series, tt.kind, size, LightTheme())
			assert.ErrorIs(t, err, ErrRenderSkipped)
			assert.Empty(t, rec.Ops)
		})
	}

	rec := &Recorder{}
	require.NoError(t, Render(rec, months(4), Bar, size, LightTheme()))
	assert.Len(t, rec.Named("FillRect"), 1)
}

func TestRender_Errors(t *testing.T) {
	_, err := ParseKind("pie")
	assert.ErrorIs(t, err, ErrUnknownKind)

	err = Render(&Recorder{}, months(1, 2), Kind("pie"), size, LightTheme())
	assert.ErrorIs(t, err, ErrUnknownKind)

	err = Render(&Recorder{}, months(1, 2), Bar, Size{Width: 60, Height: 300}, LightTheme())
	assert.ErrorIs(t, err, ErrInvalidSize)

	theme := LightTheme()
	theme.Primary = "blue"
	err = Render(&Recorder{}, months(1, 2), Bar, size, theme)
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestRender_BarGeometry(t *testing.T) {
	rec := &Recorder{}
	theme := LightTheme()
	require.NoError(t, Render(rec, months(10, 20), Bar, size, theme))

	// plot is 360x220; two slots of 180 with a 10px gap.
	rects := rec.Named("FillRect")
	require.Len(t, rects, 2)
	assert.InDeltaSlice(t, []float64{40, 150, 170, 110}, rects[0].Args, 1e-9)
	assert.InDeltaSlice(t, []float64{220, 40, 170, 220}, rects[1].Args, 1e-9)

	grad, ok := rects[0].Paint.(*LinearGradient)
	require.True(t, ok)
	assert.Equal(t, 150.0, grad.Y0)
	assert.Equal(t, 260.0, grad.Y1)
	require.Len(t, grad.Stops, 2)
	assert.Equal(t, "hsl(221, 83%, 53%)", grad.Stops[0].Color)
	assert.Equal(t, "hsla(221, 83%, 53%, 0.5)", grad.Stops[1].Color)

	var barLabels []Op
	for _, op := range rec.Named("FillText") {
		if op.Align == AlignCenter {
			barLabels = append(barLabels, op)
		}
	}
	require.Len(t, barLabels, 2)
	assert.Equal(t, "Jan", barLabels[0].Text)
	assert.InDeltaSlice(t, []float64{125, 280}, barLabels[0].Args, 1e-9)
}

func TestRender_LineGeometry(t *testing.T) {
	rec := &Recorder{}
	theme := DarkTheme()
	require.NoError(t, Render(rec, months(0, 10, 5), Line, size, theme))

	arcs := rec.Named("Arc")
	require.Len(t, arcs, 3)
	assert.InDelta(t, 40.0, arcs[0].Args[0], 1e-9)
	assert.InDelta(t, 260.0, arcs[0].Args[1], 1e-9)
	assert.InDelta(t, 220.0, arcs[1].Args[0], 1e-9)
	assert.InDelta(t, 40.0, arcs[1].Args[1], 1e-9)
	assert.InDelta(t, 400.0, arcs[2].Args[0], 1e-9)
	assert.InDelta(t, 150.0, arcs[2].Args[1], 1e-9)
	assert.Equal(t, PointRadius, arcs[0].Args[2])

	fills := rec.Named("Fill")
	require.Len(t, fills, 4)
	area, ok := fills[0].Paint.(*LinearGradient)
	require.True(t, ok)
	assert.Equal(t, "hsla(217, 91%, 60%, 0.25)", area.Stops[0].Color)
	assert.Equal(t, "hsla(217, 91%, 60%, 0)", area.Stops[1].Color)
	assert.Equal(t, Color(theme.Background), fills[1].Paint)

	strokes := rec.Named("Stroke")
	// 6 grid lines, the polyline and one ring per point.
	require.Len(t, strokes, 6+1+3)
	assert.Equal(t, []float64{3}, strokes[6].Args)
	assert.Equal(t, []float64{2}, strokes[7].Args)
	assert.Equal(t, theme.Primary, strokes[7].Color)
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, months(10, 40, 25), Line, Size{Width: 300, Height: 200, PixelRatio: 2}, LightTheme()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	// The plot area carries ink somewhere along the bottom grid line.
	_, _, _, a := img.At(300, 2*(200-40)).RGBA()
	assert.NotZero(t, a)

	buf.Reset()
	require.NoError(t, RenderPNG(&buf, nil, Bar, Size{Width: 100, Height: 100}, LightTheme()))
	assert.NotZero(t, buf.Len(), "a skipped render still yields an image")
}

func inkBounds(img *image.RGBA) image.Rectangle {
	var box image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A == 0 {
				continue
			}
			box = box.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return box
}

func TestRaster_TextFollowsScale(t *testing.T) {
	const black = "hsl(0, 0%, 0%)"

	one := NewRaster(80, 40)
	one.FillText("Mar", 10, 20, AlignLeft, black)
	require.NoError(t, one.Err())
	small := inkBounds(one.Image())
	require.False(t, small.Empty())

	two := NewRaster(160, 80)
	two.Scale(2, 2)
	two.FillText("Mar", 10, 20, AlignLeft, black)
	large := inkBounds(two.Image())
	require.False(t, large.Empty())

	assert.InDelta(t, 2*small.Dy(), large.Dy(), 2)
	assert.InDelta(t, 2*small.Dx(), large.Dx(), 2)
	assert.InDelta(t, 2*small.Min.X, large.Min.X, 2)
}
