package chart

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrRenderSkipped is returned when a series cannot be drawn. The surface
	// is left untouched; callers treat it as a no-op.
	ErrRenderSkipped = errors.New("chart: render skipped")

	// ErrUnknownKind is returned for an unsupported chart kind.
	ErrUnknownKind = errors.New("chart: unknown kind")

	// ErrInvalidSize is returned when the plot area would be empty.
	ErrInvalidSize = errors.New("chart: invalid size")
)

// Point is one labeled value. Slice order is x-axis order.
type Point struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Kind selects the chart variant.
type Kind string

const (
	Bar  Kind = "bar"
	Line Kind = "line"
)

// ParseKind parses "bar" or "line", ignoring case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Bar, Line:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Size is the CSS pixel size of the chart and the device pixel ratio.
type Size struct {
	Width      float64
	Height     float64
	PixelRatio float64
}

// Ratio returns the device pixel ratio, defaulting to 1.
func (s Size) Ratio() float64 {
	if s.PixelRatio <= 0 {
		return 1
	}
	return s.PixelRatio
}

// Device returns the surface size in device pixels.
func (s Size) Device() (width, height int) {
	r := s.Ratio()
	return int(math.Ceil(s.Width * r)), int(math.Ceil(s.Height * r))
}

// ScaleMax returns the top of the value axis: the largest value rounded up
// to a multiple of ten, or 10 when no value is positive.
func ScaleMax(series []Point) float64 {
	top := 0.0
	for _, p := range series {
		if p.Value > top {
			top = p.Value
		}
	}
	if top <= 0 || math.IsInf(top, 0) {
		return 10
	}
	return math.Ceil(top/10) * 10
}

// GridLabels returns the value axis labels from top to bottom.
func GridLabels(maxValue float64) []string {
	labels := make([]string, gridLines+1)
	for i := range labels {
		labels[i] = formatTick(math.Round(maxValue - maxValue/gridLines*float64(i)))
	}
	return labels
}

func clampValue(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
