package chart

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Layout, in CSS pixels.
const (
	Padding     = 40.0
	BarGap      = 10.0
	LabelOffset = 20.0
	PointRadius = 6.0

	gridLines      = 5
	tickGap        = 10.0
	tickBaseline   = 4.0
	gridWidth      = 1.0
	lineWidth      = 3.0
	pointRingWidth = 2.0
)

var tickPrinter = message.NewPrinter(language.English)

func formatTick(v float64) string {
	return tickPrinter.Sprintf("%d", int64(v))
}

// Render draws series onto s as a chart of the given kind.
//
// It returns ErrRenderSkipped, without touching the surface, for an empty
// series and for a line chart with fewer than two points. Negative values
// are drawn as zero.
func Render(s Surface, series []Point, kind Kind, size Size, theme Theme) error {
	switch kind {
	case Bar:
		if len(series) == 0 {
			return ErrRenderSkipped
		}
	case Line:
		if len(series) < 2 {
			return ErrRenderSkipped
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	plot := plotArea{
		left:   Padding,
		top:    Padding,
		width:  size.Width - Padding*2,
		height: size.Height - Padding*2,
	}
	if plot.width <= 0 || plot.height <= 0 {
		return fmt.Errorf("%w: %gx%g leaves no plot area", ErrInvalidSize, size.Width, size.Height)
	}

	primary, err := ParseHSL(theme.Primary)
	if err != nil {
		return fmt.Errorf("primary color: %w", err)
	}

	ratio := size.Ratio()
	s.Scale(ratio, ratio)
	s.Clear()

	maxValue := ScaleMax(series)
	drawGrid(s, plot, maxValue, theme)

	if kind == Bar {
		drawBars(s, plot, series, maxValue, primary, theme)
	} else {
		drawLine(s, plot, series, maxValue, primary, theme)
	}
	return nil
}

type plotArea struct {
	left, top, width, height float64
}

func (p plotArea) bottom() float64 { return p.top + p.height }
func (p plotArea) right() float64  { return p.left + p.width }

func (p plotArea) y(value, maxValue float64) float64 {
	return p.bottom() - clampValue(value)/maxValue*p.height
}

func drawGrid(s Surface, plot plotArea, maxValue float64, theme Theme) {
	labels := GridLabels(maxValue)
	for i := 0; i <= gridLines; i++ {
		y := plot.top + plot.height/gridLines*float64(i)

		s.BeginPath()
		s.MoveTo(plot.left, y)
		s.LineTo(plot.right(), y)
		s.Stroke(theme.BorderLight, gridWidth)

		s.FillText(labels[i], plot.left-tickGap, y+tickBaseline, AlignRight, theme.TextSecondary)
	}
}

func drawBars(s Surface, plot plotArea, series []Point, maxValue float64, primary HSL, theme Theme) {
	slot := plot.width / float64(len(series))
	barWidth := math.Max(slot-BarGap, 1)

	for i, p := range series {
		x := plot.left + float64(i)*slot
		y := plot.y(p.Value, maxValue)
		barHeight := plot.bottom() - y

		fill := NewLinearGradient(x, y, x, y+barHeight,
			ColorStop{Offset: 0, Color: primary.WithAlpha(1).String()},
			ColorStop{Offset: 1, Color: primary.WithAlpha(0.5).String()},
		)
		s.FillRect(x, y, barWidth, barHeight, fill)

		s.FillText(p.Label, x+barWidth/2, plot.bottom()+LabelOffset, AlignCenter, theme.TextSecondary)
	}
}

func drawLine(s Surface, plot plotArea, series []Point, maxValue float64, primary HSL, theme Theme) {
	gap := plot.width / float64(len(series)-1)
	xy := func(i int) (float64, float64) {
		return plot.left + float64(i)*gap, plot.y(series[i].Value, maxValue)
	}

	s.BeginPath()
	for i := range series {
		x, y := xy(i)
		if i == 0 {
			s.MoveTo(x, y)
		} else {
			s.LineTo(x, y)
		}
	}
	s.Stroke(primary.String(), lineWidth)

	s.LineTo(plot.right(), plot.bottom())
	s.LineTo(plot.left, plot.bottom())
	s.ClosePath()
	s.Fill(NewLinearGradient(0, plot.top, 0, plot.bottom(),
		ColorStop{Offset: 0, Color: primary.WithAlpha(0.25).String()},
		ColorStop{Offset: 1, Color: primary.WithAlpha(0).String()},
	))

	for i, p := range series {
		x, y := xy(i)
		s.BeginPath()
		s.Arc(x, y, PointRadius, 0, 2*math.Pi)
		s.Fill(Color(theme.Background))
		s.Stroke(primary.String(), pointRingWidth)

		s.FillText(p.Label, x, plot.bottom()+LabelOffset, AlignCenter, theme.TextSecondary)
	}
}
