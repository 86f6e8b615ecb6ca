package chart

// Align is the horizontal text alignment relative to the anchor point.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Paint is a fill style: a Color or a *LinearGradient.
type Paint interface {
	isPaint()
}

// Color is a solid CSS color.
type Color string

func (Color) isPaint() {}

// ColorStop is one gradient stop. Offset is in [0, 1].
type ColorStop struct {
	Offset float64
	Color  string
}

// LinearGradient interpolates its stops along the line from (X0, Y0) to
// (X1, Y1), in the surface's user coordinates.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

func (*LinearGradient) isPaint() {}

// NewLinearGradient returns a gradient with the given stops.
func NewLinearGradient(x0, y0, x1, y1 float64, stops ...ColorStop) *LinearGradient {
	return &LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: stops}
}

// Surface is a 2D drawing context. Coordinates are user units, transformed
// by the accumulated Scale. Path operations build the current path, which
// persists across Fill and Stroke until BeginPath.
type Surface interface {
	Scale(sx, sy float64)
	Clear()

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a circular arc; angles are in radians.
	Arc(x, y, radius, startAngle, endAngle float64)
	ClosePath()
	Fill(p Paint)
	Stroke(color string, width float64)

	FillRect(x, y, w, h float64, p Paint)
	// FillText draws text with its baseline at y.
	FillText(text string, x, y float64, align Align, color string)
}
