package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// arcSegments is the number of line segments approximating a full circle.
const arcSegments = 48

type vec struct{ x, y float64 }

type subpath struct {
	points []vec
	closed bool
}

// Raster is a Surface backed by an *image.RGBA. Paths are rasterized with
// anti-aliasing; text uses a 7x13 bitmap face scaled with the surface.
//
// Drawing methods never fail; the first color that could not be parsed is
// reported by Err.
type Raster struct {
	img    *image.RGBA
	sx, sy float64
	path   []subpath
	err    error
}

// NewRaster returns a transparent surface of the given device pixel size.
func NewRaster(width, height int) *Raster {
	return &Raster{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		sx:  1,
		sy:  1,
	}
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

// Err returns the first color parsing error, if any.
func (r *Raster) Err() error { return r.err }

// EncodePNG writes the surface as a PNG image.
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

func (r *Raster) Scale(sx, sy float64) {
	r.sx *= sx
	r.sy *= sy
}

func (r *Raster) Clear() {
	clear(r.img.Pix)
}

func (r *Raster) BeginPath() {
	r.path = r.path[:0]
}

func (r *Raster) MoveTo(x, y float64) {
	r.path = append(r.path, subpath{points: []vec{r.device(x, y)}})
}

func (r *Raster) LineTo(x, y float64) {
	if len(r.path) == 0 {
		r.MoveTo(x, y)
		return
	}
	last := &r.path[len(r.path)-1]
	last.points = append(last.points, r.device(x, y))
}

func (r *Raster) Arc(x, y, radius, startAngle, endAngle float64) {
	sweep := endAngle - startAngle
	if sweep > 2*math.Pi {
		sweep = 2 * math.Pi
	}
	steps := int(math.Ceil(math.Abs(sweep) / (2 * math.Pi) * arcSegments))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		a := startAngle + sweep*float64(i)/float64(steps)
		px, py := x+radius*math.Cos(a), y+radius*math.Sin(a)
		if i == 0 && len(r.path) == 0 {
			r.MoveTo(px, py)
			continue
		}
		r.LineTo(px, py)
	}
}

func (r *Raster) ClosePath() {
	if len(r.path) == 0 {
		return
	}
	last := r.path[len(r.path)-1]
	r.path[len(r.path)-1].closed = true
	// Subsequent segments start a new subpath at the closing point.
	r.path = append(r.path, subpath{points: []vec{last.points[0]}})
}

func (r *Raster) Fill(p Paint) {
	z := r.rasterizer()
	for _, sp := range r.path {
		if len(sp.points) < 3 {
			continue
		}
		addPolygon(z, sp.points)
	}
	r.draw(z, p)
}

func (r *Raster) Stroke(c string, width float64) {
	half := width * (r.sx + r.sy) / 4
	if half <= 0 {
		return
	}
	z := r.rasterizer()
	for _, sp := range r.path {
		pts := sp.points
		if sp.closed && len(pts) > 1 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		if len(pts) < 2 {
			continue
		}
		for i := 1; i < len(pts); i++ {
			addSegment(z, pts[i-1], pts[i], half)
		}
		// Round joins and caps.
		for _, pt := range pts {
			addCircle(z, pt, half)
		}
	}
	r.draw(z, Color(c))
}

func (r *Raster) FillRect(x, y, w, h float64, p Paint) {
	if w == 0 || h == 0 {
		return
	}
	z := r.rasterizer()
	addPolygon(z, []vec{
		r.device(x, y),
		r.device(x+w, y),
		r.device(x+w, y+h),
		r.device(x, y+h),
	})
	r.draw(z, p)
}

// FillText draws the 7x13 face into a mask and scales it with the surface,
// so labels keep their size relative to the geometry at any pixel ratio.
func (r *Raster) FillText(text string, x, y float64, align Align, c string) {
	col, ok := r.color(c)
	if !ok || text == "" {
		return
	}
	face := basicfont.Face7x13
	metrics := face.Metrics()
	ascent, descent := metrics.Ascent.Ceil(), metrics.Descent.Ceil()
	width := font.MeasureString(face, text).Ceil()
	if width == 0 {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, ascent+descent))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	left := x
	switch align {
	case AlignCenter:
		left -= float64(width) / 2
	case AlignRight:
		left -= float64(width)
	}
	top := y - float64(ascent)
	p0 := r.device(left, top)
	p1 := r.device(left+float64(width), top+float64(ascent+descent))
	dst := image.Rect(
		int(math.Round(p0.x)), int(math.Round(p0.y)),
		int(math.Round(p1.x)), int(math.Round(p1.y)),
	)
	if dst.Empty() {
		return
	}

	var src image.Image = mask
	if dst.Size() != mask.Bounds().Size() {
		scaled := image.NewAlpha(image.Rect(0, 0, dst.Dx(), dst.Dy()))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)
		src = scaled
	}
	xdraw.DrawMask(r.img, dst, image.NewUniform(col), image.Point{}, src, image.Point{}, xdraw.Over)
}

func (r *Raster) device(x, y float64) vec {
	return vec{x * r.sx, y * r.sy}
}

func (r *Raster) rasterizer() *vector.Rasterizer {
	b := r.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func (r *Raster) draw(z *vector.Rasterizer, p Paint) {
	var src image.Image
	switch p := p.(type) {
	case Color:
		col, ok := r.color(string(p))
		if !ok {
			return
		}
		src = image.NewUniform(col)
	case *LinearGradient:
		g, ok := r.gradient(p)
		if !ok {
			return
		}
		src = g
	default:
		return
	}
	z.Draw(r.img, r.img.Bounds(), src, image.Point{})
}

func (r *Raster) color(s string) (color.NRGBA, bool) {
	c, err := ParseColor(s)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return color.NRGBA{}, false
	}
	return c, true
}

func (r *Raster) gradient(g *LinearGradient) (*gradientImage, bool) {
	out := &gradientImage{
		bounds: r.img.Bounds(),
		from:   r.device(g.X0, g.Y0),
		to:     r.device(g.X1, g.Y1),
	}
	for _, stop := range g.Stops {
		c, ok := r.color(stop.Color)
		if !ok {
			return nil, false
		}
		out.stops = append(out.stops, nrgbaStop{offset: clampUnit(stop.Offset), color: c})
	}
	return out, len(out.stops) > 0
}

// ParseColor converts a CSS hsl()/hsla() or hex color to NRGBA.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	}

	hsl, err := ParseHSL(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	h := math.Mod(hsl.H, 360)
	if h < 0 {
		h += 360
	}
	c := colorful.Hsl(h, clampUnit(hsl.S/100), clampUnit(hsl.L/100)).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(hsl.A * 255))}, nil
}

type nrgbaStop struct {
	offset float64
	color  color.NRGBA
}

// gradientImage is an unbounded linear gradient in device space.
type gradientImage struct {
	bounds   image.Rectangle
	from, to vec
	stops    []nrgbaStop
}

func (g *gradientImage) ColorModel() color.Model { return color.NRGBAModel }

func (g *gradientImage) Bounds() image.Rectangle { return g.bounds }

func (g *gradientImage) At(x, y int) color.Color {
	dx, dy := g.to.x-g.from.x, g.to.y-g.from.y
	t := 0.0
	if l2 := dx*dx + dy*dy; l2 > 0 {
		px, py := float64(x)+0.5-g.from.x, float64(y)+0.5-g.from.y
		t = clampUnit((px*dx + py*dy) / l2)
	}
	return g.colorAt(t)
}

func (g *gradientImage) colorAt(t float64) color.NRGBA {
	first, last := g.stops[0], g.stops[len(g.stops)-1]
	if t <= first.offset {
		return first.color
	}
	if t >= last.offset {
		return last.color
	}
	for i := 1; i < len(g.stops); i++ {
		a, b := g.stops[i-1], g.stops[i]
		if t > b.offset {
			continue
		}
		span := b.offset - a.offset
		if span <= 0 {
			return b.color
		}
		f := (t - a.offset) / span
		return color.NRGBA{
			R: lerp8(a.color.R, b.color.R, f),
			G: lerp8(a.color.G, b.color.G, f),
			B: lerp8(a.color.B, b.color.B, f),
			A: lerp8(a.color.A, b.color.A, f),
		}
	}
	return last.color
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

// addPolygon adds a closed polygon with a consistent winding so that
// overlapping shapes accumulate rather than cancel.
func addPolygon(z *vector.Rasterizer, pts []vec) {
	if len(pts) < 3 {
		return
	}
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].x*pts[j].y - pts[j].x*pts[i].y
	}
	if area == 0 {
		return
	}
	if area < 0 {
		rev := make([]vec, len(pts))
		for i, p := range pts {
			rev[len(pts)-1-i] = p
		}
		pts = rev
	}
	z.MoveTo(float32(pts[0].x), float32(pts[0].y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.x), float32(p.y))
	}
	z.ClosePath()
}

func addSegment(z *vector.Rasterizer, a, b vec, half float64) {
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*half, dx/l*half
	addPolygon(z, []vec{
		{a.x + nx, a.y + ny},
		{b.x + nx, b.y + ny},
		{b.x - nx, b.y - ny},
		{a.x - nx, a.y - ny},
	})
}

func addCircle(z *vector.Rasterizer, c vec, radius float64) {
	pts := make([]vec, 16)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(len(pts))
		pts[i] = vec{c.x + radius*math.Cos(a), c.y + radius*math.Sin(a)}
	}
	addPolygon(z, pts)
}

// RenderPNG renders a chart on a fresh Raster and writes it as PNG. A
// skipped render still writes the blank surface.
func RenderPNG(w io.Writer, series []Point, kind Kind, size Size, theme Theme) error {
	width, height := size.Device()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSize, size.Width, size.Height)
	}
	r := NewRaster(width, height)
	if err := Render(r, series, kind, size, theme); err != nil && !errors.Is(err, ErrRenderSkipped) {
		return err
	}
	if err := r.Err(); err != nil {
		return err
	}
	return r.EncodePNG(w)
}
