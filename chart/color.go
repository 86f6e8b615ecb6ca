package chart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for a color string that cannot be parsed.
var ErrInvalidColor = errors.New("chart: invalid color")

// HSL is a color in CSS hsl() notation. H is in degrees, S and L are
// percentages and A is the alpha channel in [0, 1].
type HSL struct {
	H, S, L float64
	A       float64
}

// ParseHSL parses hsl(h, s%, l%), hsla(h, s%, l%, a) and the space separated
// forms hsl(h s% l%) and hsl(h s% l% / a).
func ParseHSL(s string) (HSL, error) {
	in := strings.ToLower(strings.TrimSpace(s))

	var body string
	switch {
	case strings.HasPrefix(in, "hsla(") && strings.HasSuffix(in, ")"):
		body = in[len("hsla(") : len(in)-1]
	case strings.HasPrefix(in, "hsl(") && strings.HasSuffix(in, ")"):
		body = in[len("hsl(") : len(in)-1]
	default:
		return HSL{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	fields := strings.Fields(body)
	if len(fields) != 3 && len(fields) != 4 {
		return HSL{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	c := HSL{A: 1}
	var err error
	if c.H, err = parseComponent(strings.TrimSuffix(fields[0], "deg")); err != nil {
		return HSL{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if c.S, err = parseComponent(strings.TrimSuffix(fields[1], "%")); err != nil {
		return HSL{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if c.L, err = parseComponent(strings.TrimSuffix(fields[2], "%")); err != nil {
		return HSL{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(fields) == 4 {
		a := fields[3]
		pct := strings.HasSuffix(a, "%")
		if c.A, err = parseComponent(strings.TrimSuffix(a, "%")); err != nil {
			return HSL{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		if pct {
			c.A /= 100
		}
		c.A = clampUnit(c.A)
	}
	return c, nil
}

func parseComponent(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// WithAlpha returns c with its alpha channel replaced, clamped to [0, 1].
func (c HSL) WithAlpha(alpha float64) HSL {
	c.A = clampUnit(alpha)
	return c
}

// String formats the color as hsl() when opaque and hsla() otherwise.
func (c HSL) String() string {
	if c.A >= 1 {
		return fmt.Sprintf("hsl(%s, %s%%, %s%%)", num(c.H), num(c.S), num(c.L))
	}
	return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", num(c.H), num(c.S), num(c.L), num(c.A))
}

// WithAlpha rewrites an hsl() or hsla() color string into hsla() notation
// with the given alpha.
func WithAlpha(color string, alpha float64) (string, error) {
	c, err := ParseHSL(color)
	if err != nil {
		return "", err
	}
	c = c.WithAlpha(alpha)
	return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", num(c.H), num(c.S), num(c.L), num(c.A)), nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func clampUnit(f float64) float64 {
	switch {
	case f < 0 || f != f:
		return 0
	case f > 1:
		return 1
	}
	return f
}
