package surface

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Paint is anything a shape can be stroked or filled with. Coordinates are
// in the user space that was current when the paint was applied.
type Paint interface {
	ColorAt(x, y float64) Color
}

// Color is an sRGB colour with straight alpha.
type Color struct {
	RGB colorful.Color
	A   float64
}

// RGBA builds a colour from 0-255 channels. Channels are clamped the way a
// CSS rgba() string is, so callers may pass out-of-range intensities.
func RGBA(r, g, b, a float64) Color {
	return Color{
		RGB: colorful.Color{R: clamp01(r / 255), G: clamp01(g / 255), B: clamp01(b / 255)},
		A:   clamp01(a),
	}
}

// ParseHex parses "#rgb" or "#rrggbb".
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("surface: bad colour %q: %w", s, err)
	}
	return Color{RGB: c, A: 1}, nil
}

// Hex is ParseHex for package-level palettes; it panics on a malformed
// literal.
func Hex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) ColorAt(float64, float64) Color { return c }

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.RGB.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(c.A) * 255))}
}

// Hex returns the opaque part as "#rrggbb".
func (c Color) Hex() string {
	return c.RGB.Clamped().Hex()
}

// CSS renders the colour as an rgba() string.
func (c Color) CSS() string {
	r, g, b := c.RGB.Clamped().RGB255()
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", r, g, b, c.A)
}

// Blend interpolates in RGB, alpha included.
func (c Color) Blend(o Color, t float64) Color {
	return Color{
		RGB: c.RGB.BlendRgb(o.RGB, t),
		A:   c.A + (o.A-c.A)*t,
	}
}

type Stop struct {
	Offset float64
	Color  Color
}

// Gradient is a linear or two-circle radial gradient.
type Gradient struct {
	Radial bool

	X0, Y0, R0 float64
	X1, Y1, R1 float64

	Stops []Stop
}

func LinearGradient(x0, y0, x1, y1 float64) *Gradient {
	return &Gradient{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func RadialGradient(x0, y0, r0, x1, y1, r1 float64) *Gradient {
	return &Gradient{Radial: true, X0: x0, Y0: y0, R0: r0, X1: x1, Y1: y1, R1: r1}
}

// AddStop appends a colour stop. Stops must be added in offset order.
func (g *Gradient) AddStop(offset float64, c Color) *Gradient {
	g.Stops = append(g.Stops, Stop{Offset: clamp01(offset), Color: c})
	return g
}

// At returns the colour at gradient parameter t, padded at both ends.
func (g *Gradient) At(t float64) Color {
	if len(g.Stops) == 0 {
		return Color{}
	}
	if t <= g.Stops[0].Offset {
		return g.Stops[0].Color
	}
	for i := 1; i < len(g.Stops); i++ {
		a, b := g.Stops[i-1], g.Stops[i]
		if t <= b.Offset {
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return a.Color.Blend(b.Color, (t-a.Offset)/span)
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}

func (g *Gradient) ColorAt(x, y float64) Color {
	return g.At(g.Param(x, y))
}

// Param maps a point to the gradient parameter.
func (g *Gradient) Param(x, y float64) float64 {
	if !g.Radial {
		dx, dy := g.X1-g.X0, g.Y1-g.Y0
		l2 := dx*dx + dy*dy
		if l2 == 0 {
			return 0
		}
		return ((x-g.X0)*dx + (y-g.Y0)*dy) / l2
	}

	// Largest t with |p - c(t)| = r(t) and r(t) >= 0, where the circle
	// interpolates from (X0, Y0, R0) to (X1, Y1, R1).
	cdx, cdy, dr := g.X1-g.X0, g.Y1-g.Y0, g.R1-g.R0
	px, py := x-g.X0, y-g.Y0

	a := cdx*cdx + cdy*cdy - dr*dr
	b := px*cdx + py*cdy + g.R0*dr
	c := px*px + py*py - g.R0*g.R0

	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return 0
		}
		return c / (2 * b)
	}
	disc := b*b - a*c
	if disc < 0 {
		return 0
	}
	sq := math.Sqrt(disc)
	t0, t1 := (b+sq)/a, (b-sq)/a
	if t0 < t1 {
		t0, t1 = t1, t0
	}
	if g.R0+t0*dr >= 0 {
		return t0
	}
	return t1
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
