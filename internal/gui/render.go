package gui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/fieldsim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
)

// Rings per fan triangle when a fill paint varies over the shape.
const gradientBands = 8

// Backend draws flattened scene geometry with raylib's 2D primitives. It
// must be used between BeginDrawing (or BeginTextureMode) and the matching
// End call.
type Backend struct {
	Background surface.Color
}

func NewBackend() *Backend {
	return &Backend{Background: surface.Hex("#0a0a0a")}
}

func toColor(c surface.Color) rl.Color {
	n := c.NRGBA()
	return rl.NewColor(n.R, n.G, n.B, n.A)
}

func vec(p r2.Vec) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

func (b *Backend) Clear() {
	rl.ClearBackground(toColor(b.Background))
}

func (b *Backend) StrokePaths(paths []surface.Path, st *surface.State) {
	w := float32(st.DeviceLineWidth())
	for _, p := range surface.DashPaths(paths, st.DeviceDash()) {
		pts := p.Points
		if p.Closed && len(pts) > 1 {
			pts = append(slices.Clone(pts), pts[0])
		}
		for i := 1; i < len(pts); i++ {
			mid := r2.Scale(0.5, r2.Add(pts[i-1], pts[i]))
			rl.DrawLineEx(vec(pts[i-1]), vec(pts[i]), w, toColor(st.PaintAt(st.Stroke, mid)))
		}
	}
}

// FillPaths fans each path out from its centroid. Scene fills are convex
// (discs, rectangles, arrowheads) so the fan covers them exactly.
func (b *Backend) FillPaths(paths []surface.Path, st *surface.State) {
	_, solid := st.Fill.(surface.Color)
	for _, p := range paths {
		if len(p.Points) < 3 {
			continue
		}
		c := centroid(p.Points)
		for i := range p.Points {
			a, e := p.Points[i], p.Points[(i+1)%len(p.Points)]
			if solid {
				triangle(c, a, e, toColor(st.PaintAt(st.Fill, c)))
				continue
			}
			fillBanded(c, a, e, st)
		}
	}
}

// fillBanded splits the triangle (c, a, e) into bands parallel to a-e,
// each coloured at its middle, so radial paints keep their falloff.
func fillBanded(c, a, e r2.Vec, st *surface.State) {
	lerp := func(p r2.Vec, t float64) r2.Vec { return r2.Add(c, r2.Scale(t, r2.Sub(p, c))) }
	for k := range gradientBands {
		t0 := float64(k) / gradientBands
		t1 := float64(k+1) / gradientBands
		a0, e0, a1, e1 := lerp(a, t0), lerp(e, t0), lerp(a, t1), lerp(e, t1)
		col := toColor(st.PaintAt(st.Fill, lerp(r2.Scale(0.5, r2.Add(a, e)), (t0+t1)/2)))
		triangle(a0, a1, e1, col)
		if k > 0 {
			triangle(a0, e1, e0, col)
		}
	}
}

// triangle draws with the counter-clockwise on-screen winding raylib
// expects, whichever order the points arrive in.
func triangle(a, b, c r2.Vec, col rl.Color) {
	if r2.Cross(r2.Sub(b, a), r2.Sub(c, a)) > 0 {
		b, c = c, b
	}
	rl.DrawTriangle(vec(a), vec(b), vec(c), col)
}

func centroid(pts []r2.Vec) r2.Vec {
	var s r2.Vec
	for _, p := range pts {
		s = r2.Add(s, p)
	}
	return r2.Scale(1/float64(len(pts)), s)
}

// FillText uses raylib's default font. Rotation is ignored; the scene only
// rotates geometry.
func (b *Backend) FillText(text string, at r2.Vec, st *surface.State) {
	size := int32(st.Font.Size*st.Transform.Scale() + 0.5)
	x, y := int32(at.X), int32(at.Y)
	if st.Align == surface.AlignCenter {
		x -= rl.MeasureText(text, size) / 2
	}
	switch st.Baseline {
	case surface.BaselineMiddle:
		y -= size / 2
	default:
		y -= size * 4 / 5
	}
	rl.DrawText(text, x, y, size, toColor(st.PaintAt(st.Fill, at)))
}
