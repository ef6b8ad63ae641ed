package surface

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Surface is the immediate-mode drawing API the renderers draw through.
// It follows the 2D canvas model: a current path built with MoveTo/LineTo/
// Arc, painted by Stroke or Fill with the current style state.
type Surface interface {
	Clear()

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(rad float64)

	SetStrokeStyle(p Paint)
	SetFillStyle(p Paint)
	SetLineWidth(w float64)
	SetLineDash(dash []float64)
	SetFont(f Font)
	SetTextAlign(a Align)
	SetTextBaseline(b Baseline)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, r, start, end float64)
	ClosePath()
	Stroke()
	Fill()

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillText(text string, x, y float64)
}

// Size is the canvas extent in scene units.
type Size struct {
	W, H float64
}

// Center returns the middle of the canvas.
func (s Size) Center() r2.Vec {
	return r2.Vec{X: s.W / 2, Y: s.H / 2}
}

type Font struct {
	Size float64
	Bold bool
}

type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
)

type Baseline uint8

const (
	BaselineAlphabetic Baseline = iota
	BaselineMiddle
)

// Path is one flattened subpath in device coordinates.
type Path struct {
	Points []r2.Vec
	Closed bool
}

// State is the style and transform state that Save and Restore push and pop.
type State struct {
	Transform Affine
	Stroke    Paint
	Fill      Paint
	LineWidth float64
	Dash      []float64
	Font      Font
	Align     Align
	Baseline  Baseline
}

// DeviceLineWidth is the line width after the current transform.
func (s *State) DeviceLineWidth() float64 {
	return s.LineWidth * s.Transform.Scale()
}

// DeviceDash is the dash pattern after the current transform.
func (s *State) DeviceDash() []float64 {
	if len(s.Dash) == 0 {
		return nil
	}
	k := s.Transform.Scale()
	out := make([]float64, len(s.Dash))
	for i, d := range s.Dash {
		out[i] = d * k
	}
	return out
}

// PaintAt evaluates p at device point d by mapping d back to user space.
func (s *State) PaintAt(p Paint, d r2.Vec) Color {
	if c, ok := p.(Color); ok {
		return c
	}
	u := s.Transform.Invert().Apply(d)
	return p.ColorAt(u.X, u.Y)
}

// Backend receives flattened geometry from a Context.
type Backend interface {
	Clear()
	StrokePaths(paths []Path, st *State)
	FillPaths(paths []Path, st *State)
	FillText(text string, at r2.Vec, st *State)
}

var black = Color{A: 1}

func defaultState() State {
	return State{
		Transform: Identity(),
		Stroke:    black,
		Fill:      black,
		LineWidth: 1,
		Font:      Font{Size: 10},
	}
}

// Context implements Surface on top of a Backend.
type Context struct {
	b     Backend
	st    State
	stack []State
	paths []Path
}

func NewContext(b Backend) *Context {
	return &Context{b: b, st: defaultState()}
}

// Backend returns the backend the context draws into.
func (c *Context) Backend() Backend { return c.b }

// Clear wipes the backend. Like clearRect it leaves the style state alone.
func (c *Context) Clear() { c.b.Clear() }

func (c *Context) Save() {
	st := c.st
	st.Dash = append([]float64(nil), c.st.Dash...)
	c.stack = append(c.stack, st)
}

func (c *Context) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Context) Translate(x, y float64) { c.st.Transform = c.st.Transform.Translate(x, y) }
func (c *Context) Rotate(rad float64) { c.st.Transform = c.st.Transform.Rotate(rad) }

func (c *Context) SetStrokeStyle(p Paint) { c.st.Stroke = p }
func (c *Context) SetFillStyle(p Paint) { c.st.Fill = p }
func (c *Context) SetFont(f Font) { c.st.Font = f }
func (c *Context) SetTextAlign(a Align) { c.st.Align = a }
func (c *Context) SetTextBaseline(b Baseline) { c.st.Baseline = b }

func (c *Context) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
		c.st.LineWidth = w
	}
}

func (c *Context) SetLineDash(dash []float64) {
	for _, d := range dash {
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return
		}
	}
	if len(dash)%2 == 1 {
		dash = append(append([]float64(nil), dash...), dash...)
	}
	c.st.Dash = append([]float64(nil), dash...)
}

func (c *Context) BeginPath() { c.paths = nil }

func (c *Context) MoveTo(x, y float64) {
	p := c.st.Transform.Apply(r2.Vec{X: x, Y: y})
	c.paths = append(c.paths, Path{Points: []r2.Vec{p}})
}

func (c *Context) LineTo(x, y float64) {
	if len(c.paths) == 0 {
		c.MoveTo(x, y)
		return
	}
	p := c.st.Transform.Apply(r2.Vec{X: x, Y: y})
	cur := &c.paths[len(c.paths)-1]
	if cur.Closed {
		start := cur.Points[0]
		c.paths = append(c.paths, Path{Points: []r2.Vec{start, p}})
		return
	}
	cur.Points = append(cur.Points, p)
}

// Arc adds a clockwise arc (in y-down space) from start to end radians.
// A line joins the current point to the arc's first point.
func (c *Context) Arc(x, y, r, start, end float64) {
	if r < 0 {
		return
	}
	sweep := end - start
	if sweep > 2*math.Pi {
		sweep = 2 * math.Pi
	}
	if sweep < 0 {
		sweep = math.Mod(sweep, 2*math.Pi) + 2*math.Pi
	}
	n := int(math.Ceil(sweep * r / 4))
	if n < 12 {
		n = 12
	}
	if n > 256 {
		n = 256
	}
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		px := x + math.Cos(a)*r
		py := y + math.Sin(a)*r
		if i == 0 && len(c.paths) == 0 {
			c.MoveTo(px, py)
			continue
		}
		c.LineTo(px, py)
	}
}

func (c *Context) ClosePath() {
	if len(c.paths) == 0 {
		return
	}
	c.paths[len(c.paths)-1].Closed = true
}

func (c *Context) Stroke() {
	if ps := drawable(c.paths, 2); len(ps) > 0 {
		c.b.StrokePaths(ps, &c.st)
	}
}

func (c *Context) Fill() {
	if ps := drawable(c.paths, 3); len(ps) > 0 {
		c.b.FillPaths(ps, &c.st)
	}
}

// FillRect and StrokeRect paint an independent rectangle and leave the
// current path untouched.
func (c *Context) FillRect(x, y, w, h float64) {
	c.b.FillPaths([]Path{c.rect(x, y, w, h)}, &c.st)
}

func (c *Context) StrokeRect(x, y, w, h float64) {
	c.b.StrokePaths([]Path{c.rect(x, y, w, h)}, &c.st)
}

func (c *Context) FillText(text string, x, y float64) {
	if text == "" {
		return
	}
	c.b.FillText(text, c.st.Transform.Apply(r2.Vec{X: x, Y: y}), &c.st)
}

func (c *Context) rect(x, y, w, h float64) Path {
	m := c.st.Transform
	return Path{
		Points: []r2.Vec{
			m.Apply(r2.Vec{X: x, Y: y}),
			m.Apply(r2.Vec{X: x + w, Y: y}),
			m.Apply(r2.Vec{X: x + w, Y: y + h}),
			m.Apply(r2.Vec{X: x, Y: y + h}),
		},
		Closed: true,
	}
}

func drawable(paths []Path, minPoints int) []Path {
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		if len(p.Points) >= minPoints || (p.Closed && len(p.Points) >= 2) {
			out = append(out, p)
		}
	}
	return out
}

var _ Surface = (*Context)(nil)
