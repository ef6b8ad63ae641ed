package surface

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestAffineTranslateRotate(t *testing.T) {
	m := Identity().Translate(100, 50).Rotate(math.Pi / 2)

	got := m.Apply(r2.Vec{X: 10, Y: 0})
	if want := (r2.Vec{X: 100, Y: 60}); !near(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	back := m.Invert().Apply(got)
	if !near(back, r2.Vec{X: 10, Y: 0}) {
		t.Errorf("inverse: got %v", back)
	}
}

func TestContextSaveRestore(t *testing.T) {
	rec := NewRecorder()
	c := NewContext(rec)

	c.SetLineWidth(3)
	c.Save()
	c.Translate(10, 10)
	c.SetLineWidth(7)
	c.Restore()

	c.BeginPath()
	c.MoveTo(0, 0)
	c.LineTo(5, 0)
	c.Stroke()

	if len(rec.Ops) != 1 {
		t.Fatalf("expected 1 op, got %d", len(rec.Ops))
	}
	op := rec.Ops[0]
	if op.LineWidth != 3 {
		t.Errorf("line width not restored: %v", op.LineWidth)
	}
	if !near(op.Paths[0].Points[0], r2.Vec{}) {
		t.Errorf("transform not restored: %v", op.Paths[0].Points[0])
	}
}

func TestContextIgnoresBadLineWidth(t *testing.T) {
	rec := NewRecorder()
	c := NewContext(rec)
	c.SetLineWidth(2)
	c.SetLineWidth(0)
	c.SetLineWidth(math.NaN())
	c.StrokeRect(0, 0, 1, 1)

	if w := rec.Ops[0].LineWidth; w != 2 {
		t.Errorf("got %v, want 2", w)
	}
}

func TestContextArcCircle(t *testing.T) {
	rec := NewRecorder()
	c := NewContext(rec)
	c.BeginPath()
	c.Arc(50, 50, 10, 0, 2*math.Pi)
	c.Fill()

	pts := rec.Ops[0].Paths[0].Points
	for _, p := range pts {
		if d := math.Hypot(p.X-50, p.Y-50); math.Abs(d-10) > 1e-9 {
			t.Fatalf("point %v off the circle (r=%v)", p, d)
		}
	}
	if !near(pts[0], pts[len(pts)-1]) {
		t.Error("full circle should end where it starts")
	}
}

func TestSingleMoveToDrawsNothing(t *testing.T) {
	rec := NewRecorder()
	c := NewContext(rec)
	c.BeginPath()
	c.MoveTo(3, 3)
	c.Stroke()
	c.Fill()

	if len(rec.Ops) != 0 {
		t.Errorf("expected no ops, got %d", len(rec.Ops))
	}
}

func TestDashPaths(t *testing.T) {
	paths := []Path{{Points: []r2.Vec{{X: 0, Y: 0}, {X: 30, Y: 0}}}}
	got := DashPaths(paths, []float64{10, 5})

	// on [0,10], off [10,15], on [15,25], off [25,30]
	if len(got) != 2 {
		t.Fatalf("expected 2 dashes, got %d: %v", len(got), got)
	}
	if !near(got[0].Points[0], r2.Vec{}) || !near(got[0].Points[len(got[0].Points)-1], r2.Vec{X: 10}) {
		t.Errorf("first dash: %v", got[0].Points)
	}
	if !near(got[1].Points[0], r2.Vec{X: 15}) || !near(got[1].Points[len(got[1].Points)-1], r2.Vec{X: 25}) {
		t.Errorf("second dash: %v", got[1].Points)
	}

	if same := DashPaths(paths, nil); len(same) != 1 {
		t.Error("empty pattern should pass paths through")
	}
}

func TestGradientStops(t *testing.T) {
	g := LinearGradient(0, 0, 100, 0).
		AddStop(0, Hex("#ff0000")).
		AddStop(1, Hex("#0000ff"))

	if c := g.ColorAt(-50, 0).NRGBA(); c != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("pad start: got %v", c)
	}
	if c := g.ColorAt(150, 0).NRGBA(); c != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pad end: got %v", c)
	}
	mid := g.ColorAt(50, 30).NRGBA()
	if mid.R < 120 || mid.R > 135 || mid.B < 120 || mid.B > 135 {
		t.Errorf("midpoint: got %v", mid)
	}
}

func TestRadialGradientParam(t *testing.T) {
	g := RadialGradient(10, 10, 0, 10, 10, 20)
	tests := []struct {
		x, y, want float64
	}{
		{10, 10, 0},
		{20, 10, 0.5},
		{10, 30, 1},
	}
	for _, tt := range tests {
		if got := g.Param(tt.x, tt.y); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Param(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	// Offset focus: the focus maps to 0 and the outer circle to 1.
	f := RadialGradient(5, 5, 0, 10, 10, 20)
	if got := f.Param(5, 5); math.Abs(got) > 1e-9 {
		t.Errorf("focus: got %v", got)
	}
	if got := f.Param(30, 10); math.Abs(got-1) > 1e-9 {
		t.Errorf("rim: got %v", got)
	}
}

func TestRGBAClamps(t *testing.T) {
	c := RGBA(355, 277.5, 255, 0.6).NRGBA()
	if c.R != 255 || c.G != 255 || c.B != 255 || c.A != 153 {
		t.Errorf("got %v", c)
	}
}

func TestSVGDocument(t *testing.T) {
	svg := NewSVG(200, 100)
	c := NewContext(svg)

	c.SetStrokeStyle(Hex("#3b82f6"))
	c.SetLineDash([]float64{10, 5})
	c.BeginPath()
	c.MoveTo(0, 50)
	c.LineTo(200, 50)
	c.Stroke()

	c.SetFillStyle(LinearGradient(-40, 0, 40, 0).AddStop(0, Hex("#ef4444")).AddStop(1, Hex("#3b82f6")))
	c.FillRect(-40, -15, 80, 30)

	c.SetFillStyle(Hex("#fff"))
	c.SetTextAlign(AlignCenter)
	c.FillText("a<b", 10, 10)

	doc := svg.String()
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100"`,
		`stroke-dasharray="10.00 5.00"`,
		`<linearGradient id="g1"`,
		`fill="url(#g1)"`,
		`text-anchor="middle"`,
		`a&lt;b`,
		"</svg>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRasterFillAndStroke(t *testing.T) {
	r := NewRaster(40, 40)
	c := NewContext(r)

	c.SetFillStyle(Hex("#ff0000"))
	c.FillRect(10, 10, 10, 10)

	if got := r.Image().RGBAAt(15, 15); got.R != 255 || got.G != 0 {
		t.Errorf("inside rect: got %v", got)
	}
	if got := r.Image().RGBAAt(30, 30); got.R != 10 {
		t.Errorf("background should be untouched: got %v", got)
	}

	c.SetStrokeStyle(Hex("#00ff00"))
	c.SetLineWidth(2)
	c.BeginPath()
	c.MoveTo(0, 35)
	c.LineTo(40, 35)
	c.Stroke()

	if got := r.Image().RGBAAt(20, 35); got.G < 200 {
		t.Errorf("on stroke: got %v", got)
	}
}

func TestBrailleStrokeAndText(t *testing.T) {
	b := NewBraille(10, 5, 100, 100)
	c := NewContext(b)

	c.SetStrokeStyle(Hex("#ffffff"))
	c.BeginPath()
	c.MoveTo(0, 0)
	c.LineTo(99, 0)
	c.Stroke()

	for col := 0; col < 10; col++ {
		if r := b.Rune(col, 0); r&0x1 == 0 && r&0x8 == 0 {
			t.Fatalf("cell %d of the top row not lit: %U", col, r)
		}
	}

	c.SetFillStyle(Hex("#a855f7"))
	c.FillText("N", 50, 50)
	if r := b.Rune(5, 2); r != 'N' {
		t.Errorf("expected label in cell (5,2), got %q", r)
	}

	b.Clear()
	if strings.ContainsAny(b.Plain(), "N") {
		t.Error("clear should drop text")
	}
}

func TestBrailleFillSkipsTransparentInk(t *testing.T) {
	b := NewBraille(4, 4, 40, 40)
	c := NewContext(b)

	c.SetFillStyle(RGBA(255, 0, 0, 0.1))
	c.FillRect(0, 0, 40, 40)
	if strings.ContainsFunc(b.Plain(), func(r rune) bool { return r != brailleBlank && r != '\n' }) {
		t.Error("faint fill should not light dots")
	}

	c.SetFillStyle(RGBA(255, 0, 0, 1))
	c.FillRect(0, 0, 40, 40)
	if got := b.Rune(1, 1); got != 0x28FF {
		t.Errorf("solid fill should light every dot, got %U", got)
	}
}
