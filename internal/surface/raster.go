package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

// Raster is a Backend that paints into an RGBA image with anti-aliased
// coverage. Text uses a fixed 7x13 bitmap face whatever the font size.
type Raster struct {
	Background Color

	img *image.RGBA
	z   *vector.Rasterizer
}

func NewRaster(width, height int) *Raster {
	r := &Raster{
		Background: Hex("#0a0a0a"),
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		z:          vector.NewRasterizer(width, height),
	}
	r.Clear()
	return r
}

func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.Background.NRGBA()), image.Point{}, draw.Src)
}

func (r *Raster) StrokePaths(paths []Path, st *State) {
	hw := st.DeviceLineWidth() / 2
	var polys [][]r2.Vec
	for _, p := range DashPaths(paths, st.DeviceDash()) {
		pts := p.Points
		if p.Closed && len(pts) > 1 {
			pts = append(append([]r2.Vec(nil), pts...), pts[0])
		}
		for i := 1; i < len(pts); i++ {
			if q := segmentQuad(pts[i-1], pts[i], hw); q != nil {
				polys = append(polys, q)
			}
		}
	}
	r.paint(polys, st.Stroke, st)
}

func (r *Raster) FillPaths(paths []Path, st *State) {
	polys := make([][]r2.Vec, 0, len(paths))
	for _, p := range paths {
		polys = append(polys, p.Points)
	}
	r.paint(polys, st.Fill, st)
}

func (r *Raster) FillText(text string, at r2.Vec, st *State) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(st.PaintAt(st.Fill, at).NRGBA()),
		Face: face,
	}
	x := at.X
	if st.Align == AlignCenter {
		x -= float64(d.MeasureString(text).Round()) / 2
	}
	y := at.Y
	if st.Baseline == BaselineMiddle {
		m := face.Metrics()
		y += float64((m.Ascent - m.Descent).Round()) / 2
	}
	d.Dot = fixed.P(int(math.Round(x)), int(math.Round(y)))
	d.DrawString(text)
}

// paint rasterizes polys over their bounding box. Every polygon goes into
// one rasterizer pass so overlapping segments of a stroke do not darken.
func (r *Raster) paint(polys [][]r2.Vec, p Paint, st *State) {
	if len(polys) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, pt := range poly {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1).
		Intersect(r.img.Bounds())
	if box.Empty() {
		return
	}

	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	r.z.Reset(box.Dx(), box.Dy())
	r.z.DrawOp = draw.Over
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		r.z.MoveTo(float32(poly[0].X)-ox, float32(poly[0].Y)-oy)
		for _, pt := range poly[1:] {
			r.z.LineTo(float32(pt.X)-ox, float32(pt.Y)-oy)
		}
		r.z.ClosePath()
	}

	var src image.Image
	if c, ok := p.(Color); ok {
		src = image.NewUniform(c.NRGBA())
	} else {
		src = &paintImage{paint: p, inv: st.Transform.Invert()}
	}
	r.z.Draw(r.img, box, src, box.Min)
}

// paintImage exposes a non-uniform Paint as an unbounded image in device
// coordinates.
type paintImage struct {
	paint Paint
	inv   Affine
}

func (pi *paintImage) ColorModel() color.Model { return color.NRGBAModel }

func (pi *paintImage) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (pi *paintImage) At(x, y int) color.Color {
	u := pi.inv.Apply(r2.Vec{X: float64(x) + 0.5, Y: float64(y) + 0.5})
	return pi.paint.ColorAt(u.X, u.Y).NRGBA()
}

// segmentQuad returns the rectangle covering a stroked segment, extended by
// half the width at both ends so consecutive segments join without gaps.
// The corner order gives every quad the same winding.
func segmentQuad(a, b r2.Vec, hw float64) []r2.Vec {
	d := r2.Sub(b, a)
	l := r2.Norm(d)
	if l == 0 || hw <= 0 {
		return nil
	}
	u := r2.Scale(1/l, d)
	n := r2.Vec{X: -u.Y * hw, Y: u.X * hw}
	ext := r2.Scale(hw, u)
	a = r2.Sub(a, ext)
	b = r2.Add(b, ext)
	return []r2.Vec{r2.Add(a, n), r2.Add(b, n), r2.Sub(b, n), r2.Sub(a, n)}
}
