package scene

import (
	"math"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/fieldlines"
	"github.com/san-kum/fieldsim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	VectorSpacing  = 60.0
	MaxArrowLength = 15.0
	ArrowHead      = 5.0
)

// Arrow is one vector-grid glyph. D is the shaft, centred on At.
type Arrow struct {
	At        r2.Vec
	D         r2.Vec
	Magnitude float64
}

// ArrowLength compresses field magnitude logarithmically so near and far
// field arrows stay comparable.
func ArrowLength(mag float64) float64 {
	return math.Min(MaxArrowLength, math.Log10(mag+1)*3)
}

// FlowPhase is the [0,1) phase that animates arrow colour.
func FlowPhase(ms, speed float64) float64 {
	return math.Mod(ms*0.001*speed, 1)
}

// ArrowColor brightens with field strength and flow phase.
func ArrowColor(mag, flow float64) surface.Color {
	i := math.Min(255, mag/1e8+flow*20)
	return surface.RGBA(100+i, 150+i*0.5, 255, 0.6)
}

// SampleVectors evaluates the grid x = 60, 120, ... < w by
// y = 60, 120, ... < h, skipping null points.
func SampleVectors(src field.Source, charges []field.Charge, size surface.Size) []Arrow {
	var out []Arrow
	for x := VectorSpacing; x < size.W; x += VectorSpacing {
		for y := VectorSpacing; y < size.H; y += VectorSpacing {
			f := src.Field(charges, x, y)
			if f.Magnitude < fieldlines.NullThreshold {
				continue
			}
			s := ArrowLength(f.Magnitude)
			out = append(out, Arrow{
				At:        r2.Vec{X: x, Y: y},
				D:         r2.Vec{X: f.Ex / f.Magnitude * s, Y: f.Ey / f.Magnitude * s},
				Magnitude: f.Magnitude,
			})
		}
	}
	return out
}

// Tip returns the arrowhead point.
func (a Arrow) Tip() r2.Vec {
	return r2.Vec{X: a.At.X + a.D.X*0.5, Y: a.At.Y + a.D.Y*0.5}
}

func DrawVectors(sf surface.Surface, arrows []Arrow, flow float64) {
	sf.SetLineDash(nil)
	for _, a := range arrows {
		c := ArrowColor(a.Magnitude, flow)
		sf.SetStrokeStyle(c)
		sf.SetFillStyle(c)
		sf.SetLineWidth(1)

		tip := a.Tip()
		sf.BeginPath()
		sf.MoveTo(a.At.X-a.D.X*0.5, a.At.Y-a.D.Y*0.5)
		sf.LineTo(tip.X, tip.Y)
		sf.Stroke()

		ang := math.Atan2(a.D.Y, a.D.X)
		sf.BeginPath()
		sf.MoveTo(tip.X, tip.Y)
		sf.LineTo(tip.X-ArrowHead*math.Cos(ang-math.Pi/6), tip.Y-ArrowHead*math.Sin(ang-math.Pi/6))
		sf.LineTo(tip.X-ArrowHead*math.Cos(ang+math.Pi/6), tip.Y-ArrowHead*math.Sin(ang+math.Pi/6))
		sf.ClosePath()
		sf.Fill()
	}
}
