package scene

import (
	"math"

	"github.com/san-kum/fieldsim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	firstRing   = 50.0
	ringStep    = 0.1
	poleOffset  = 52.0
	barHalfLen  = 40.0
	barHalfWide = 15.0
)

// Ring is one closed loop of the magnet pattern.
type Ring struct {
	Radius float64
	Points []r2.Vec
}

// RingSpacing shrinks as the magnet gets stronger, down to 35.
func RingSpacing(strength float64) float64 {
	return math.Max(35, 80-strength*10)
}

// RingWidth is the stroke width of the loops.
func RingWidth(strength float64) float64 {
	return math.Max(1.4, strength*0.9)
}

// MagnetRings builds the loops at r = 50, 50+s, ... < max(w, h), each
// rotated by the animation phase plus the magnet's orientation.
func MagnetRings(m Magnet, size surface.Size, ms, speed float64) []Ring {
	step := RingSpacing(m.Strength)
	off := math.Mod(ms*0.001*speed, 2*math.Pi) + m.AngleDeg*math.Pi/180
	limit := math.Max(size.W, size.H)

	var rings []Ring
	for r := firstRing; r < limit; r += step {
		var pts []r2.Vec
		for a := 0.0; a < 2*math.Pi; a += ringStep {
			pts = append(pts, r2.Vec{X: m.X + math.Cos(a+off)*r, Y: m.Y + math.Sin(a+off)*r})
		}
		rings = append(rings, Ring{Radius: r, Points: pts})
	}
	return rings
}

// Poles returns the N and S label positions.
func Poles(m Magnet) (north, south r2.Vec) {
	a := m.AngleDeg * math.Pi / 180
	nx, ny := math.Cos(a), math.Sin(a)
	return r2.Vec{X: m.X + nx*poleOffset, Y: m.Y + ny*poleOffset},
		r2.Vec{X: m.X - nx*poleOffset, Y: m.Y - ny*poleOffset}
}

// DrawMagnet paints the rotating loops, the pole labels and the bar. The
// bar gradient is laid out in the bar's own rotated frame so it runs end
// to end whatever the orientation.
func DrawMagnet(sf surface.Surface, m Magnet, size surface.Size, ms, speed float64) {
	sf.SetLineDash(nil)
	sf.SetStrokeStyle(ringColor)
	sf.SetLineWidth(RingWidth(m.Strength))
	for _, ring := range MagnetRings(m, size, ms, speed) {
		sf.BeginPath()
		for i, p := range ring.Points {
			if i == 0 {
				sf.MoveTo(p.X, p.Y)
			} else {
				sf.LineTo(p.X, p.Y)
			}
		}
		sf.ClosePath()
		sf.Stroke()
	}

	north, south := Poles(m)
	sf.SetFillStyle(purple)
	sf.SetFont(surface.Font{Size: 20, Bold: true})
	sf.SetTextAlign(surface.AlignCenter)
	sf.SetTextBaseline(surface.BaselineMiddle)
	sf.FillText("N", north.X, north.Y)
	sf.FillText("S", south.X, south.Y)

	sf.Save()
	sf.Translate(m.X, m.Y)
	sf.Rotate(m.AngleDeg * math.Pi / 180)
	sf.SetFillStyle(surface.LinearGradient(-barHalfLen, 0, barHalfLen, 0).
		AddStop(0, red).
		AddStop(0.5, gray).
		AddStop(1, blue))
	sf.FillRect(-barHalfLen, -barHalfWide, 2*barHalfLen, 2*barHalfWide)
	sf.SetStrokeStyle(white)
	sf.StrokeRect(-barHalfLen, -barHalfWide, 2*barHalfLen, 2*barHalfWide)
	sf.Restore()
}
