package scene

import (
	"math"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/surface"
)

const selectionGap = 10.0

// Pulse is the glow scale of a charge, oscillating in [0.8, 1.2].
func Pulse(ms, speed, phase float64) float64 {
	return math.Sin(ms*0.003*speed+phase)*0.2 + 1
}

// DrawCharge paints the glow, the gradient core, the sign and, when
// selected, a dashed ring.
func DrawCharge(sf surface.Surface, c field.Charge, selected bool, ms, speed float64) {
	glowStops, coreStops := negativeGlow, negativeCore
	if c.Polarity > 0 {
		glowStops, coreStops = positiveGlow, positiveCore
	}

	gr := c.Radius * 3 * Pulse(ms, speed, c.Phase)
	sf.SetFillStyle(surface.RadialGradient(c.X, c.Y, 0, c.X, c.Y, gr).
		AddStop(0, glowStops[0]).
		AddStop(0.5, glowStops[1]).
		AddStop(1, glowStops[2]))
	sf.BeginPath()
	sf.Arc(c.X, c.Y, gr, 0, 2*math.Pi)
	sf.Fill()

	sf.SetFillStyle(surface.RadialGradient(c.X-5, c.Y-5, 0, c.X, c.Y, c.Radius).
		AddStop(0, coreStops[0]).
		AddStop(0.5, coreStops[1]).
		AddStop(1, coreStops[2]))
	sf.BeginPath()
	sf.Arc(c.X, c.Y, c.Radius, 0, 2*math.Pi)
	sf.Fill()

	sf.SetFillStyle(white)
	sf.SetFont(surface.Font{Size: 24, Bold: true})
	sf.SetTextAlign(surface.AlignCenter)
	sf.SetTextBaseline(surface.BaselineMiddle)
	sf.FillText(c.Polarity.String(), c.X, c.Y)

	if !selected {
		return
	}
	sf.SetStrokeStyle(amber)
	sf.SetLineWidth(3)
	sf.SetLineDash([]float64{5, 5})
	sf.BeginPath()
	sf.Arc(c.X, c.Y, c.Radius+selectionGap, 0, 2*math.Pi)
	sf.Stroke()
	sf.SetLineDash(nil)
}
