// Package fieldlines traces electrostatic field lines as stepped
// polylines.
package fieldlines

import (
	"math"

	"github.com/san-kum/fieldsim/internal/field"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	StepLength    = 5.0
	MaxSteps      = 500
	NullThreshold = 1e-10

	// Seed rings. Positive charges seed just outside their body; the
	// all-negative fallback seeds far out and traces inward.
	SourceRing = 30.0
	SinkRing   = 200.0
)

// Polyline is one traced line. The first point is always the seed.
type Polyline []r2.Vec

// Seed is a starting point and integration direction.
type Seed struct {
	Start     r2.Vec
	Direction float64
}

// Tracer traces lines over a w x h canvas.
type Tracer struct {
	Source        field.Source
	Width, Height float64
}

func New(src field.Source, w, h float64) *Tracer {
	if src == nil {
		src = field.Coulomb{}
	}
	return &Tracer{Source: src, Width: w, Height: h}
}

// Seeds classifies the whole charge set once and then seeds from it.
// When any positive charge exists, only positive charges seed, outward on
// SourceRing. Otherwise every charge seeds inward on SinkRing.
func Seeds(charges []field.Charge, density int) []Seed {
	if len(charges) == 0 || density <= 0 {
		return nil
	}

	hasPositive := false
	for _, c := range charges {
		if c.Polarity > 0 {
			hasPositive = true
			break
		}
	}

	ring, dir := SinkRing, -1.0
	if hasPositive {
		ring, dir = SourceRing, 1.0
	}

	seeds := make([]Seed, 0, len(charges)*density)
	for _, c := range charges {
		if hasPositive && c.Polarity <= 0 {
			continue
		}
		for i := 0; i < density; i++ {
			a := float64(i) / float64(density) * 2 * math.Pi
			seeds = append(seeds, Seed{
				Start:     r2.Vec{X: c.X + math.Cos(a)*ring, Y: c.Y + math.Sin(a)*ring},
				Direction: dir,
			})
		}
	}
	return seeds
}

// Trace returns every line for the charge set. The result depends only on
// its inputs.
func (t *Tracer) Trace(charges []field.Charge, density int) []Polyline {
	seeds := Seeds(charges, density)
	lines := make([]Polyline, 0, len(seeds))
	for _, s := range seeds {
		lines = append(lines, t.Line(charges, s))
	}
	return lines
}

// Line integrates one seed. Each step stops the line when the field is
// null, the point leaves the canvas, or the point enters a charge body, in
// that order. No line takes more than MaxSteps steps.
func (t *Tracer) Line(charges []field.Charge, s Seed) Polyline {
	line := Polyline{s.Start}
	p := s.Start
	for i := 0; i < MaxSteps; i++ {
		f := t.Source.Field(charges, p.X, p.Y)
		if f.Magnitude < NullThreshold {
			break
		}
		p = r2.Add(p, r2.Vec{
			X: f.Ex / f.Magnitude * StepLength * s.Direction,
			Y: f.Ey / f.Magnitude * StepLength * s.Direction,
		})
		if p.X < 0 || p.X > t.Width || p.Y < 0 || p.Y > t.Height {
			break
		}
		if field.InsideAny(charges, p.X, p.Y) {
			break
		}
		line = append(line, p)
	}
	return line
}
