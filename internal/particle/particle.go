// Package particle advances a charged test particle through the field and
// draws it with its trail.
package particle

import (
	"math"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/integrators"
	"github.com/san-kum/fieldsim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// AccelScale converts field strength to visual acceleration.
	AccelScale = 8e-10
	Damping    = 0.994

	// Margin is the inset from each canvas edge the particle must stay
	// within.
	Margin = 10.0

	DotRadius  = 5.0
	TrailWidth = 1.2
)

// SpawnOffset is where an activated particle appears, relative to the
// canvas center.
var SpawnOffset = r2.Vec{X: 80, Y: -40}

var (
	trailColor = surface.RGBA(251, 191, 36, 0.65)
	dotColor   = surface.Hex("#fbbf24")
)

// State is the particle handle the driver keeps between frames.
type State struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Trail  Trail
	Active bool
}

// Initial is the state before the particle has ever been shown.
func Initial() State {
	return State{Pos: r2.Vec{X: 100, Y: 100}}
}

// Speed is the velocity magnitude.
func (s State) Speed() float64 { return r2.Norm(s.Vel) }

// Integrator owns the stepping rules. The zero value is not usable; use
// NewIntegrator.
type Integrator struct {
	Source field.Source

	// ClearTrailOnRespawn drops the trail when the particle is sent back
	// to the center after leaving the canvas. Off by default, which leaves
	// a segment joining the exit point to the center.
	ClearTrailOnRespawn bool

	stepper *integrators.Euler
}

func NewIntegrator(src field.Source) *Integrator {
	if src == nil {
		src = field.Coulomb{}
	}
	return &Integrator{Source: src, stepper: integrators.NewEuler(Damping)}
}

// Eligible reports whether the particle should be running.
func Eligible(enabled, electricMode bool, charges []field.Charge) bool {
	return enabled && electricMode && len(charges) > 0
}

// Sync applies the activation lifecycle. Becoming eligible places the
// particle at SpawnOffset from the center with an empty trail and no
// velocity; losing eligibility parks it at the center.
func Sync(s State, eligible bool, size surface.Size) State {
	switch {
	case eligible && !s.Active:
		return State{Pos: r2.Add(size.Center(), SpawnOffset), Active: true}
	case !eligible && s.Active:
		return State{Pos: size.Center()}
	}
	return s
}

// Step advances s by dt and reports whether it was respawned.
func (in *Integrator) Step(s State, size surface.Size, charges []field.Charge, dt float64) (State, bool) {
	accel := func(p r2.Vec) r2.Vec {
		f := in.Source.Field(charges, p.X, p.Y)
		return r2.Vec{X: f.Ex * AccelScale, Y: f.Ey * AccelScale}
	}
	s.Pos, s.Vel = in.stepper.Step(accel, s.Pos, s.Vel, dt)

	respawned := false
	if outside(s.Pos, size) {
		s.Pos = size.Center()
		respawned = true
		if in.ClearTrailOnRespawn {
			s.Trail.Clear()
		}
	}
	s.Trail.Push(s.Pos)
	return s, respawned
}

// Advance steps s and draws the result.
func (in *Integrator) Advance(sf surface.Surface, size surface.Size, charges []field.Charge, s State, dt float64) State {
	s, _ = in.Step(s, size, charges, dt)
	Draw(sf, s)
	return s
}

// Draw paints the trail and the particle.
func Draw(sf surface.Surface, s State) {
	if s.Trail.Len() > 0 {
		sf.SetStrokeStyle(trailColor)
		sf.SetLineWidth(TrailWidth)
		sf.BeginPath()
		for i := range s.Trail.Len() {
			p := s.Trail.At(i)
			if i == 0 {
				sf.MoveTo(p.X, p.Y)
			} else {
				sf.LineTo(p.X, p.Y)
			}
		}
		sf.Stroke()
	}

	sf.SetFillStyle(dotColor)
	sf.BeginPath()
	sf.Arc(s.Pos.X, s.Pos.Y, DotRadius, 0, 2*math.Pi)
	sf.Fill()
}

var defaultIntegrator = NewIntegrator(nil)

// Advance steps with the direct Coulomb model and the default respawn
// behaviour.
func Advance(sf surface.Surface, size surface.Size, charges []field.Charge, s State, dt float64) State {
	return defaultIntegrator.Advance(sf, size, charges, s, dt)
}

func outside(p r2.Vec, size surface.Size) bool {
	return p.X < Margin || p.X > size.W-Margin || p.Y < Margin || p.Y > size.H-Margin
}
