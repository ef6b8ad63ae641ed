package integrators

import "gonum.org/v1/gonum/spatial/r2"

// Accel returns the acceleration acting at a position.
type Accel func(p r2.Vec) r2.Vec

// Euler is a damped semi-implicit Euler stepper. Velocity is updated first
// and the new velocity moves the position:
//
//	v' = (v + a(p)*dt) * Damping
//	p' = p + v'*dt
type Euler struct {
	Damping float64
}

func NewEuler(damping float64) *Euler {
	return &Euler{Damping: damping}
}

func (e *Euler) Step(acc Accel, pos, vel r2.Vec, dt float64) (r2.Vec, r2.Vec) {
	a := acc(pos)
	vel = r2.Vec{
		X: (vel.X + a.X*dt) * e.Damping,
		Y: (vel.Y + a.Y*dt) * e.Damping,
	}
	pos = r2.Vec{
		X: pos.X + vel.X*dt,
		Y: pos.Y + vel.Y*dt,
	}
	return pos, vel
}
