package surface

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Affine maps user space to device space:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

func Identity() Affine {
	return Affine{A: 1, D: 1}
}

func (m Affine) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Translate composes a translation applied before m.
func (m Affine) Translate(tx, ty float64) Affine {
	m.E += m.A*tx + m.C*ty
	m.F += m.B*tx + m.D*ty
	return m
}

// Rotate composes a rotation by rad applied before m.
func (m Affine) Rotate(rad float64) Affine {
	s, c := math.Sincos(rad)
	return Affine{
		A: m.A*c + m.C*s,
		B: m.B*c + m.D*s,
		C: m.C*c - m.A*s,
		D: m.D*c - m.B*s,
		E: m.E,
		F: m.F,
	}
}

// Invert returns the inverse, or the identity for a singular matrix.
func (m Affine) Invert() Affine {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity()
	}
	return Affine{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}
}

// Scale is the mean linear scale factor, used for line widths.
func (m Affine) Scale() float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}
