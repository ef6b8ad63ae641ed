package field

import "math"

const (
	// CoulombConstant is the illustrative k used for every field and
	// potential evaluation.
	CoulombConstant = 8.99e9

	// ExclusionRadius is the distance below which a charge contributes
	// nothing to a query point.
	ExclusionRadius = 10.0
)

// Polarity is the sign of a point charge.
type Polarity int

const (
	Negative Polarity = -1
	Positive Polarity = 1
)

func (p Polarity) String() string {
	if p < 0 {
		return "-"
	}
	return "+"
}

// Charge is a point charge on the canvas. The engine only ever reads it.
type Charge struct {
	ID        int      `yaml:"id" json:"id"`
	X         float64  `yaml:"x" json:"x"`
	Y         float64  `yaml:"y" json:"y"`
	Polarity  Polarity `yaml:"polarity" json:"polarity"`
	Magnitude float64  `yaml:"magnitude" json:"magnitude"`
	Radius    float64  `yaml:"radius" json:"radius"`
	Phase     float64  `yaml:"phase" json:"phase"`
}

// Q returns the signed charge.
func (c Charge) Q() float64 {
	return float64(c.Polarity) * c.Magnitude
}

// Sample is the electric field at one point.
type Sample struct {
	Ex, Ey    float64
	Magnitude float64
}

// Field returns the superposed Coulomb field of charges at (x, y).
// Charges closer than ExclusionRadius to the point are skipped.
func Field(charges []Charge, x, y float64) Sample {
	var ex, ey float64
	for _, c := range charges {
		dx := x - c.X
		dy := y - c.Y
		r := math.Hypot(dx, dy)
		if r < ExclusionRadius {
			continue
		}
		e := CoulombConstant * c.Q() / (r * r)
		ex += e * dx / r
		ey += e * dy / r
	}
	return Sample{Ex: ex, Ey: ey, Magnitude: math.Hypot(ex, ey)}
}

// Potential returns the superposed scalar potential of charges at (x, y),
// with the same exclusion rule as Field.
func Potential(charges []Charge, x, y float64) float64 {
	var v float64
	for _, c := range charges {
		r := math.Hypot(x-c.X, y-c.Y)
		if r < ExclusionRadius {
			continue
		}
		v += CoulombConstant * c.Q() / r
	}
	return v
}
