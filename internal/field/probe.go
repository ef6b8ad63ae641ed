package field

import "math"

// ProbeOffset is how far the readout sits from the pointer, in screen units.
const ProbeOffset = 20.0

// ProbeSample is the hover readout at a pointer position.
type ProbeSample struct {
	X, Y         float64
	Magnitude    float64
	DirectionDeg float64
	ScreenX      float64
	ScreenY      float64
	Visible      bool
}

// Probe samples src at canvas point (x, y) for a pointer at
// (screenX, screenY). An empty charge set yields a hidden sample.
func Probe(src Source, charges []Charge, x, y, screenX, screenY float64) ProbeSample {
	if len(charges) == 0 {
		return ProbeSample{}
	}
	s := src.Field(charges, x, y)
	return ProbeSample{
		X:            x,
		Y:            y,
		Magnitude:    s.Magnitude,
		DirectionDeg: math.Atan2(s.Ey, s.Ex) * 180 / math.Pi,
		ScreenX:      screenX + ProbeOffset,
		ScreenY:      screenY + ProbeOffset,
		Visible:      true,
	}
}
