package field

import (
	"fmt"
	"math"
)

const megavoltThreshold = 5e5

func FormatFieldStrength(v float64) string {
	if v > 1e6 {
		return fmt.Sprintf("%.2f MN/C", v/1e6)
	}
	return fmt.Sprintf("%.2f N/C", v)
}

// FormatPotential switches to megavolts from half a megavolt up, so the
// readout never shows more than three kilovolt digits.
func FormatPotential(v float64) string {
	switch a := math.Abs(v); {
	case a >= megavoltThreshold:
		return fmt.Sprintf("%.2f MV", v/1e6)
	case a >= 1e3:
		return fmt.Sprintf("%.2f kV", v/1e3)
	default:
		return fmt.Sprintf("%.2f V", v)
	}
}

// NetChargeMicroCoulombs sums the signed charges and converts to uC.
func NetChargeMicroCoulombs(charges []Charge) float64 {
	var q float64
	for _, c := range charges {
		q += c.Q()
	}
	return q * 1e6
}

func FormatMicroCoulombs(uc float64) string {
	return fmt.Sprintf("%.2f uC", uc)
}

// Summary is the readout shown next to the canvas.
type Summary struct {
	Charges         int
	NetCharge       string
	CenterField     string
	CenterPotential string
}

// Summarize evaluates src at the canvas center.
func Summarize(src Source, charges []Charge, w, h float64) Summary {
	cx, cy := w/2, h/2
	return Summary{
		Charges:         len(charges),
		NetCharge:       FormatMicroCoulombs(NetChargeMicroCoulombs(charges)),
		CenterField:     FormatFieldStrength(src.Field(charges, cx, cy).Magnitude),
		CenterPotential: FormatPotential(src.Potential(charges, cx, cy)),
	}
}
