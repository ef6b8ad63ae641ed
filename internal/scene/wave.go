package scene

import (
	"math"

	"github.com/san-kum/fieldsim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	waveSampleStep = 2.0
	bRatio         = 0.3
)

// WaveCurves samples the E and B sinusoids across the canvas. B is a
// cosine at 0.3 of the amplitude, a quarter period out of phase with E.
func WaveCurves(w Wave, size surface.Size, ms, speed float64) (e, b []r2.Vec) {
	cy := size.H / 2
	off := ms * 0.002 * speed
	for x := 0.0; x < size.W; x += waveSampleStep {
		ph := x/w.Wavelength*math.Pi*2 + off
		e = append(e, r2.Vec{X: x, Y: cy + math.Sin(ph)*w.Amplitude})
		b = append(b, r2.Vec{X: x, Y: cy + math.Cos(ph)*w.Amplitude*bRatio})
	}
	return e, b
}

func DrawWave(sf surface.Surface, w Wave, size surface.Size, ms, speed float64) {
	e, b := WaveCurves(w, size, ms, speed)
	cy := size.H / 2
	amp := w.Amplitude

	sf.SetLineDash(nil)
	sf.SetStrokeStyle(red)
	sf.SetLineWidth(3)
	polyline(sf, e)
	sf.Stroke()

	sf.SetStrokeStyle(blue)
	sf.SetLineDash([]float64{10, 5})
	polyline(sf, b)
	sf.Stroke()
	sf.SetLineDash(nil)

	sf.SetTextAlign(surface.AlignLeft)
	sf.SetTextBaseline(surface.BaselineAlphabetic)
	sf.SetFont(surface.Font{Size: 16})
	sf.SetFillStyle(red)
	sf.FillText("E (Electric)", 20, cy-amp-20)
	sf.SetFillStyle(blue)
	sf.FillText("B (Magnetic)", 20, cy+amp+30)

	sf.SetFillStyle(amber)
	sf.SetFont(surface.Font{Size: 16, Bold: true})
	sf.FillText("Propagation", size.W-170, cy-18)

	sf.BeginPath()
	sf.MoveTo(size.W-165, cy)
	sf.LineTo(size.W-85, cy)
	sf.LineTo(size.W-95, cy-7)
	sf.MoveTo(size.W-85, cy)
	sf.LineTo(size.W-95, cy+7)
	sf.SetStrokeStyle(amber)
	sf.SetLineWidth(2)
	sf.Stroke()
}

func polyline(sf surface.Surface, pts []r2.Vec) {
	sf.BeginPath()
	for i, p := range pts {
		if i == 0 {
			sf.MoveTo(p.X, p.Y)
		} else {
			sf.LineTo(p.X, p.Y)
		}
	}
}
