// Package scene composes one animation frame: field lines, the vector
// grid, charge glyphs, the magnet and the EM wave, layered by mode.
package scene

import (
	"time"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/fieldlines"
	"github.com/san-kum/fieldsim/internal/surface"
)

// NoSelection is the Selected value when no charge is selected.
const NoSelection = -1

type Magnet struct {
	X        float64 `yaml:"x" json:"x"`
	Y        float64 `yaml:"y" json:"y"`
	Strength float64 `yaml:"strength" json:"strength"`
	AngleDeg float64 `yaml:"angle_deg" json:"angle_deg"`
}

type Wave struct {
	Amplitude  float64 `yaml:"amplitude" json:"amplitude"`
	Wavelength float64 `yaml:"wavelength" json:"wavelength"`
}

// Frame is the read-only input for one frame.
type Frame struct {
	Size        surface.Size
	Time        time.Duration
	Mode        Mode
	Charges     []field.Charge
	Selected    int
	Density     int
	AnimSpeed   float64
	ShowVectors bool
	Magnet      Magnet
	Wave        Wave
}

// Millis is the frame time in milliseconds, the unit every animation
// rate is expressed in.
func (f Frame) Millis() float64 {
	return float64(f.Time) / float64(time.Millisecond)
}

// Renderer draws frames against one field source.
type Renderer struct {
	Source field.Source
}

func NewRenderer(src field.Source) *Renderer {
	if src == nil {
		src = field.Coulomb{}
	}
	return &Renderer{Source: src}
}

// Render clears sf and draws f. Layers go down in a fixed order: field
// lines, vectors, charges, magnet, wave.
func (r *Renderer) Render(sf surface.Surface, f Frame) {
	sf.Clear()
	l := layersFor(f.Mode)
	ms := f.Millis()

	if l.electric {
		tr := fieldlines.New(r.Source, f.Size.W, f.Size.H)
		DrawFieldLines(sf, tr.Trace(f.Charges, f.Density))
		if f.ShowVectors {
			DrawVectors(sf, SampleVectors(r.Source, f.Charges, f.Size), FlowPhase(ms, f.AnimSpeed))
		}
		for _, c := range f.Charges {
			DrawCharge(sf, c, f.Selected != NoSelection && c.ID == f.Selected, ms, f.AnimSpeed)
		}
	}
	if l.magnetic {
		DrawMagnet(sf, f.Magnet, f.Size, ms, f.AnimSpeed)
	}
	if l.wave {
		DrawWave(sf, f.Wave, f.Size, ms, f.AnimSpeed)
	}
}

var defaultRenderer = NewRenderer(nil)

// RenderFrame draws f with the direct Coulomb model.
func RenderFrame(sf surface.Surface, f Frame) {
	defaultRenderer.Render(sf, f)
}

// DrawFieldLines strokes each traced line on its own path.
func DrawFieldLines(sf surface.Surface, lines []fieldlines.Polyline) {
	if len(lines) == 0 {
		return
	}
	sf.SetLineDash(nil)
	sf.SetStrokeStyle(fieldLineColor)
	sf.SetLineWidth(1.5)
	for _, l := range lines {
		sf.BeginPath()
		sf.MoveTo(l[0].X, l[0].Y)
		for _, p := range l[1:] {
			sf.LineTo(p.X, p.Y)
		}
		sf.Stroke()
	}
}
