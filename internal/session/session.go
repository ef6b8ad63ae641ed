// Package session holds the editable state a host mutates in response to
// input: the charge list, selection, toggles and the magnet. Hosts read it
// back as an anim.Snapshot once per frame.
package session

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/san-kum/fieldsim/internal/anim"
	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/scene"
	"github.com/san-kum/fieldsim/internal/surface"
)

// MagnetGrabRadius is how close a press must land to the magnet center to
// start dragging it.
const MagnetGrabRadius = 70.0

// DipoleMinCoord keeps a centred dipole clear of the top-left corner on
// small canvases.
const DipoleMinCoord = 120.0

type dragKind uint8

const (
	dragNone dragKind = iota
	dragCharge
	dragMagnet
)

type Session struct {
	Size        surface.Size
	Mode        scene.Mode
	Charges     []field.Charge
	Selected    int
	AddPolarity field.Polarity
	Density     int
	AnimSpeed   float64
	ShowVectors bool
	Particle    bool
	Magnet      scene.Magnet
	Wave        scene.Wave

	nextID int
	rng    *rand.Rand
	drag   dragKind
	dragID int
}

// New copies the starting values out of cfg. seed drives the charge pulse
// phases.
func New(cfg *config.Config, seed uint64) *Session {
	return &Session{
		Size:        cfg.Size(),
		Mode:        cfg.Mode,
		Charges:     slices.Clone(cfg.Charges),
		Selected:    scene.NoSelection,
		AddPolarity: field.Positive,
		Density:     cfg.Density,
		AnimSpeed:   cfg.AnimSpeed,
		ShowVectors: cfg.ShowVectors,
		Particle:    cfg.TestParticle,
		Magnet:      cfg.Magnet,
		Wave:        cfg.Wave,
		nextID:      config.NextID(cfg.Charges),
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Snapshot hands the driver a frame that shares nothing with the session.
func (s *Session) Snapshot() anim.Snapshot {
	return anim.Snapshot{
		Frame: scene.Frame{
			Size:        s.Size,
			Mode:        s.Mode,
			Charges:     slices.Clone(s.Charges),
			Selected:    s.Selected,
			Density:     s.Density,
			AnimSpeed:   s.AnimSpeed,
			ShowVectors: s.ShowVectors,
			Magnet:      s.Magnet,
			Wave:        s.Wave,
		},
		Particle: s.Particle,
	}
}

func (s *Session) phase() float64 { return s.rng.Float64() * 2 * math.Pi }

// AddCharge places a default charge of the current add polarity.
func (s *Session) AddCharge(x, y float64) field.Charge {
	c := config.NewCharge(s.nextID, x, y, s.AddPolarity, s.phase())
	s.nextID++
	s.Charges = append(s.Charges, c)
	return c
}

// AddDipole places a dipole centred on (x, y), each coordinate held at
// DipoleMinCoord or more.
func (s *Session) AddDipole(x, y float64) {
	d := config.Dipole(s.nextID, max(DipoleMinCoord, x), max(DipoleMinCoord, y), [2]float64{s.phase(), s.phase()})
	s.nextID += len(d)
	s.Charges = append(s.Charges, d...)
}

// AddCenteredDipole is the toolbar action: a dipole at the canvas center.
func (s *Session) AddCenteredDipole() {
	c := s.Size.Center()
	s.AddDipole(c.X, c.Y)
}

func (s *Session) Clear() {
	s.Charges = nil
	s.Selected = scene.NoSelection
	s.drag = dragNone
}

// Delete removes the charge with id. It reports whether one was removed.
func (s *Session) Delete(id int) bool {
	i := field.IndexByID(s.Charges, id)
	if i < 0 {
		return false
	}
	s.Charges = slices.Delete(s.Charges, i, i+1)
	if s.Selected == id {
		s.Selected = scene.NoSelection
	}
	return true
}

// DeleteAt removes the topmost charge under (x, y).
func (s *Session) DeleteAt(x, y float64) bool {
	i := field.HitTest(s.Charges, x, y)
	if i < 0 {
		return false
	}
	return s.Delete(s.Charges[i].ID)
}

// Tap toggles selection of the charge under the point, or adds a charge
// when the point is empty. Only electric-capable modes accept taps.
func (s *Session) Tap(x, y float64) {
	if !s.Mode.ElectricCapable() {
		return
	}
	if i := field.HitTest(s.Charges, x, y); i >= 0 {
		id := s.Charges[i].ID
		if s.Selected == id {
			s.Selected = scene.NoSelection
		} else {
			s.Selected = id
		}
		return
	}
	s.AddCharge(x, y)
}

// Press starts a drag. The magnet wins when it is visible and within
// MagnetGrabRadius; otherwise the topmost charge under the point is
// selected and dragged.
func (s *Session) Press(x, y float64) {
	if s.Mode.MagnetVisible() {
		dx, dy := x-s.Magnet.X, y-s.Magnet.Y
		if dx*dx+dy*dy <= MagnetGrabRadius*MagnetGrabRadius {
			s.drag = dragMagnet
			s.Magnet.X, s.Magnet.Y = x, y
			return
		}
	}
	if i := field.HitTest(s.Charges, x, y); i >= 0 {
		s.drag = dragCharge
		s.dragID = s.Charges[i].ID
		s.Selected = s.dragID
	}
}

// Move follows an active drag.
func (s *Session) Move(x, y float64) {
	switch s.drag {
	case dragMagnet:
		s.Magnet.X, s.Magnet.Y = x, y
	case dragCharge:
		if i := field.IndexByID(s.Charges, s.dragID); i >= 0 {
			s.Charges[i].X, s.Charges[i].Y = x, y
		}
	}
}

// Release ends a drag. A release with no drag in progress is a tap.
func (s *Session) Release(x, y float64) {
	if s.drag == dragNone {
		s.Tap(x, y)
	}
	s.Cancel()
}

// Cancel drops any drag without tapping, as when the pointer leaves.
func (s *Session) Cancel() {
	s.drag = dragNone
	s.dragID = 0
}

// Dragging reports whether a drag is active and whether it is the magnet.
func (s *Session) Dragging() (active, magnet bool) {
	return s.drag != dragNone, s.drag == dragMagnet
}

// SetMagnitude sets the selected-charge magnitude in microcoulombs,
// clamped to the slider range.
func (s *Session) SetMagnitude(id int, micro float64) bool {
	i := field.IndexByID(s.Charges, id)
	if i < 0 {
		return false
	}
	micro = max(config.MinMicroCoulombs, min(config.MaxMicroCoulombs, micro))
	s.Charges[i].Magnitude = micro * 1e-6
	return true
}

func (s *Session) SelectedCharge() (field.Charge, bool) {
	i := field.IndexByID(s.Charges, s.Selected)
	if i < 0 {
		return field.Charge{}, false
	}
	return s.Charges[i], true
}

func (s *Session) CycleMode() {
	s.Mode = s.Mode.Next()
	s.Cancel()
}

func (s *Session) ToggleVectors()  { s.ShowVectors = !s.ShowVectors }
func (s *Session) ToggleParticle() { s.Particle = !s.Particle }

func (s *Session) FlipPolarity() {
	s.AddPolarity = -s.AddPolarity
}

// AdjustDensity moves the field line density by delta within the slider
// range.
func (s *Session) AdjustDensity(delta int) {
	s.Density = max(config.MinDensity, min(config.MaxDensity, s.Density+delta))
}

// Probe samples the field at canvas point (x, y) for a pointer at
// (screenX, screenY). The sample is hidden outside electric-capable modes.
func (s *Session) Probe(src field.Source, x, y, screenX, screenY float64) field.ProbeSample {
	if !s.Mode.ElectricCapable() {
		return field.ProbeSample{}
	}
	return field.Probe(src, s.Charges, x, y, screenX, screenY)
}

// Summary is the side-panel readout.
func (s *Session) Summary(src field.Source) field.Summary {
	return field.Summarize(src, s.Charges, s.Size.W, s.Size.H)
}
