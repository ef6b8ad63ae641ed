package scene

import (
	"errors"
	"fmt"
)

// Mode selects which layers a frame draws.
type Mode uint8

const (
	Electric Mode = iota
	Magnetic
	EMWave
	Combined
)

// Modes lists every mode in cycling order.
var Modes = []Mode{Electric, Magnetic, EMWave, Combined}

var ErrUnknownMode = errors.New("scene: unknown mode")

// ModeVisitor has one method per mode. Adding a mode adds a method here,
// which breaks every dispatcher until it handles the new case.
type ModeVisitor interface {
	Electric()
	Magnetic()
	EMWave()
	Combined()
}

// Accept calls the visitor method for m. An unknown mode visits nothing;
// config validation rejects such modes before they reach a frame.
func (m Mode) Accept(v ModeVisitor) {
	switch m {
	case Electric:
		v.Electric()
	case Magnetic:
		v.Magnetic()
	case EMWave:
		v.EMWave()
	case Combined:
		v.Combined()
	}
}

func (m Mode) String() string {
	switch m {
	case Electric:
		return "electric"
	case Magnetic:
		return "magnetic"
	case EMWave:
		return "em-wave"
	case Combined:
		return "combined"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if int(m) >= len(Modes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Next returns the mode after m in cycling order.
func (m Mode) Next() Mode {
	return Modes[(int(m)+1)%len(Modes)]
}

// layers is the set of renderers a mode turns on.
type layers struct {
	electric, magnetic, wave bool
}

func (l *layers) Electric() { l.electric = true }
func (l *layers) Magnetic() { l.magnetic = true }
func (l *layers) EMWave() { l.wave = true }
func (l *layers) Combined() { l.electric, l.magnetic = true, true }

func layersFor(m Mode) layers {
	var l layers
	m.Accept(&l)
	return l
}

// ElectricCapable reports whether m draws charges, which is also when the
// test particle and the probe are live.
func (m Mode) ElectricCapable() bool { return layersFor(m).electric }

// MagnetVisible reports whether m draws the magnet.
func (m Mode) MagnetVisible() bool { return layersFor(m).magnetic }
