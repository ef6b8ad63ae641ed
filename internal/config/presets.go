package config

import (
	"fmt"
	"slices"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/scene"
)

// Preset is a named starting arrangement on the default canvas.
type Preset struct {
	Description string
	Mode        scene.Mode
	Charges     []field.Charge
	Particle    bool
}

var Presets = map[string]Preset{
	"single": {
		Description: "one positive charge at the center",
		Mode:        scene.Electric,
		Charges:     []field.Charge{NewCharge(1, 480, 320, field.Positive, 0)},
	},
	"dipole": {
		Description: "opposite charges 42 units apart",
		Mode:        scene.Electric,
		Charges:     Dipole(1, 480, 320, [2]float64{0, 1.5}),
		Particle:    true,
	},
	"pair": {
		Description: "two like charges repelling",
		Mode:        scene.Electric,
		Charges: []field.Charge{
			NewCharge(1, 380, 320, field.Positive, 0),
			NewCharge(2, 580, 320, field.Positive, 2.1),
		},
	},
	"negative": {
		Description: "a lone negative charge",
		Mode:        scene.Electric,
		Charges:     []field.Charge{NewCharge(1, 480, 320, field.Negative, 0)},
	},
	"quadrupole": {
		Description: "alternating charges on a square",
		Mode:        scene.Electric,
		Charges: []field.Charge{
			NewCharge(1, 400, 240, field.Positive, 0),
			NewCharge(2, 560, 240, field.Negative, 0.8),
			NewCharge(3, 560, 400, field.Positive, 1.6),
			NewCharge(4, 400, 400, field.Negative, 2.4),
		},
		Particle: true,
	},
	"magnet": {
		Description: "bar magnet rings",
		Mode:        scene.Magnetic,
	},
	"wave": {
		Description: "propagating EM wave",
		Mode:        scene.EMWave,
	},
	"combined": {
		Description: "dipole over the magnet",
		Mode:        scene.Combined,
		Charges:     Dipole(1, 300, 200, [2]float64{0, 1.5}),
		Particle:    true,
	},
}

// GetPreset returns the defaults with the named preset applied.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	p.Apply(cfg)
	return cfg, nil
}

// Apply overwrites the mode, charges and particle toggle of cfg.
func (p Preset) Apply(cfg *Config) {
	cfg.Mode = p.Mode
	cfg.Charges = slices.Clone(p.Charges)
	cfg.TestParticle = p.Particle
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
