package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/scene"
	"github.com/san-kum/fieldsim/internal/surface"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth     = 960.0
	DefaultHeight    = 640.0
	DefaultDensity   = 12
	DefaultAnimSpeed = 1.0

	// DefaultMagnitude and DefaultRadius apply to every newly placed charge.
	DefaultMagnitude = 1e-6
	DefaultRadius    = 25.0

	DipoleSpacing = 42.0
)

// Slider ranges a host may expose.
const (
	MinDensity, MaxDensity             = 4, 24
	MinAnimSpeed, MaxAnimSpeed         = 0.1, 3.0
	MinMicroCoulombs, MaxMicroCoulombs = 0.2, 5.0
	MinMagnetStrength                  = 1.0
	MaxMagnetStrength                  = 8.0
	MinAmplitude, MaxAmplitude         = 20.0, 160.0
	MinWavelength, MaxWavelength       = 80.0, 420.0
)

var (
	ErrInvalidCharge = errors.New("config: invalid charge")
	ErrInvalidCanvas = errors.New("config: invalid canvas size")
	ErrUnknownMode   = scene.ErrUnknownMode
	ErrUnknownPreset = errors.New("config: unknown preset")
	ErrInvalidWave   = errors.New("config: invalid wave")
	ErrOutOfRange    = errors.New("config: value out of range")
)

type Canvas struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// LogConfig is the only section the environment can override.
type LogConfig struct {
	Level  string `yaml:"level" env:"FIELDSIM_LOG_LEVEL"`
	Format string `yaml:"format" env:"FIELDSIM_LOG_FORMAT"`
	File   string `yaml:"file" env:"FIELDSIM_LOG_FILE"`
}

type Config struct {
	Canvas              Canvas         `yaml:"canvas"`
	Mode                scene.Mode     `yaml:"mode"`
	Density             int            `yaml:"density"`
	AnimSpeed           float64        `yaml:"anim_speed"`
	ShowVectors         bool           `yaml:"show_vectors"`
	TestParticle        bool           `yaml:"test_particle"`
	ClearTrailOnRespawn bool           `yaml:"clear_trail_on_respawn"`
	Charges             []field.Charge `yaml:"charges"`
	Magnet              scene.Magnet   `yaml:"magnet"`
	Wave                scene.Wave     `yaml:"wave"`
	Log                 LogConfig      `yaml:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		Canvas:      Canvas{Width: DefaultWidth, Height: DefaultHeight},
		Mode:        scene.Electric,
		Density:     DefaultDensity,
		AnimSpeed:   DefaultAnimSpeed,
		ShowVectors: true,
		Magnet:      scene.Magnet{X: 480, Y: 320, Strength: 4},
		Wave:        scene.Wave{Amplitude: 80, Wavelength: 200},
		Log:         LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads a YAML file over the defaults and then applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays FIELDSIM_LOG_* variables that are set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(&c.Log); err != nil {
		return fmt.Errorf("config env: %w", err)
	}
	return nil
}

// Validate checks the data-model invariants the engine relies on.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: %vx%v", ErrInvalidCanvas, c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := c.Mode.MarshalText(); err != nil {
		return err
	}
	if c.Density < MinDensity || c.Density > MaxDensity {
		return fmt.Errorf("%w: density %d not in [%d, %d]", ErrOutOfRange, c.Density, MinDensity, MaxDensity)
	}
	if c.AnimSpeed < MinAnimSpeed || c.AnimSpeed > MaxAnimSpeed {
		return fmt.Errorf("%w: anim speed %v not in [%v, %v]", ErrOutOfRange, c.AnimSpeed, MinAnimSpeed, MaxAnimSpeed)
	}
	if c.Magnet.Strength < MinMagnetStrength || c.Magnet.Strength > MaxMagnetStrength {
		return fmt.Errorf("%w: magnet strength %v", ErrOutOfRange, c.Magnet.Strength)
	}
	if c.Wave.Wavelength <= 0 || c.Wave.Amplitude < 0 {
		return fmt.Errorf("%w: amplitude %v, wavelength %v", ErrInvalidWave, c.Wave.Amplitude, c.Wave.Wavelength)
	}

	seen := make(map[int]bool, len(c.Charges))
	for i, ch := range c.Charges {
		switch {
		case ch.ID < 1:
			return fmt.Errorf("%w: charge %d has id %d", ErrInvalidCharge, i, ch.ID)
		case seen[ch.ID]:
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidCharge, ch.ID)
		case ch.Magnitude <= 0:
			return fmt.Errorf("%w: charge %d magnitude %v", ErrInvalidCharge, ch.ID, ch.Magnitude)
		case ch.Radius <= 0:
			return fmt.Errorf("%w: charge %d radius %v", ErrInvalidCharge, ch.ID, ch.Radius)
		case ch.Polarity != field.Positive && ch.Polarity != field.Negative:
			return fmt.Errorf("%w: charge %d polarity %d", ErrInvalidCharge, ch.ID, ch.Polarity)
		}
		seen[ch.ID] = true
	}
	return nil
}

func (c *Config) Size() surface.Size {
	return surface.Size{W: c.Canvas.Width, H: c.Canvas.Height}
}

// Frame builds a frame from the file values with nothing selected.
func (c *Config) Frame() scene.Frame {
	return scene.Frame{
		Size:        c.Size(),
		Mode:        c.Mode,
		Charges:     c.Charges,
		Selected:    scene.NoSelection,
		Density:     c.Density,
		AnimSpeed:   c.AnimSpeed,
		ShowVectors: c.ShowVectors,
		Magnet:      c.Magnet,
		Wave:        c.Wave,
	}
}

// NewCharge returns a charge with the default magnitude and radius.
func NewCharge(id int, x, y float64, p field.Polarity, phase float64) field.Charge {
	return field.Charge{ID: id, X: x, Y: y, Polarity: p, Magnitude: DefaultMagnitude, Radius: DefaultRadius, Phase: phase}
}

// Dipole returns a positive and a negative charge DipoleSpacing apart,
// centred on (x, y), with ids firstID and firstID+1.
func Dipole(firstID int, x, y float64, phases [2]float64) []field.Charge {
	return []field.Charge{
		NewCharge(firstID, x-DipoleSpacing/2, y, field.Positive, phases[0]),
		NewCharge(firstID+1, x+DipoleSpacing/2, y, field.Negative, phases[1]),
	}
}

// NextID is one past the largest id in charges, and at least 1.
func NextID(charges []field.Charge) int {
	next := 1
	for _, c := range charges {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	return next
}
