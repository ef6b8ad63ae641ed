package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/scene"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Canvas.Width != 960 || cfg.Canvas.Height != 640 {
		t.Errorf("expected 960x640 canvas, got %vx%v", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Density != 12 || cfg.AnimSpeed != 1 || !cfg.ShowVectors {
		t.Errorf("unexpected toggles: %+v", cfg)
	}
	if cfg.Magnet != (scene.Magnet{X: 480, Y: 320, Strength: 4}) {
		t.Errorf("unexpected magnet %+v", cfg.Magnet)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero canvas", func(c *Config) { c.Canvas.Width = 0 }, ErrInvalidCanvas},
		{"bad mode", func(c *Config) { c.Mode = scene.Mode(7) }, ErrUnknownMode},
		{"sparse density", func(c *Config) { c.Density = 2 }, ErrOutOfRange},
		{"fast", func(c *Config) { c.AnimSpeed = 10 }, ErrOutOfRange},
		{"weak magnet", func(c *Config) { c.Magnet.Strength = 0 }, ErrOutOfRange},
		{"flat wave", func(c *Config) { c.Wave.Wavelength = 0 }, ErrInvalidWave},
		{"no magnitude", func(c *Config) {
			c.Charges = []field.Charge{{ID: 1, Polarity: field.Positive, Radius: 25}}
		}, ErrInvalidCharge},
		{"no radius", func(c *Config) {
			c.Charges = []field.Charge{{ID: 1, Polarity: field.Positive, Magnitude: 1e-6}}
		}, ErrInvalidCharge},
		{"zero polarity", func(c *Config) {
			c.Charges = []field.Charge{{ID: 1, Magnitude: 1e-6, Radius: 25}}
		}, ErrInvalidCharge},
		{"duplicate ids", func(c *Config) {
			c.Charges = Dipole(1, 100, 100, [2]float64{})
			c.Charges[1].ID = 1
		}, ErrInvalidCharge},
		{"sentinel id", func(c *Config) {
			c.Charges = []field.Charge{NewCharge(scene.NoSelection, 0, 0, field.Positive, 0)}
		}, ErrInvalidCharge},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldsim.yaml")

	cfg, err := GetPreset("quadrupole")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Mode = scene.Combined
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Mode != scene.Combined {
		t.Errorf("mode: got %v", loaded.Mode)
	}
	if len(loaded.Charges) != 4 || loaded.Charges[1] != cfg.Charges[1] {
		t.Errorf("charges: got %+v", loaded.Charges)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("mode: em-wave\ndensity: 8\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != scene.EMWave || cfg.Density != 8 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Canvas.Width != DefaultWidth || cfg.Wave.Wavelength != 200 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("mode: gravity\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	t.Setenv("FIELDSIM_LOG_LEVEL", "debug")
	t.Setenv("FIELDSIM_LOG_FORMAT", "json")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("env not applied: %+v", cfg.Log)
	}
	if cfg.Log.File != "" {
		t.Errorf("unset variable should leave file empty, got %q", cfg.Log.File)
	}
}

func TestGetPreset(t *testing.T) {
	cfg, err := GetPreset("dipole")
	if err != nil {
		t.Fatalf("expected preset, got %v", err)
	}
	if len(cfg.Charges) != 2 {
		t.Fatalf("expected 2 charges, got %d", len(cfg.Charges))
	}
	if d := cfg.Charges[1].X - cfg.Charges[0].X; d != DipoleSpacing {
		t.Errorf("expected spacing %v, got %v", DipoleSpacing, d)
	}
	if cfg.Charges[0].Polarity != field.Positive || cfg.Charges[1].Polarity != field.Negative {
		t.Error("dipole should be + then -")
	}

	// Presets hand out copies.
	cfg.Charges[0].X = 0
	again, _ := GetPreset("dipole")
	if again.Charges[0].X == 0 {
		t.Error("preset storage was mutated")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if _, err := GetPreset("nonexistent"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d names, got %d", len(Presets), len(names))
	}
	for i, name := range names {
		if i > 0 && names[i-1] >= name {
			t.Errorf("names not sorted at %d", i)
		}
		cfg, err := GetPreset(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		charges []field.Charge
		want    int
	}{
		{nil, 1},
		{Dipole(1, 0, 0, [2]float64{}), 3},
		{[]field.Charge{{ID: 9}, {ID: 4}}, 10},
	}
	for _, tt := range tests {
		if got := NextID(tt.charges); got != tt.want {
			t.Errorf("expected %d, got %d", tt.want, got)
		}
	}
}
