package anim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/scene"
	"github.com/san-kum/fieldsim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestClampDelta(t *testing.T) {
	tests := []struct {
		name    string
		prev    time.Time
		elapsed time.Duration
		want    float64
	}{
		{"first frame", time.Time{}, 0, 1},
		{"nominal", epoch, NominalFrame, 1},
		{"fast", epoch, time.Millisecond, MinDelta},
		{"stalled", epoch, time.Second, MaxDelta},
		{"one and a half", epoch, NominalFrame * 3 / 2, 1.5},
	}
	for _, tt := range tests {
		now := epoch.Add(tt.elapsed)
		if got := ClampDelta(tt.prev, now); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func snapshot(particle bool) Snapshot {
	return Snapshot{
		Frame: scene.Frame{
			Size:      surface.Size{W: 960, H: 640},
			Mode:      scene.Electric,
			Charges:   []field.Charge{{ID: 1, X: 400, Y: 320, Polarity: field.Positive, Magnitude: 1e-6, Radius: 25}},
			Selected:  scene.NoSelection,
			Density:   4,
			AnimSpeed: 1,
		},
		Particle: particle,
	}
}

func TestTickActivatesParticle(t *testing.T) {
	d := New()
	rec := surface.NewRecorder()
	sf := surface.NewContext(rec)

	tk := d.Tick(sf, snapshot(true), epoch)
	if tk.Index != 0 || tk.Dt != 1 {
		t.Errorf("first tick: %+v", tk)
	}
	if !tk.Particle.Active {
		t.Fatal("particle should be active")
	}
	if rec.Ops[0].Kind != surface.OpClear {
		t.Error("frame should start with a clear")
	}
	// The particle dot is the last thing drawn.
	if last := rec.Ops[len(rec.Ops)-1]; last.Kind != surface.OpFill {
		t.Errorf("last op: got %v", last.Kind)
	}

	tk = d.Tick(sf, snapshot(true), epoch.Add(NominalFrame))
	if tk.Index != 1 || math.Abs(tk.Dt-1) > 1e-9 {
		t.Errorf("second tick: %+v", tk)
	}
	if tk.Particle.Trail.Len() != 2 {
		t.Errorf("trail len: got %d", tk.Particle.Trail.Len())
	}
}

func TestTickDeactivatesOutsideElectricModes(t *testing.T) {
	d := New()
	sf := surface.NewContext(surface.NewRecorder())
	d.Tick(sf, snapshot(true), epoch)

	snap := snapshot(true)
	snap.Frame.Mode = scene.EMWave
	tk := d.Tick(sf, snap, epoch.Add(NominalFrame))
	if tk.Particle.Active {
		t.Error("particle should park in em-wave mode")
	}
	if tk.Particle.Pos != (r2.Vec{X: 480, Y: 320}) {
		t.Errorf("parked at %v", tk.Particle.Pos)
	}
}

func TestTickFrameTimeFromFirstTick(t *testing.T) {
	d := New()
	rec := surface.NewRecorder()
	sf := surface.NewContext(rec)

	snap := snapshot(false)
	snap.Frame.Mode = scene.EMWave
	d.Tick(sf, snap, epoch.Add(time.Hour))
	first := append([]surface.Op(nil), rec.Ops...)

	// A fresh driver started at a different wall time draws the same
	// first frame.
	rec.Reset()
	New().Tick(sf, snap, epoch)
	if len(first) != len(rec.Ops) {
		t.Fatalf("op counts differ: %d vs %d", len(first), len(rec.Ops))
	}
	for i := range first {
		if len(first[i].Paths) != len(rec.Ops[i].Paths) {
			t.Fatalf("op %d differs", i)
		}
	}
}

func TestRunConsumesTicks(t *testing.T) {
	d := New(WithSource(field.NewGridCache()), WithClearTrailOnRespawn(true))
	sf := surface.NewContext(surface.NewRecorder())

	var seen []int
	err := d.Run(context.Background(), sf, Ticks(context.Background(), epoch, 10),
		func() Snapshot { return snapshot(true) },
		func(tk Tick) { seen = append(seen, tk.Index) })
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(seen) != 10 || seen[9] != 9 || d.Frames() != 10 {
		t.Errorf("frames: seen %v, driver %d", seen, d.Frames())
	}
	if !d.integrator.ClearTrailOnRespawn {
		t.Error("option order should not drop the respawn flag")
	}
}

func TestTickCacheStaysBounded(t *testing.T) {
	cache := field.NewGridCache()
	d := New(WithSource(cache))
	sf := surface.NewContext(surface.NewRecorder())
	snap := snapshot(true)
	snap.Frame.ShowVectors = true

	d.Tick(sf, snap, epoch)
	first := cache.Len()
	if first == 0 {
		t.Fatal("rendering should populate the cache")
	}
	for i := 1; i < 30; i++ {
		d.Tick(sf, snap, epoch.Add(time.Duration(i)*NominalFrame))
	}
	if !d.State().Active {
		t.Fatal("particle should be active")
	}
	if n := cache.Len(); n != first {
		t.Errorf("cache grew from %d to %d samples over a static scene", first, n)
	}
	if hits, _ := cache.Stats(); hits == 0 {
		t.Error("later frames should hit the cache")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New()
	never := make(chan time.Time)
	err := d.Run(ctx, surface.NewContext(surface.NewRecorder()), never, func() Snapshot { return snapshot(false) }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestReset(t *testing.T) {
	d := New()
	sf := surface.NewContext(surface.NewRecorder())
	d.Tick(sf, snapshot(true), epoch)
	d.Reset()

	if d.Frames() != 0 || d.State().Active {
		t.Errorf("reset left frames=%d active=%v", d.Frames(), d.State().Active)
	}
	if tk := d.Tick(sf, snapshot(true), epoch.Add(time.Minute)); tk.Dt != 1 {
		t.Errorf("first tick after reset: dt %v", tk.Dt)
	}
}
