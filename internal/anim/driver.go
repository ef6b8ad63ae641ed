// Package anim drives the per-frame loop: it renders the scene and owns the
// test particle between frames.
package anim

import (
	"context"
	"time"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/particle"
	"github.com/san-kum/fieldsim/internal/scene"
	"github.com/san-kum/fieldsim/internal/surface"
	"go.uber.org/zap"
)

const (
	// NominalFrame is the frame length a delta of 1 corresponds to.
	NominalFrame = 16670 * time.Microsecond

	MinDelta = 0.4
	MaxDelta = 1.8
)

// ClampDelta converts the wall time between two frames into a step
// multiplier. A zero prev marks the first frame and yields 1.
func ClampDelta(prev, now time.Time) float64 {
	if prev.IsZero() {
		return 1
	}
	dt := float64(now.Sub(prev)) / float64(NominalFrame)
	return max(MinDelta, min(MaxDelta, dt))
}

// Snapshot is what a host hands the driver for one frame. Frame.Time is
// filled in by the driver.
type Snapshot struct {
	Frame    scene.Frame
	Particle bool
}

// Tick describes one rendered frame.
type Tick struct {
	Index     int
	Dt        float64
	Particle  particle.State
	Respawned bool
}

type Option func(*Driver)

// WithSource sets the field model used by both rendering and the particle.
// A field.FrameSource is opened around rendering only, so the particle's
// queries bypass it.
func WithSource(src field.Source) Option {
	return func(d *Driver) {
		d.src = src
		d.renderer = scene.NewRenderer(src)
		keep := d.integrator.ClearTrailOnRespawn
		d.integrator = particle.NewIntegrator(src)
		d.integrator.ClearTrailOnRespawn = keep
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

func WithClearTrailOnRespawn(on bool) Option {
	return func(d *Driver) { d.integrator.ClearTrailOnRespawn = on }
}

// Driver is the single writer of the particle state. It is not safe for
// concurrent use.
type Driver struct {
	src        field.Source
	renderer   *scene.Renderer
	integrator *particle.Integrator
	log        *zap.Logger

	state    particle.State
	start    time.Time
	prev     time.Time
	frames   int
	respawns int
}

func New(opts ...Option) *Driver {
	d := &Driver{
		renderer:   scene.NewRenderer(nil),
		integrator: particle.NewIntegrator(nil),
		log:        zap.NewNop(),
		state:      particle.Initial(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Tick renders snap at wall time now, then synchronises and advances the
// particle on top of the frame.
func (d *Driver) Tick(sf surface.Surface, snap Snapshot, now time.Time) Tick {
	dt := ClampDelta(d.prev, now)
	if d.start.IsZero() {
		d.start = now
	}
	d.prev = now

	f := snap.Frame
	f.Time = now.Sub(d.start)
	fs, framed := d.src.(field.FrameSource)
	if framed {
		fs.Begin(f.Charges)
	}
	d.renderer.Render(sf, f)
	if framed {
		fs.End()
	}

	eligible := particle.Eligible(snap.Particle, f.Mode.ElectricCapable(), f.Charges)
	was := d.state.Active
	d.state = particle.Sync(d.state, eligible, f.Size)
	if was != d.state.Active {
		d.log.Debug("particle toggled", zap.Bool("active", d.state.Active), zap.Int("frame", d.frames))
	}

	t := Tick{Index: d.frames, Dt: dt}
	if d.state.Active {
		d.state, t.Respawned = d.integrator.Step(d.state, f.Size, f.Charges, dt)
		particle.Draw(sf, d.state)
		if t.Respawned {
			d.respawns++
			d.log.Debug("particle respawned", zap.Int("frame", d.frames), zap.Int("respawns", d.respawns))
		}
	}
	t.Particle = d.state
	d.frames++
	return t
}

// Run ticks once per value received on ticks until the channel closes or
// ctx is cancelled. snapshot is called once per frame; onFrame may be nil.
func (d *Driver) Run(ctx context.Context, sf surface.Surface, ticks <-chan time.Time, snapshot func() Snapshot, onFrame func(Tick)) error {
	d.log.Info("animation loop started")
	defer func() {
		d.log.Info("animation loop stopped", zap.Int("frames", d.frames), zap.Int("respawns", d.respawns))
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			t := d.Tick(sf, snapshot(), now)
			if onFrame != nil {
				onFrame(t)
			}
		}
	}
}

// State returns a copy of the particle state.
func (d *Driver) State() particle.State { return d.state }

func (d *Driver) Frames() int   { return d.frames }
func (d *Driver) Respawns() int { return d.respawns }

// Reset forgets timing and the particle, as if the driver were new.
func (d *Driver) Reset() {
	d.state = particle.Initial()
	d.start, d.prev = time.Time{}, time.Time{}
	d.frames, d.respawns = 0, 0
}

// Ticks emits n synthetic ticks spaced one nominal frame apart, starting at
// start, and then closes. Headless runs use it in place of a wall clock.
func Ticks(ctx context.Context, start time.Time, n int) <-chan time.Time {
	ch := make(chan time.Time)
	go func() {
		defer close(ch)
		for i := range n {
			select {
			case ch <- start.Add(time.Duration(i) * NominalFrame):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
