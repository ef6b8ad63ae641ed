// Package export writes frames and recorded runs to image files.
package export

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/san-kum/fieldsim/internal/anim"
	"github.com/san-kum/fieldsim/internal/scene"
	"github.com/san-kum/fieldsim/internal/storage"
	"github.com/san-kum/fieldsim/internal/surface"
)

// GIFDelay is the per-frame delay in hundredths of a second, about 30 fps.
const GIFDelay = 3

var trajectoryStroke = surface.Hex("#fbbf24")

func canvas(size surface.Size) (int, int) {
	return int(math.Ceil(size.W)), int(math.Ceil(size.H))
}

// WriteSVG renders f as an SVG document.
func WriteSVG(w io.Writer, f scene.Frame) error {
	width, height := canvas(f.Size)
	doc := surface.NewSVG(width, height)
	scene.RenderFrame(surface.NewContext(doc), f)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// RenderImage rasterises f.
func RenderImage(f scene.Frame) *image.RGBA {
	width, height := canvas(f.Size)
	r := surface.NewRaster(width, height)
	scene.RenderFrame(surface.NewContext(r), f)
	return r.Image()
}

func WritePNG(w io.Writer, f scene.Frame) error {
	if err := png.Encode(w, RenderImage(f)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Animation renders frames through the driver, so the test particle moves
// exactly as it would in a live host.
type Animation struct {
	Snapshot anim.Snapshot
	Frames   int
	Driver   *anim.Driver
	// Step is the simulated wall time between frames.
	Step time.Duration
}

// WriteGIF renders a.Frames frames and encodes them as a looping GIF.
func WriteGIF(ctx context.Context, w io.Writer, a Animation) error {
	if a.Frames <= 0 {
		return fmt.Errorf("export: frame count %d must be positive", a.Frames)
	}
	d := a.Driver
	if d == nil {
		d = anim.New()
	}
	step := a.Step
	if step <= 0 {
		step = anim.NominalFrame
	}

	width, height := canvas(a.Snapshot.Frame.Size)
	r := surface.NewRaster(width, height)
	sf := surface.NewContext(r)

	out := &gif.GIF{}
	start := time.Unix(0, 0)
	for i := range a.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.Tick(sf, a.Snapshot, start.Add(time.Duration(i)*step))
		out.Image = append(out.Image, quantize(r.Image()))
		out.Delay = append(out.Delay, GIFDelay)
	}
	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

func quantize(src *image.RGBA) *image.Paletted {
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, src.Bounds(), src, image.Point{})
	return dst
}

// WriteTrajectorySVG draws a recorded particle path in canvas coordinates
// on a dark background.
func WriteTrajectorySVG(w io.Writer, size surface.Size, traj []storage.Sample) error {
	if len(traj) < 2 {
		return fmt.Errorf("export: trajectory needs at least 2 samples, got %d", len(traj))
	}
	width, height := canvas(size)
	doc := surface.NewSVG(width, height)
	sf := surface.NewContext(doc)
	sf.Clear()

	sf.SetStrokeStyle(trajectoryStroke)
	sf.SetLineWidth(1.5)
	sf.BeginPath()
	prev := traj[0]
	sf.MoveTo(prev.X, prev.Y)
	for _, p := range traj[1:] {
		// A jump back to the center is a respawn, not motion.
		if math.Hypot(p.X-prev.X, p.Y-prev.Y) > size.W/4 {
			sf.MoveTo(p.X, p.Y)
		} else {
			sf.LineTo(p.X, p.Y)
		}
		prev = p
	}
	sf.Stroke()

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}
