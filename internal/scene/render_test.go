package scene

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/surface"
)

var _ = Describe("RenderFrame", func() {
	var (
		rec   *surface.Recorder
		sf    *surface.Context
		frame Frame
	)

	BeforeEach(func() {
		rec = surface.NewRecorder()
		sf = surface.NewContext(rec)
		frame = Frame{
			Size:      surface.Size{W: 960, H: 640},
			Time:      1500 * time.Millisecond,
			Mode:      Electric,
			Charges:   []field.Charge{{ID: 1, X: 480, Y: 320, Polarity: field.Positive, Magnitude: 1e-6, Radius: 25}},
			Selected:  NoSelection,
			Density:   4,
			AnimSpeed: 1,
			Magnet:    Magnet{X: 480, Y: 320, Strength: 4},
			Wave:      Wave{Amplitude: 80, Wavelength: 200},
		}
	})

	It("always clears first", func() {
		for _, m := range Modes {
			rec.Reset()
			frame.Mode = m
			RenderFrame(sf, frame)
			Expect(rec.Ops).NotTo(BeEmpty())
			Expect(rec.Ops[0].Kind).To(Equal(surface.OpClear), "mode %v", m)
		}
	})

	DescribeTable("labels drawn per mode",
		func(m Mode, want []string) {
			frame.Mode = m
			RenderFrame(sf, frame)
			Expect(rec.Texts()).To(Equal(want))
		},
		Entry("electric", Electric, []string{"+"}),
		Entry("magnetic", Magnetic, []string{"N", "S"}),
		Entry("combined overlays magnet after charges", Combined, []string{"+", "N", "S"}),
		Entry("wave is exclusive", EMWave, []string{"E (Electric)", "B (Magnetic)", "Propagation"}),
	)

	It("draws field lines before charge glyphs", func() {
		RenderFrame(sf, frame)

		lastLine, firstGlyph := -1, -1
		for i, op := range rec.Ops {
			if op.Kind == surface.OpStroke && op.Paint == fieldLineColor {
				lastLine = i
			}
			if _, ok := op.Paint.(*surface.Gradient); ok && firstGlyph < 0 {
				firstGlyph = i
			}
		}
		Expect(lastLine).To(BeNumerically(">", 0))
		Expect(firstGlyph).To(BeNumerically(">", lastLine))
		Expect(rec.Count(surface.OpStroke)).To(Equal(4))
	})

	It("adds the vector grid between lines and glyphs when enabled", func() {
		RenderFrame(sf, frame)
		without := rec.Count(surface.OpFill)

		rec.Reset()
		frame.ShowVectors = true
		RenderFrame(sf, frame)

		arrows := len(SampleVectors(field.Coulomb{}, frame.Charges, frame.Size))
		Expect(arrows).To(BeNumerically(">", 0))
		Expect(rec.Count(surface.OpFill)).To(Equal(without + arrows))
	})

	It("draws nothing but the clear for an empty electric scene", func() {
		frame.Charges = nil
		RenderFrame(sf, frame)
		Expect(rec.Ops).To(HaveLen(1))
	})

	It("rings the selected charge with a dashed stroke", func() {
		frame.Selected = 1
		RenderFrame(sf, frame)

		var dashed []surface.Op
		for _, op := range rec.Ops {
			if op.Kind == surface.OpStroke && len(op.Dash) > 0 {
				dashed = append(dashed, op)
			}
		}
		Expect(dashed).To(HaveLen(1))
		Expect(dashed[0].Dash).To(Equal([]float64{5, 5}))
		Expect(dashed[0].LineWidth).To(Equal(3.0))
	})

	It("does not select a charge whose id happens to be the sentinel", func() {
		frame.Charges[0].ID = NoSelection
		RenderFrame(sf, frame)
		for _, op := range rec.Ops {
			Expect(op.Dash).To(BeEmpty())
		}
	})

	It("produces the same drawing through a cached source", func() {
		RenderFrame(sf, frame)
		direct := rec.Ops

		rec2 := surface.NewRecorder()
		cache := field.NewGridCache()
		cache.Begin(frame.Charges)
		NewRenderer(cache).Render(surface.NewContext(rec2), frame)
		cache.End()
		Expect(cache.Len()).To(BeNumerically(">", 0))
		Expect(rec2.Ops).To(HaveLen(len(direct)))
		for i := range direct {
			Expect(rec2.Ops[i].Kind).To(Equal(direct[i].Kind))
			Expect(rec2.Ops[i].Paths).To(Equal(direct[i].Paths))
		}
	})
})
