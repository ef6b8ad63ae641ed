package surface

import "gonum.org/v1/gonum/spatial/r2"

type OpKind uint8

const (
	OpClear OpKind = iota
	OpStroke
	OpFill
	OpText
)

func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpStroke:
		return "stroke"
	case OpFill:
		return "fill"
	case OpText:
		return "text"
	}
	return "unknown"
}

// Op is one recorded drawing call.
type Op struct {
	Kind      OpKind
	Paths     []Path
	Paint     Paint
	LineWidth float64
	Dash      []float64
	Font      Font
	Text      string
	At        r2.Vec
}

// Recorder is a Backend that keeps every call for inspection. The
// headless runner and tests draw into it.
type Recorder struct {
	Ops []Op
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: OpClear})
}

func (r *Recorder) StrokePaths(paths []Path, st *State) {
	r.Ops = append(r.Ops, Op{
		Kind:      OpStroke,
		Paths:     clonePaths(paths),
		Paint:     st.Stroke,
		LineWidth: st.LineWidth,
		Dash:      append([]float64(nil), st.Dash...),
	})
}

func (r *Recorder) FillPaths(paths []Path, st *State) {
	r.Ops = append(r.Ops, Op{
		Kind:  OpFill,
		Paths: clonePaths(paths),
		Paint: st.Fill,
	})
}

func (r *Recorder) FillText(text string, at r2.Vec, st *State) {
	r.Ops = append(r.Ops, Op{
		Kind:  OpText,
		Text:  text,
		At:    at,
		Paint: st.Fill,
		Font:  st.Font,
	})
}

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns the recorded text labels in draw order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

func clonePaths(paths []Path) []Path {
	out := make([]Path, len(paths))
	for i, p := range paths {
		out[i] = Path{Points: append([]r2.Vec(nil), p.Points...), Closed: p.Closed}
	}
	return out
}
