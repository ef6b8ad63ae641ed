package particle

import "gonum.org/v1/gonum/spatial/r2"

// TrailCap is how many recent positions a trail keeps.
const TrailCap = 120

// Trail is a fixed-capacity circular buffer of positions. It is a plain
// value: copying a State copies its trail.
type Trail struct {
	buf [TrailCap]r2.Vec
	w   int // write position
	n   int // current fill level
}

// Push appends p, evicting the oldest point once full.
func (t *Trail) Push(p r2.Vec) {
	t.buf[t.w] = p
	t.w = (t.w + 1) % TrailCap
	if t.n < TrailCap {
		t.n++
	}
}

func (t *Trail) Len() int { return t.n }

// At returns the i-th point, oldest first.
func (t *Trail) At(i int) r2.Vec {
	start := (t.w - t.n + TrailCap) % TrailCap
	return t.buf[(start+i)%TrailCap]
}

// Points copies the trail out, oldest first.
func (t *Trail) Points() []r2.Vec {
	if t.n == 0 {
		return nil
	}
	out := make([]r2.Vec, t.n)
	for i := range t.n {
		out[i] = t.At(i)
	}
	return out
}

// Last returns the newest point.
func (t *Trail) Last() (r2.Vec, bool) {
	if t.n == 0 {
		return r2.Vec{}, false
	}
	return t.At(t.n - 1), true
}

func (t *Trail) Clear() {
	t.w = 0
	t.n = 0
}
