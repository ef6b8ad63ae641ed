package surface

import "gonum.org/v1/gonum/spatial/r2"

// DashPaths splits paths into the "on" runs of an even-length dash
// pattern, measured in device units. Backends without native dashing call
// it before stroking.
func DashPaths(paths []Path, dash []float64) []Path {
	var total float64
	for _, d := range dash {
		total += d
	}
	if len(dash) == 0 || total <= 0 {
		return paths
	}

	var out []Path
	for _, p := range paths {
		pts := p.Points
		if len(pts) == 0 {
			continue
		}
		if p.Closed && len(pts) > 1 {
			pts = append(append([]r2.Vec(nil), pts...), pts[0])
		}

		idx, left, on := 0, dash[0], true
		cur := []r2.Vec{pts[0]}
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			seg := r2.Norm(r2.Sub(b, a))
			for seg > 0 {
				if seg < left {
					left -= seg
					if on {
						cur = append(cur, b)
					}
					seg = 0
					continue
				}
				cut := r2.Add(a, r2.Scale(left/r2.Norm(r2.Sub(b, a)), r2.Sub(b, a)))
				if on {
					cur = append(cur, cut)
					out = append(out, Path{Points: cur})
					cur = nil
				} else {
					cur = []r2.Vec{cut}
				}
				seg -= left
				a = cut
				on = !on
				idx = (idx + 1) % len(dash)
				left = dash[idx]
			}
		}
		if on && len(cur) > 1 {
			out = append(out, Path{Points: cur})
		}
	}
	return out
}
