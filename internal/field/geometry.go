package field

// ContainsPoint reports whether (x, y) lies on or inside the charge body.
func ContainsPoint(c Charge, x, y float64) bool {
	dx := x - c.X
	dy := y - c.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// InsideAny reports whether (x, y) lies inside any charge body.
func InsideAny(charges []Charge, x, y float64) bool {
	for _, c := range charges {
		if ContainsPoint(c, x, y) {
			return true
		}
	}
	return false
}

// HitTest returns the index of the topmost charge containing (x, y), or -1.
// Later charges are drawn over earlier ones, so the search runs backwards.
func HitTest(charges []Charge, x, y float64) int {
	for i := len(charges) - 1; i >= 0; i-- {
		if ContainsPoint(charges[i], x, y) {
			return i
		}
	}
	return -1
}

// IndexByID returns the index of the charge with the given id, or -1.
func IndexByID(charges []Charge, id int) int {
	for i, c := range charges {
		if c.ID == id {
			return i
		}
	}
	return -1
}
