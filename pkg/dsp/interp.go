package dsp

// InterpolateFrame performs 4-point cubic (Catmull-Rom style) interpolation
// between four consecutive frames at fractional position t in [0, 1),
// where current sits between p1 and p2. This is the resampler's
// interpolation kernel (spec.md §4.5).
func InterpolateFrame(p0, p1, p2, p3 Frame, t float32) Frame {
	return Frame{
		Left:  cubic(p0.Left, p1.Left, p2.Left, p3.Left, t),
		Right: cubic(p0.Right, p1.Right, p2.Right, p3.Right, t),
	}
}

func cubic(y0, y1, y2, y3, t float32) float32 {
	c0 := y1
	c1 := 0.5 * (y2 - y0)
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c3 := 0.5*(y3-y0) + 1.5*(y1-y2)
	return ((c3*t+c2)*t+c1)*t + c0
}
