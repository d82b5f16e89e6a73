package editor

import "math"

const (
	MinZoom = 0.25
	MaxZoom = 4.0

	// ZoomStep is the increment of the zoom buttons/keys.
	ZoomStep = 0.25
	// WheelZoomStep is the increment of one wheel notch.
	WheelZoomStep = 0.1
)

// Zoom is the view scale factor, kept within [MinZoom, MaxZoom].
type Zoom float64

// Step returns z moved by delta, clamped, and rounded to two decimals so
// repeated wheel steps do not accumulate float drift.
func (z Zoom) Step(delta float64) Zoom {
	v := math.Round((float64(z)+delta)*100) / 100
	v = math.Max(MinZoom, math.Min(MaxZoom, v))
	return Zoom(v)
}

// Percent returns the zoom as a whole percentage.
func (z Zoom) Percent() int {
	return int(math.Round(float64(z) * 100))
}
