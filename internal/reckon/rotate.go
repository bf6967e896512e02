package reckon

import "math"

// RotateToWorld rotates a body-frame acceleration vector into the world
// frame using the given heading. Pure function, no state.
func RotateToWorld(ax, ay, heading float64) (float64, float64) {
	sin, cos := math.Sincos(heading)
	return ax*cos - ay*sin, ax*sin + ay*cos
}
