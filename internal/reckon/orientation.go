// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package reckon

import "math"

// OrientationTracker integrates gyroscope yaw rate into a heading angle
// kept in (-pi, pi].
type OrientationTracker struct {
	heading float64
}

// Integrate advances the heading by yawRate*dt and returns the new value.
// A single step is assumed to rotate by less than 2*pi, so at most one
// wrap correction is applied.
func (o *OrientationTracker) Integrate(yawRate, dt float64) float64 {
	o.heading = wrapAngle(o.heading + yawRate*dt)
	return o.heading
}

// Heading returns the current yaw angle in radians.
func (o *OrientationTracker) Heading() float64 {
	return o.heading
}

// Reset returns the heading to 0.
func (o *OrientationTracker) Reset() {
	o.heading = 0
}

// wrapAngle maps an angle into (-pi, pi] by at most one 2*pi correction.
func wrapAngle(a float64) float64 {
	if a > math.Pi {
		return a - 2*math.Pi
	}
	if a <= -math.Pi {
		return a + 2*math.Pi
	}
	return a
}
