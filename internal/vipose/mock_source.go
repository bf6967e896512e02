// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package vipose

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a mock pose source that walks a smooth circular
// path, for development without the camera pipeline.
func NewMockSource() Source {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) Next() (Pose, error) {
	elapsed := time.Since(m.start).Seconds()
	angle := elapsed * 0.4

	return Pose{
		X:       2 * math.Cos(angle),
		Y:       2 * math.Sin(angle),
		Z:       0,
		Heading: wrapAngle(angle + math.Pi/2),
		T:       time.Now(),
	}, nil
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
