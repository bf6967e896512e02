// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package motion

import (
	"math"
	"math/rand"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/imu"
)

// gravity shows up on the accelerometer z axis; the planar estimator
// ignores it but real payloads carry it.
const gravity = 9.81

// Synth walks a profile's segments by elapsed time and emits paired
// accelerometer/gyroscope readings. The profile loops once exhausted.
type Synth struct {
	profile Profile
	total   float64
	elapsed float64
	rng     *rand.Rand
}

// NewSynth returns a synthesizer positioned at the start of the
// profile. A zero seed draws one from the clock.
func NewSynth(p Profile) *Synth {
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Synth{
		profile: p,
		total:   p.TotalDuration(),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Next advances the profile clock by dt seconds and returns one
// accelerometer and one gyroscope reading for the active segment.
// Samples carry no timestamp; the feed tags them at dispatch.
func (s *Synth) Next(dt float64) (accel, gyro imu.Sample) {
	s.elapsed += dt
	seg := s.segmentAt(s.elapsed)

	accel = imu.Sample{
		X: seg.AccelX + s.profile.AccelBias.X + s.noise(seg.NoiseStd),
		Y: seg.AccelY + s.profile.AccelBias.Y + s.noise(seg.NoiseStd),
		Z: gravity + s.noise(seg.NoiseStd),
	}
	gyro = imu.Sample{
		Z: seg.YawRate + s.noise(seg.NoiseStd),
	}
	return accel, gyro
}

func (s *Synth) noise(std float64) float64 {
	if std <= 0 {
		return 0
	}
	return s.rng.NormFloat64() * std
}

func (s *Synth) segmentAt(t float64) Segment {
	if s.total <= 0 || len(s.profile.Segments) == 0 {
		return Segment{}
	}
	t = math.Mod(t, s.total)
	for _, seg := range s.profile.Segments {
		if t < seg.DurationS {
			return seg
		}
		t -= seg.DurationS
	}
	return s.profile.Segments[len(s.profile.Segments)-1]
}
