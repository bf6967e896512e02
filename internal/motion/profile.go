// Package motion describes synthetic motion profiles for the simulated
// sensor feed: a segment list of body-frame accelerations and yaw
// rates, plus an accelerometer bias the calibration command can be
// demonstrated against.
package motion

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Segment is one stretch of constant commanded motion.
type Segment struct {
	DurationS float64 `yaml:"duration_s"`
	AccelX    float64 `yaml:"accel_x"`
	AccelY    float64 `yaml:"accel_y"`
	YawRate   float64 `yaml:"yaw_rate"`
	NoiseStd  float64 `yaml:"noise_std"`
}

// Bias is the constant offset added to synthesized accelerometer x/y
// readings, imitating an uncalibrated sensor.
type Bias struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Profile is the top-level structure of a motion profile file.
type Profile struct {
	IntervalMS int       `yaml:"interval_ms"`
	AccelBias  Bias      `yaml:"accel_bias"`
	Seed       int64     `yaml:"seed"`
	Segments   []Segment `yaml:"segments"`
}

// TotalDuration returns the summed segment time in seconds.
func (p Profile) TotalDuration() float64 {
	total := 0.0
	for _, s := range p.Segments {
		total += s.DurationS
	}
	return total
}

// LoadProfile reads and parses a motion profile file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read motion profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse motion profile: %w", err)
	}
	if err := p.validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (p Profile) validate() error {
	if len(p.Segments) == 0 {
		return fmt.Errorf("motion profile has no segments")
	}
	for i, s := range p.Segments {
		if s.DurationS <= 0 {
			return fmt.Errorf("segment %d: duration_s must be positive, got %v", i, s.DurationS)
		}
		if s.NoiseStd < 0 {
			return fmt.Errorf("segment %d: noise_std must not be negative, got %v", i, s.NoiseStd)
		}
	}
	return nil
}

// DefaultProfile is used when no profile file is configured: push
// forward, turn, then coast, with a visible accelerometer bias.
func DefaultProfile() Profile {
	return Profile{
		IntervalMS: 50,
		AccelBias:  Bias{X: 0.2, Y: -0.1},
		Segments: []Segment{
			{DurationS: 5, AccelX: 1.0},
			{DurationS: 3, YawRate: 0.6, NoiseStd: 0.05},
			{DurationS: 4, NoiseStd: 0.02},
		},
	}
}
