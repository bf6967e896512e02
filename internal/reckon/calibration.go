package reckon

import "github.com/relabs-tech/inertial_tracker/internal/imu"

// Bias is an accelerometer snapshot taken while the device was stationary,
// subtracted from subsequent readings.
type Bias struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// CalibrationStore holds the current accelerometer bias. The zero value
// has zero bias, which leaves readings unchanged.
type CalibrationStore struct {
	bias Bias
}

// Calibrate replaces the stored bias with the given sample.
func (c *CalibrationStore) Calibrate(s imu.Sample) {
	c.bias = Bias{X: s.X, Y: s.Y, Z: s.Z}
}

// Current returns the latest bias.
func (c *CalibrationStore) Current() Bias {
	return c.bias
}

// Correct applies the stored x/y bias to a raw accelerometer reading.
// The z axis is not used by the planar estimator.
func (c *CalibrationStore) Correct(ax, ay float64) (float64, float64) {
	return ax - c.bias.X, ay - c.bias.Y
}
