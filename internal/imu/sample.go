package imu

import "time"

// Sample is a single timestamped 3-axis sensor reading. Units are
// m/s^2 for accelerometer samples and rad/s for gyroscope samples.
type Sample struct {
	X float64   `json:"x"`
	Y float64   `json:"y"`
	Z float64   `json:"z"`
	T time.Time `json:"t"`
}
