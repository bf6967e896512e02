// Package vipose consumes an external visual-inertial (camera pose)
// tracking pipeline as an opaque, competing trajectory source. Its
// output is shown next to the dead-reckoned path and never fused with
// it.
package vipose

import "time"

// Pose is one camera pose report from the external pipeline.
type Pose struct {
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Z       float64   `json:"z"`
	Heading float64   `json:"heading_rad"`
	T       time.Time `json:"t"`
}

// Source is anything that can provide poses over time. Next may fail
// intermittently; callers keep the previous pose for that tick.
type Source interface {
	Next() (Pose, error)
}
