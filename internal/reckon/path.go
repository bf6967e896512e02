package reckon

import "math"

// PathPoint is a recorded trajectory vertex in world coordinates.
type PathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PathSampler appends positions to the trajectory only when they have
// moved far enough from the last recorded point, and accumulates total
// path length. Raw 20 Hz integration produces sub-millimetre steps
// dominated by noise; the threshold keeps the vertex count and the
// distance accumulator from inflating on jitter.
type PathSampler struct {
	minStep  float64
	points   []PathPoint
	last     PathPoint
	haveLast bool
	distance float64
}

// NewPathSampler returns a sampler holding the single origin point.
func NewPathSampler(minStep float64) *PathSampler {
	s := &PathSampler{minStep: minStep}
	s.Reset()
	return s
}

// Consider records (x, y) if it is the first point of the session or
// further than the threshold from the last recorded point. It reports
// whether the point was recorded. Discarded positions add no distance.
func (s *PathSampler) Consider(x, y float64) (PathPoint, bool) {
	p := PathPoint{X: x, Y: y}
	if !s.haveLast {
		s.points = append(s.points, p)
		s.last = p
		s.haveLast = true
		return p, true
	}
	d := math.Hypot(x-s.last.X, y-s.last.Y)
	if d <= s.minStep {
		return PathPoint{}, false
	}
	s.points = append(s.points, p)
	s.last = p
	s.distance += d
	return p, true
}

// Points returns a copy of the recorded trajectory in insertion order.
func (s *PathSampler) Points() []PathPoint {
	out := make([]PathPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Distance returns the accumulated path length in metres.
func (s *PathSampler) Distance() float64 {
	return s.distance
}

// Reset clears the trajectory back to the single origin point and zeroes
// the distance accumulator.
func (s *PathSampler) Reset() {
	s.points = []PathPoint{{}}
	s.last = PathPoint{}
	s.haveLast = true
	s.distance = 0
}
