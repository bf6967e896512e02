package vipose

import (
	"math"
	"sync"
)

// minTrackStep matches the dead-reckoning path threshold so the vision
// trajectory does not explode on pose jitter either.
const minTrackStep = 0.005

// Track accumulates the vision trajectory from periodic polls. Safe for
// concurrent observe/read.
type Track struct {
	mu     sync.Mutex
	points []Pose
}

// Observe appends the pose if it has moved visibly since the last
// recorded one.
func (t *Track) Observe(p Pose) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.points); n > 0 {
		last := t.points[n-1]
		if math.Hypot(p.X-last.X, p.Y-last.Y) <= minTrackStep {
			return
		}
	}
	t.points = append(t.points, p)
}

// Points returns a copy of the recorded trajectory.
func (t *Track) Points() []Pose {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Pose, len(t.points))
	copy(out, t.points)
	return out
}

// Reset clears the trajectory.
func (t *Track) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.points = nil
}
