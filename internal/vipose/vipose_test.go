package vipose

import (
	"math"
	"testing"
	"time"
)

func TestMockSourceProducesFinitePoses(t *testing.T) {
	src := NewMockSource()

	for i := 0; i < 10; i++ {
		p, err := src.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		for name, v := range map[string]float64{"x": p.X, "y": p.Y, "heading": p.Heading} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("poll %d: non-finite %s: %v", i, name, v)
			}
		}
		if p.Heading <= -math.Pi || p.Heading > math.Pi {
			t.Errorf("poll %d: heading %v out of (-pi, pi]", i, p.Heading)
		}
		if p.T.IsZero() {
			t.Errorf("poll %d: pose not timestamped", i)
		}
	}
}

func TestMQTTSourceErrsUntilFirstPose(t *testing.T) {
	src := &MQTTSource{}

	if _, err := src.Next(); err == nil {
		t.Error("Next() before any pose succeeded, want error")
	}

	src.onMessage([]byte(`{"x": 1.5, "y": -0.5, "heading_rad": 0.7}`))
	p, err := src.Next()
	if err != nil {
		t.Fatalf("Next() after pose: %v", err)
	}
	if p.X != 1.5 || p.Y != -0.5 || p.Heading != 0.7 {
		t.Errorf("Next() = %+v", p)
	}
}

func TestMQTTSourceIgnoresBadPayload(t *testing.T) {
	src := &MQTTSource{}
	src.onMessage([]byte(`{"x": 1}`))
	src.onMessage([]byte(`not json`))

	p, err := src.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if p.X != 1 {
		t.Errorf("bad payload overwrote cached pose: %+v", p)
	}
}

func TestTrackFiltersJitter(t *testing.T) {
	var tr Track

	tr.Observe(Pose{X: 0, Y: 0, T: time.Now()})
	tr.Observe(Pose{X: 0.001, Y: 0}) // below threshold
	tr.Observe(Pose{X: 0.1, Y: 0})

	pts := tr.Points()
	if len(pts) != 2 {
		t.Fatalf("len(Points()) = %d, want 2", len(pts))
	}
	if pts[1].X != 0.1 {
		t.Errorf("Points()[1].X = %v, want 0.1", pts[1].X)
	}
}

func TestTrackReset(t *testing.T) {
	var tr Track
	tr.Observe(Pose{X: 1})
	tr.Reset()

	if got := len(tr.Points()); got != 0 {
		t.Errorf("len(Points()) after Reset = %d, want 0", got)
	}
}
