package reckon

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSamplerStartsAtOrigin(t *testing.T) {
	s := NewPathSampler(0.005)

	want := []PathPoint{{X: 0, Y: 0}}
	if diff := cmp.Diff(want, s.Points()); diff != "" {
		t.Errorf("Points() mismatch (-want +got):\n%s", diff)
	}
	if s.Distance() != 0 {
		t.Errorf("Distance() = %v, want 0", s.Distance())
	}
}

func TestSamplerThreshold(t *testing.T) {
	s := NewPathSampler(0.005)

	// 4 mm from the origin: below threshold, discarded.
	if _, ok := s.Consider(0.004, 0); ok {
		t.Error("Consider(0.004, 0) recorded, want discarded")
	}
	if got := len(s.Points()); got != 1 {
		t.Errorf("trajectory length = %d, want 1", got)
	}
	if s.Distance() != 0 {
		t.Errorf("Distance() = %v, want 0", s.Distance())
	}

	// 6 mm: recorded, distance accumulates.
	p, ok := s.Consider(0.006, 0)
	if !ok {
		t.Fatal("Consider(0.006, 0) discarded, want recorded")
	}
	if p != (PathPoint{X: 0.006, Y: 0}) {
		t.Errorf("recorded point = %+v, want {0.006 0}", p)
	}
	if math.Abs(s.Distance()-0.006) > 1e-12 {
		t.Errorf("Distance() = %v, want 0.006", s.Distance())
	}
}

func TestSamplerMeasuresFromLastRecordedPoint(t *testing.T) {
	s := NewPathSampler(0.005)

	// Each step is below threshold relative to the last *recorded*
	// point until the accumulated offset crosses it.
	s.Consider(0.003, 0)
	s.Consider(0.004, 0)
	if got := len(s.Points()); got != 1 {
		t.Fatalf("trajectory length = %d, want 1", got)
	}

	if _, ok := s.Consider(0.0051, 0); !ok {
		t.Error("Consider(0.0051, 0) discarded, want recorded")
	}
}

func TestSamplerAccumulatesDistance(t *testing.T) {
	s := NewPathSampler(0.005)
	s.Consider(0.01, 0)
	s.Consider(0.01, 0.01)

	want := 0.02
	if math.Abs(s.Distance()-want) > 1e-12 {
		t.Errorf("Distance() = %v, want %v", s.Distance(), want)
	}
}

func TestSamplerReset(t *testing.T) {
	s := NewPathSampler(0.005)
	s.Consider(1, 1)
	s.Consider(2, 2)
	s.Reset()

	want := []PathPoint{{X: 0, Y: 0}}
	if diff := cmp.Diff(want, s.Points()); diff != "" {
		t.Errorf("Points() after Reset mismatch (-want +got):\n%s", diff)
	}
	if s.Distance() != 0 {
		t.Errorf("Distance() after Reset = %v, want 0", s.Distance())
	}
}
