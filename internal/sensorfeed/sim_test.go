package sensorfeed

import (
	"testing"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/imu"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

func TestSimFeedDeliversPairedSamples(t *testing.T) {
	profile := motion.Profile{
		IntervalMS: 5,
		Segments:   []motion.Segment{{DurationS: 10, AccelX: 1}},
	}
	feed := NewSimFeed(profile)
	defer feed.Close()

	accelCh := make(chan imu.Sample, 1)
	gyroCh := make(chan imu.Sample, 1)
	ah := feed.AddListener(KindAccel, func(s imu.Sample) {
		select {
		case accelCh <- s:
		default:
		}
	})
	defer feed.Remove(ah)
	gh := feed.AddListener(KindGyro, func(s imu.Sample) {
		select {
		case gyroCh <- s:
		default:
		}
	})
	defer feed.Remove(gh)

	select {
	case s := <-accelCh:
		if s.T.IsZero() {
			t.Error("accel sample not timestamped")
		}
		if s.X != 1 {
			t.Errorf("accel X = %v, want 1", s.X)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no accelerometer sample within 2s")
	}

	select {
	case s := <-gyroCh:
		if s.T.IsZero() {
			t.Error("gyro sample not timestamped")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no gyroscope sample within 2s")
	}
}

func TestSimFeedCloseStopsDelivery(t *testing.T) {
	feed := NewSimFeed(motion.Profile{IntervalMS: 5, Segments: []motion.Segment{{DurationS: 1}}})

	if err := feed.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	// Closing again is harmless.
	if err := feed.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}

func TestSimFeedSetUpdateInterval(t *testing.T) {
	feed := NewSimFeed(motion.Profile{IntervalMS: 50, Segments: []motion.Segment{{DurationS: 1}}})
	defer feed.Close()

	if err := feed.SetUpdateInterval(5 * time.Millisecond); err != nil {
		t.Fatalf("SetUpdateInterval() error: %v", err)
	}
}

func TestSimFeedRejectsNonPositiveInterval(t *testing.T) {
	feed := NewSimFeed(motion.Profile{IntervalMS: 50, Segments: []motion.Segment{{DurationS: 1}}})
	defer feed.Close()

	if err := feed.SetUpdateInterval(0); err == nil {
		t.Error("SetUpdateInterval(0) succeeded, want error")
	}
	if err := feed.SetUpdateInterval(-time.Millisecond); err == nil {
		t.Error("SetUpdateInterval(-1ms) succeeded, want error")
	}
}
