package sensorfeed

import (
	"testing"

	"github.com/relabs-tech/inertial_tracker/internal/imu"
)

func TestDispatcherRoutesByKind(t *testing.T) {
	d := newDispatcher()

	var accels, gyros []imu.Sample
	d.add(KindAccel, func(s imu.Sample) { accels = append(accels, s) })
	d.add(KindGyro, func(s imu.Sample) { gyros = append(gyros, s) })

	d.dispatch(KindAccel, imu.Sample{X: 1})
	d.dispatch(KindGyro, imu.Sample{Z: 2})
	d.dispatch(KindAccel, imu.Sample{X: 3})

	if len(accels) != 2 || len(gyros) != 1 {
		t.Fatalf("got %d accel / %d gyro deliveries, want 2 / 1", len(accels), len(gyros))
	}
	if accels[0].X != 1 || accels[1].X != 3 {
		t.Errorf("accel deliveries out of order: %+v", accels)
	}
	if gyros[0].Z != 2 {
		t.Errorf("gyro delivery = %+v, want Z=2", gyros[0])
	}
}

func TestDispatcherRemove(t *testing.T) {
	d := newDispatcher()

	count := 0
	h := d.add(KindAccel, func(imu.Sample) { count++ })
	d.dispatch(KindAccel, imu.Sample{})
	d.remove(h)
	d.dispatch(KindAccel, imu.Sample{})

	if count != 1 {
		t.Errorf("listener fired %d times, want 1", count)
	}

	// Removing twice is harmless.
	d.remove(h)
}

func TestDispatcherMultipleListeners(t *testing.T) {
	d := newDispatcher()

	a, b := 0, 0
	d.add(KindGyro, func(imu.Sample) { a++ })
	d.add(KindGyro, func(imu.Sample) { b++ })
	d.dispatch(KindGyro, imu.Sample{})

	if a != 1 || b != 1 {
		t.Errorf("deliveries = (%d, %d), want (1, 1)", a, b)
	}
}

func TestKindString(t *testing.T) {
	if KindAccel.String() != "accel" || KindGyro.String() != "gyro" {
		t.Errorf("Kind strings = %q, %q", KindAccel, KindGyro)
	}
}
