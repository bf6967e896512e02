// Package sensorfeed delivers timestamped accelerometer and gyroscope
// samples to attached listeners, from a simulated motion profile, an
// MQTT broker, or a serial NMEA-style IMU.
package sensorfeed

import (
	"sync"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/imu"
)

// Kind identifies which sensor a sample or listener belongs to.
type Kind int

const (
	KindAccel Kind = iota
	KindGyro
)

func (k Kind) String() string {
	switch k {
	case KindAccel:
		return "accel"
	case KindGyro:
		return "gyro"
	}
	return "unknown"
}

// Listener receives samples of one kind. Callbacks run on the feed's
// delivery goroutine and must not block.
type Listener func(imu.Sample)

// Handle identifies an attached listener for removal.
type Handle int

// Feed is a source of sensor samples with a configurable update
// interval. Implementations tag samples with a wall-clock timestamp
// before dispatch when the transport does not carry one.
type Feed interface {
	SetUpdateInterval(d time.Duration) error
	AddListener(k Kind, fn Listener) Handle
	Remove(h Handle)
	Close() error
}

// dispatcher owns the listener registry shared by all feed
// implementations.
type dispatcher struct {
	mu        sync.Mutex
	next      Handle
	kinds     map[Handle]Kind
	listeners map[Kind]map[Handle]Listener
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		kinds:     make(map[Handle]Kind),
		listeners: make(map[Kind]map[Handle]Listener),
	}
}

func (d *dispatcher) add(k Kind, fn Listener) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	h := d.next
	if d.listeners[k] == nil {
		d.listeners[k] = make(map[Handle]Listener)
	}
	d.listeners[k][h] = fn
	d.kinds[h] = k
	return h
}

func (d *dispatcher) remove(h Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k, ok := d.kinds[h]
	if !ok {
		return
	}
	delete(d.kinds, h)
	delete(d.listeners[k], h)
}

func (d *dispatcher) dispatch(k Kind, s imu.Sample) {
	d.mu.Lock()
	fns := make([]Listener, 0, len(d.listeners[k]))
	for _, fn := range d.listeners[k] {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
