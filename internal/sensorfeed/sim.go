// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package sensorfeed

import (
	"fmt"
	"sync"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// SimFeed synthesizes paired accelerometer/gyroscope samples from a
// motion profile on a fixed ticker, tagging them with the wall clock.
type SimFeed struct {
	d *dispatcher

	mu       sync.Mutex
	synth    *motion.Synth
	interval time.Duration
	ticker   *time.Ticker

	done      chan struct{}
	closeOnce sync.Once
}

// NewSimFeed starts a simulated feed driven by the given profile. The
// profile's interval is used until SetUpdateInterval overrides it.
func NewSimFeed(p motion.Profile) *SimFeed {
	interval := time.Duration(p.IntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	f := &SimFeed{
		d:        newDispatcher(),
		synth:    motion.NewSynth(p),
		interval: interval,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *SimFeed) run() {
	for {
		select {
		case <-f.done:
			return
		case now := <-f.ticker.C:
			f.mu.Lock()
			accel, gyro := f.synth.Next(f.interval.Seconds())
			f.mu.Unlock()
			accel.T = now
			gyro.T = now
			f.d.dispatch(KindAccel, accel)
			f.d.dispatch(KindGyro, gyro)
		}
	}
}

// SetUpdateInterval changes the sampling period. The period must be
// positive; time.Ticker.Reset panics otherwise.
func (f *SimFeed) SetUpdateInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("non-positive update interval %v", d)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interval = d
	f.ticker.Reset(d)
	return nil
}

// AddListener attaches a listener for one sensor kind.
func (f *SimFeed) AddListener(k Kind, fn Listener) Handle {
	return f.d.add(k, fn)
}

// Remove detaches a listener.
func (f *SimFeed) Remove(h Handle) {
	f.d.remove(h)
}

// Close stops the ticker and the delivery goroutine.
func (f *SimFeed) Close() error {
	f.closeOnce.Do(func() {
		close(f.done)
		f.ticker.Stop()
	})
	return nil
}
