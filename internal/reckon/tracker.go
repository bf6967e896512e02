// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package reckon implements the 2D inertial dead-reckoning estimator:
// gyroscope yaw integration, frame rotation, damped kinematic
// integration, and trajectory sampling, gated by an Idle/Tracking
// session state machine.
package reckon

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relabs-tech/inertial_tracker/internal/imu"
)

// State is the tracking session state.
type State string

const (
	StateIdle     State = "idle"
	StateTracking State = "tracking"
)

// Tracker owns the full estimation session. Sensor callbacks and
// operator commands arrive on arbitrary goroutines (MQTT delivery,
// HTTP handlers), so every mutation runs under one mutex; a command
// never interleaves with a partially applied integration step.
type Tracker struct {
	mu  sync.Mutex
	cfg Config

	state     State
	sessionID string

	calib  CalibrationStore
	orient OrientationTracker
	kin    *KinematicIntegrator
	path   *PathSampler

	// lastAccelT is the timestamp of the previous integrated
	// accelerometer sample; haveLastT is false right after a session
	// reset so the first sample only establishes the timeline.
	lastAccelT time.Time
	haveLastT  bool

	// yawRate is the latest gyroscope z reading, read last-write-wins
	// by the accelerometer-triggered step. It may be stale by up to one
	// sampling period; that approximation is intentional.
	yawRate float64

	latestAccel  imu.Sample
	haveRawAccel bool
	latestGyro   imu.Sample
	haveRawGyro  bool

	accepted   uint64
	discarded  uint64
	bootstraps uint64
}

// Snapshot is a consistent copy of the session, safe to hand to
// renderers and publishers while integration continues.
type Snapshot struct {
	SessionID string  `json:"session_id"`
	State     State   `json:"state"`
	Heading   float64 `json:"heading_rad"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Distance  float64 `json:"distance_m"`
	Bias      Bias    `json:"bias"`

	Path []PathPoint `json:"path"`

	LatestAccel *imu.Sample `json:"latest_accel,omitempty"`
	LatestGyro  *imu.Sample `json:"latest_gyro,omitempty"`

	SamplesAccepted  uint64 `json:"samples_accepted"`
	SamplesDiscarded uint64 `json:"samples_discarded"`
	Bootstraps       uint64 `json:"bootstraps"`
}

// NewTracker returns an idle tracker with a fresh session.
func NewTracker(cfg Config) *Tracker {
	t := &Tracker{
		cfg:  cfg,
		kin:  NewKinematicIntegrator(cfg.Damping),
		path: NewPathSampler(cfg.MinPathStep),
	}
	t.resetSessionLocked()
	t.state = StateIdle
	return t
}

// resetSessionLocked clears all integration state and labels the session
// with a fresh id so downstream consumers can detect the reset.
// Latest raw readings and the gyro rate cache survive: they describe the
// sensors, not the session.
func (t *Tracker) resetSessionLocked() {
	t.orient.Reset()
	t.kin.Reset()
	t.path.Reset()
	t.haveLastT = false
	t.lastAccelT = time.Time{}
	t.accepted = 0
	t.discarded = 0
	t.bootstraps = 0
	t.sessionID = uuid.NewString()
}

// Start resets the session and begins integrating incoming samples.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetSessionLocked()
	t.state = StateTracking
}

// Stop halts integration but preserves the trajectory and distance for
// display. The sample timestamp is cleared so the next Start bootstraps
// a fresh timeline.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateIdle
	t.haveLastT = false
	t.lastAccelT = time.Time{}
}

// Reset clears the session and leaves the tracker idle.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetSessionLocked()
	t.state = StateIdle
}

// Calibrate snapshots the most recent raw accelerometer sample as the
// new bias and restarts the session clean under it, tracking forced off.
// Without any sample seen yet the bias is left unchanged.
func (t *Tracker) Calibrate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.haveRawAccel {
		t.calib.Calibrate(t.latestAccel)
	}
	t.resetSessionLocked()
	t.state = StateIdle
}

// OnAccel ingests one accelerometer sample. While idle it only refreshes
// the latest raw reading; while tracking it drives a full integration
// step using the cached gyroscope rate.
func (t *Tracker) OnAccel(s imu.Sample) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.latestAccel = s
	t.haveRawAccel = true

	if t.state != StateTracking {
		return
	}

	if !t.haveLastT {
		// Bootstrap: dt is undefined for the first sample of a session.
		t.lastAccelT = s.T
		t.haveLastT = true
		t.bootstraps++
		return
	}

	dt := s.T.Sub(t.lastAccelT).Seconds()
	t.lastAccelT = s.T
	if dt <= 0 {
		// Out-of-order or duplicate timestamp; display-only update.
		t.discarded++
		return
	}

	ax, ay := t.calib.Correct(s.X, s.Y)
	heading := t.orient.Integrate(t.yawRate, dt)
	axW, ayW := RotateToWorld(ax, ay, heading)
	x, y := t.kin.Step(axW, ayW, dt)
	t.path.Consider(x, y)
	t.accepted++
}

// OnGyro caches the latest gyroscope reading. No integration happens
// here; the next accelerometer sample picks the rate up.
func (t *Tracker) OnGyro(s imu.Sample) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latestGyro = s
	t.haveRawGyro = true
	t.yawRate = s.Z
}

// State returns the current session state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Trajectory returns a copy of the recorded path.
func (t *Tracker) Trajectory() []PathPoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path.Points()
}

// Distance returns the accumulated path length in metres.
func (t *Tracker) Distance() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path.Distance()
}

// CurrentBias returns the calibration bias in effect.
func (t *Tracker) CurrentBias() Bias {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calib.Current()
}

// LatestAccel returns the most recent raw accelerometer sample.
func (t *Tracker) LatestAccel() (imu.Sample, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latestAccel, t.haveRawAccel
}

// LatestGyro returns the most recent raw gyroscope sample.
func (t *Tracker) LatestGyro() (imu.Sample, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latestGyro, t.haveRawGyro
}

// Snapshot copies the whole session under the lock, so readers never
// observe a torn trajectory append.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	vx, vy := t.kin.Velocity()
	x, y := t.kin.Position()
	snap := Snapshot{
		SessionID:        t.sessionID,
		State:            t.state,
		Heading:          t.orient.Heading(),
		VX:               vx,
		VY:               vy,
		X:                x,
		Y:                y,
		Distance:         t.path.Distance(),
		Bias:             t.calib.Current(),
		Path:             t.path.Points(),
		SamplesAccepted:  t.accepted,
		SamplesDiscarded: t.discarded,
		Bootstraps:       t.bootstraps,
	}
	if t.haveRawAccel {
		a := t.latestAccel
		snap.LatestAccel = &a
	}
	if t.haveRawGyro {
		g := t.latestGyro
		snap.LatestGyro = &g
	}
	return snap
}

// SessionID returns the label of the current session.
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}
