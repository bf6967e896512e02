package reckon

// KinematicIntegrator advances world-frame velocity and position from
// rotated acceleration. A fixed per-step damping factor on the velocity
// keeps integration error from compounding without bound; it is not a
// physical model.
type KinematicIntegrator struct {
	damping float64
	vx, vy  float64
	x, y    float64
}

// NewKinematicIntegrator returns an integrator at rest at the origin.
func NewKinematicIntegrator(damping float64) *KinematicIntegrator {
	return &KinematicIntegrator{damping: damping}
}

// Step integrates one accelerometer sample over dt seconds and returns
// the new position. Damping is applied to the velocity on every step
// regardless of dt. Velocity is intentionally unclamped: sustained bias
// produces drift, not an error.
func (k *KinematicIntegrator) Step(axWorld, ayWorld, dt float64) (float64, float64) {
	k.vx = (k.vx + axWorld*dt) * k.damping
	k.vy = (k.vy + ayWorld*dt) * k.damping
	k.x += k.vx * dt
	k.y += k.vy * dt
	return k.x, k.y
}

// Velocity returns the current world-frame velocity.
func (k *KinematicIntegrator) Velocity() (float64, float64) {
	return k.vx, k.vy
}

// Position returns the current world-frame position.
func (k *KinematicIntegrator) Position() (float64, float64) {
	return k.x, k.y
}

// Reset returns velocity and position to zero.
func (k *KinematicIntegrator) Reset() {
	k.vx, k.vy, k.x, k.y = 0, 0, 0, 0
}
