package reckon

// Config holds the estimator tuning parameters.
type Config struct {
	// Damping is the per-step velocity multiplier. It is a fixed
	// multiplicative factor applied on every integration step, not a
	// per-second decay rate.
	Damping float64

	// MinPathStep is the minimum distance in metres between recorded
	// trajectory points. Positions closer than this to the last recorded
	// point are discarded as jitter.
	MinPathStep float64
}

// DefaultConfig returns the parameters the shipped binaries run with.
func DefaultConfig() Config {
	return Config{
		Damping:     0.98,
		MinPathStep: 0.005,
	}
}
