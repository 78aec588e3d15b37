// Package config holds the host-supplied settings for the solve SDK.
package config

// Config is passed by the embedding application when constructing a
// client. Zero values fall back to solver defaults.
type Config struct {
	Solver SolverConfig
	Events EventsConfig
}

// SolverConfig tunes the proof-of-work engine.
type SolverConfig struct {
	// Workers is the number of challenges brute-forced concurrently.
	// Zero means one worker per CPU core.
	Workers int

	// MaxAttempts caps the nonces tried per challenge before the batch
	// is declared stuck. Zero selects the solver default.
	MaxAttempts uint64
}

// EventsConfig tunes event delivery.
type EventsConfig struct {
	// MaxWorkers bounds concurrent event handler goroutines.
	MaxWorkers int

	// ProgressPerSec paces task.progress emission. Zero selects the
	// manager default; handlers never see the raw per-attempt rate.
	ProgressPerSec int
}
