package task

// Progress pacing
const (
	// defaultProgressPerSec bounds task.progress emission when the host
	// does not configure a rate. Keep this low; event handlers are for
	// UI heartbeats, and every emission costs a worker slot on the bus.
	defaultProgressPerSec = 4
)
