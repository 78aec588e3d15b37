package solver

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultMaxAttempts bounds the nonce search per challenge when the
// caller does not set a ceiling. Hitting it means the difficulty is
// far beyond what the batch shape suggests, and the batch is aborted
// as faulty rather than spinning forever.
const DefaultMaxAttempts uint64 = 10_000_000

// Config carries solver tuning. The zero value is usable: workers
// default to hardware parallelism and the attempt ceiling to
// DefaultMaxAttempts.
type Config struct {
	// Workers is the number of challenges solved concurrently.
	Workers int
	// MaxAttempts is the per-challenge nonce ceiling.
	MaxAttempts uint64
}

// normalized returns a copy with defaults filled in.
func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers()
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}

func defaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
