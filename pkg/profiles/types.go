// Package profiles resolves named challenge presets. A profile bundles
// the batch shape (challenge count, salt length, difficulty) with
// optional solver overrides so callers select "standard" or "light"
// instead of repeating raw numbers.
package profiles

import (
	"github.com/capforge/capsolve/pkg/capkit"
)

// Profile is a resolved preset ready to hand to the solve service.
type Profile struct {
	Name   string
	Params capkit.ParamSpec

	// Workers caps solving concurrency for this profile; 0 defers to
	// the solver default (hardware parallelism).
	Workers int
	// MaxAttempts bounds the nonce search per challenge; 0 defers to
	// the solver default.
	MaxAttempts uint64
}

// ProfileConfig is the YAML document shape for a profile file.
type ProfileConfig struct {
	// DefaultProfile names the profile used when callers do not pick
	// one explicitly.
	DefaultProfile string                 `yaml:"default_profile" mapstructure:"default_profile"`
	Profiles       map[string]ProfileSpec `yaml:"profiles" mapstructure:"profiles"`
}

// ProfileSpec is one profile entry in a profile file.
type ProfileSpec struct {
	Count       int    `yaml:"count" mapstructure:"count"`
	SaltLength  int    `yaml:"salt_length" mapstructure:"salt_length"`
	Difficulty  int    `yaml:"difficulty" mapstructure:"difficulty"`
	Workers     int    `yaml:"workers,omitempty" mapstructure:"workers"`
	MaxAttempts uint64 `yaml:"max_attempts,omitempty" mapstructure:"max_attempts"`
}
