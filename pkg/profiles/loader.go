package profiles

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/viper"

	"github.com/capforge/capsolve/pkg/capkit"
)

// DefaultProfileName is used whenever a profile file does not pick its
// own default.
const DefaultProfileName = "standard"

// LoadConfig reads a profile file. A missing file is not an error: the
// built-in defaults are returned so a fresh install works without any
// profile configuration on disk.
func LoadConfig(path string) (*ProfileConfig, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var config ProfileConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile file: %w", err)
	}
	if config.DefaultProfile == "" {
		config.DefaultProfile = DefaultProfileName
	}
	if len(config.Profiles) == 0 {
		config.Profiles = DefaultConfig().Profiles
	}
	return &config, nil
}

// DefaultConfig returns the built-in presets. "standard" mirrors the
// Cap widget defaults; "light" suits interactive demos and tests;
// "strict" trades latency for a harder digest target.
func DefaultConfig() *ProfileConfig {
	return &ProfileConfig{
		DefaultProfile: DefaultProfileName,
		Profiles: map[string]ProfileSpec{
			"standard": {Count: 50, SaltLength: 32, Difficulty: 4},
			"light":    {Count: 3, SaltLength: 8, Difficulty: 2},
			"strict":   {Count: 100, SaltLength: 32, Difficulty: 5},
		},
	}
}

// Resolve looks a profile up by name, falling back to the file's
// default profile when name is empty.
func (c *ProfileConfig) Resolve(name string) (Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	spec, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (have: %v)", name, c.Names())
	}
	return Profile{
		Name: name,
		Params: capkit.ParamSpec{
			Count:      spec.Count,
			SaltLength: spec.SaltLength,
			Difficulty: spec.Difficulty,
		},
		Workers:     spec.Workers,
		MaxAttempts: spec.MaxAttempts,
	}, nil
}

// Names lists the configured profile names in stable order.
func (c *ProfileConfig) Names() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
