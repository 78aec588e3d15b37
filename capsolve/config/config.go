package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/capforge/capsolve/pkg/logtrace"
)

// Config represents the YAML configuration structure
type Config struct {
	ClientID    string `yaml:"client_id"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	Solver struct {
		// Workers caps solving concurrency; 0 means hardware
		// parallelism.
		Workers int `yaml:"workers"`
		// MaxAttempts bounds the nonce search per challenge before the
		// batch is declared faulty.
		MaxAttempts uint64 `yaml:"max_attempts"`
		Profile     string `yaml:"profile"`
		ProfileFile string `yaml:"profile_file"`
	} `yaml:"solver"`

	History struct {
		Enabled bool   `yaml:"enabled"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"history"`

	Verifier struct {
		ReplayTTL int `yaml:"replay_ttl"`
		CacheMB   int `yaml:"cache_mb"`
	} `yaml:"verifier"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(filename string) (*Config, error) {
	ctx := context.Background()

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("error getting absolute path for config file: %w", err)
	}

	logtrace.Info(ctx, "Loading configuration", logtrace.Fields{
		"path": absPath,
	})

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s does not exist", absPath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	applyDefaults(ctx, &config)

	// Create history directory if it doesn't exist
	if config.History.Enabled {
		if err := os.MkdirAll(config.History.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create history data directory: %w", err)
		}
	}

	logtrace.Info(ctx, "Configuration loaded successfully", logtrace.Fields{})
	return &config, nil
}

// applyDefaults fills in defaults for unset fields, logging each one
// so operators can see what the effective configuration is.
func applyDefaults(ctx context.Context, config *Config) {
	if config.ClientID == "" {
		config.ClientID = DefaultClientID
		logtrace.Info(ctx, "Using default client ID", logtrace.Fields{
			"client_id": config.ClientID,
		})
	}

	if config.Environment == "" {
		config.Environment = DefaultEnvironment
		logtrace.Info(ctx, "Using default environment", logtrace.Fields{
			"environment": config.Environment,
		})
	}

	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
		logtrace.Info(ctx, "Using default log level", logtrace.Fields{
			"log_level": config.LogLevel,
		})
	}

	if config.Solver.MaxAttempts == 0 {
		config.Solver.MaxAttempts = DefaultMaxAttempts
		logtrace.Info(ctx, "Using default max attempts per challenge", logtrace.Fields{
			"max_attempts": config.Solver.MaxAttempts,
		})
	}

	if config.Solver.Profile == "" {
		config.Solver.Profile = DefaultProfile
		logtrace.Info(ctx, "Using default challenge profile", logtrace.Fields{
			"profile": config.Solver.Profile,
		})
	}

	if config.History.DataDir == "" {
		config.History.DataDir = DefaultHistoryDir
		logtrace.Info(ctx, "Using default history data directory", logtrace.Fields{
			"dir": config.History.DataDir,
		})
	}

	if config.Verifier.ReplayTTL <= 0 {
		config.Verifier.ReplayTTL = DefaultReplayTTLSeconds
		logtrace.Info(ctx, "Using default verifier replay TTL", logtrace.Fields{
			"replay_ttl": config.Verifier.ReplayTTL,
		})
	}

	if config.Verifier.CacheMB <= 0 {
		config.Verifier.CacheMB = DefaultVerifierCacheMB
		logtrace.Info(ctx, "Using default verifier cache size", logtrace.Fields{
			"cache_mb": config.Verifier.CacheMB,
		})
	}
}

// CreateDefaultConfig builds a fresh configuration for init flows.
func CreateDefaultConfig(clientID, environment, profile string) *Config {
	config := &Config{}
	config.ClientID = clientID
	config.Environment = environment
	config.Solver.Profile = profile
	config.History.Enabled = true
	applyDefaults(context.Background(), config)
	return config
}

// SaveConfig writes the configuration to a file as YAML.
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
