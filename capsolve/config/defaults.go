package config

// Centralized default values for configuration

const (
	DefaultClientID    = "capsolve"
	DefaultEnvironment = "dev"
	DefaultLogLevel    = "info"

	DefaultProfile     = "standard"
	DefaultMaxAttempts = 10_000_000

	DefaultHistoryDir       = "data/history"
	DefaultReplayTTLSeconds = 600
	DefaultVerifierCacheMB  = 16
)
