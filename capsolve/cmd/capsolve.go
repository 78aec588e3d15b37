package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/capforge/capsolve/capsolve/config"
	"github.com/capforge/capsolve/capsolve/history"
	"github.com/capforge/capsolve/capsolve/solver"
	"github.com/capforge/capsolve/capsolve/status"
	"github.com/capforge/capsolve/capsolve/verifier"
	"github.com/capforge/capsolve/pkg/logtrace"
	"github.com/capforge/capsolve/pkg/profiles"
	"github.com/capforge/capsolve/pkg/task"
)

// Capsolve bundles the services behind the command surface
type Capsolve struct {
	config       *config.Config
	profiles     *profiles.ProfileConfig
	tracker      task.Tracker
	store        *history.Store
	solveService *solver.SolveService
	verifier     verifier.RedeemVerifierService
	status       *status.StatusService
}

// NewCapsolve creates a new capsolve instance
func NewCapsolve(ctx context.Context, config *config.Config) (*Capsolve, error) {
	if config == nil {
		return nil, fmt.Errorf("config is nil")
	}

	// Initialize challenge profiles
	profileConfig, err := initProfiles(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize challenge profiles: %w", err)
	}

	// Initialize history store for batch persistence
	store, err := initHistoryStore(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history store: %w", err)
	}

	tracker := task.New()

	var recorder solver.Recorder
	var reader status.HistoryReader
	if store != nil {
		recorder = store
		reader = store
	}

	solveService := solver.NewSolveService(solver.Config{
		Workers:     config.Solver.Workers,
		MaxAttempts: config.Solver.MaxAttempts,
	}, tracker, recorder)

	var storagePaths []string
	if config.History.Enabled {
		storagePaths = []string{config.History.DataDir}
	}

	// Create the capsolve instance
	capsolve := &Capsolve{
		config:       config,
		profiles:     profileConfig,
		tracker:      tracker,
		store:        store,
		solveService: solveService,
		verifier:     initVerifier(ctx, config),
		status:       status.NewStatusService(storagePaths, tracker, reader),
	}

	return capsolve, nil
}

// Close releases held resources
func (c *Capsolve) Close(ctx context.Context) error {
	// Close the history store
	if c.store != nil {
		logtrace.Info(ctx, "Closing history store", logtrace.Fields{})
		if err := c.store.Close(); err != nil {
			logtrace.Error(ctx, "Error closing history store", logtrace.Fields{
				"error": err.Error(),
			})
		}
	}

	return nil
}

// resolveProfile loads the configured profile file and picks the
// effective challenge profile: the named one when given, the
// configured default otherwise.
func resolveProfile(ctx context.Context, config *config.Config, name string) (profiles.Profile, error) {
	profileConfig, err := initProfiles(ctx, config)
	if err != nil {
		return profiles.Profile{}, fmt.Errorf("failed to initialize challenge profiles: %w", err)
	}
	if name == "" {
		name = config.Solver.Profile
	}
	return profileConfig.Resolve(name)
}

// initProfiles loads the challenge profile file named in the
// configuration, falling back to the built-in presets
func initProfiles(ctx context.Context, config *config.Config) (*profiles.ProfileConfig, error) {
	if config == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if config.Solver.ProfileFile == "" {
		logtrace.Info(ctx, "Using built-in challenge profiles", logtrace.Fields{})
		return profiles.DefaultConfig(), nil
	}

	logtrace.Info(ctx, "Loading challenge profiles", logtrace.Fields{
		"file_path": config.Solver.ProfileFile,
	})

	return profiles.LoadConfig(config.Solver.ProfileFile)
}

// initHistoryStore initializes the SQLite batch history store
func initHistoryStore(ctx context.Context, config *config.Config) (*history.Store, error) {
	if config == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if !config.History.Enabled {
		logtrace.Info(ctx, "Solve history disabled", logtrace.Fields{})
		return nil, nil
	}

	// Set default directory if not provided
	dataDir := "data/history"
	if config.History.DataDir != "" {
		dataDir = config.History.DataDir
	}

	// Create the history directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history data directory: %w", err)
	}

	// Create the SQLite file path
	dbFile := filepath.Join(dataDir, history.SQLiteFilename)

	logtrace.Info(ctx, "Initializing history store", logtrace.Fields{
		"file_path": dbFile,
	})

	// Initialize history store with SQLite
	return history.NewStore(dbFile)
}

// initVerifier initializes the redeem verifier based on configuration
func initVerifier(ctx context.Context, config *config.Config) verifier.RedeemVerifierService {
	// Set default values if not provided
	replayTTL := 600
	if config.Verifier.ReplayTTL > 0 {
		replayTTL = config.Verifier.ReplayTTL
	}

	cacheMB := 16
	if config.Verifier.CacheMB > 0 {
		cacheMB = config.Verifier.CacheMB
	}

	logtrace.Info(ctx, "Initializing redeem verifier", logtrace.Fields{
		"replay_ttl_seconds": replayTTL,
		"cache_mb":           cacheMB,
	})

	return verifier.NewRedeemVerifier(time.Duration(replayTTL)*time.Second, int64(cacheMB)<<20)
}
