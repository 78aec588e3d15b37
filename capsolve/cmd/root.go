package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capforge/capsolve/capsolve/config"
	"github.com/capforge/capsolve/pkg/logtrace"
)

const (
	DefaultBaseDir      = ".capsolve"
	DefaultConfigFile   = "config.yml"
	DefaultProfilesFile = "profiles.yaml"
)

var (
	cfgFile   string
	baseDir   string
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "capsolve",
	Short: "Proof-of-work solver and verifier for Cap-style challenge tokens",
	Long: `capsolve expands opaque challenge tokens into their deterministic
challenge batches, brute-forces the minimal accepted nonces concurrently,
and emits the redeem payloads a verifier accepts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "init", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return nil
		}
		return loadAppConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default <basedir>/"+DefaultConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&baseDir, "basedir", "", "base directory (default ~/"+DefaultBaseDir+")")
}

// loadAppConfig resolves the effective configuration: an explicit or
// discovered config file when present, built-in defaults otherwise.
func loadAppConfig() error {
	if err := resolveBaseDir(); err != nil {
		return err
	}

	path := cfgFile
	if path == "" {
		path = filepath.Join(baseDir, DefaultConfigFile)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) && cfgFile == "" {
		// No installation yet; ad hoc runs work with defaults and
		// leave no state behind.
		appConfig = config.CreateDefaultConfig(config.DefaultClientID, config.DefaultEnvironment, config.DefaultProfile)
		appConfig.History.Enabled = false
	} else {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("failed to load configuration file %s: %w", path, err)
		}
		appConfig = cfg
	}

	logtrace.Setup(appConfig.ClientID, appConfig.Environment, logLevelFromConfig(appConfig.LogLevel))
	return nil
}

func resolveBaseDir() error {
	if baseDir != "" {
		return nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	baseDir = filepath.Join(homeDir, DefaultBaseDir)
	return nil
}

func logLevelFromConfig(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
