package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"github.com/spf13/cobra"

	"github.com/capforge/capsolve/capsolve/config"
	"github.com/capforge/capsolve/pkg/profiles"
)

var (
	forceInit bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new capsolve installation",
	Long: `Initialize a new capsolve installation by creating a configuration file
and the default challenge profiles.

This command will guide you through an interactive setup process to:
1. Create a config.yml file at ~/.capsolve
2. Pick a client identifier and environment
3. Select the default challenge profile
4. Configure solver concurrency and solve history

Example:
  capsolve init
  capsolve init --force  # Override existing installation`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup base directory
		if err := setupBaseDirectory(); err != nil {
			return err
		}

		// Get user inputs through interactive prompts
		clientID, environment, profileName, workers, enableHistory, err := gatherUserInputs()
		if err != nil {
			return err
		}

		// Create and setup configuration
		if err := createAndSetupConfig(clientID, environment, profileName, workers, enableHistory); err != nil {
			return err
		}

		// Write the default challenge profiles
		if err := writeProfilesFile(); err != nil {
			return err
		}

		// Save config
		if err := saveConfig(); err != nil {
			return err
		}

		// Print success message
		printSuccessMessage()
		return nil
	},
}

// setupBaseDirectory handles base directory creation and validation
func setupBaseDirectory() error {
	if err := resolveBaseDir(); err != nil {
		return err
	}

	// Check if base directory already exists
	if _, err := os.Stat(baseDir); err == nil && !forceInit {
		return fmt.Errorf("capsolve directory already exists at %s\nUse --force to overwrite or remove the directory manually", baseDir)
	}

	// If force flag is used, clean up config and profile files. The
	// history database is kept; recorded batches survive a re-init.
	if forceInit {
		for _, name := range []string{DefaultConfigFile, DefaultProfilesFile} {
			path := filepath.Join(baseDir, name)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove existing %s: %w", name, err)
			}
		}
		fmt.Println("Cleaned up existing configuration files")
	}

	// Create base directory if it doesn't exist
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}

	fmt.Printf("BaseDirectory: %s\n", baseDir)
	return nil
}

// gatherUserInputs collects all user inputs through interactive prompts
func gatherUserInputs() (clientID, environment, profileName string, workers int, enableHistory bool, err error) {
	clientID, err = promptClientID()
	if err != nil {
		return "", "", "", 0, false, fmt.Errorf("failed to read client identifier: %w", err)
	}

	environment, err = promptEnvironment()
	if err != nil {
		return "", "", "", 0, false, fmt.Errorf("failed to select environment: %w", err)
	}

	profileName, err = promptProfile()
	if err != nil {
		return "", "", "", 0, false, fmt.Errorf("failed to select challenge profile: %w", err)
	}

	workers, err = promptWorkers()
	if err != nil {
		return "", "", "", 0, false, fmt.Errorf("failed to configure solver concurrency: %w", err)
	}

	enableHistory, err = promptHistory()
	if err != nil {
		return "", "", "", 0, false, fmt.Errorf("failed to configure solve history: %w", err)
	}

	return clientID, environment, profileName, workers, enableHistory, nil
}

// createAndSetupConfig creates the default configuration and necessary directories
func createAndSetupConfig(clientID, environment, profileName string, workers int, enableHistory bool) error {
	cfgPath := filepath.Join(baseDir, DefaultConfigFile)

	fmt.Printf("Using config file: %s\n", cfgPath)

	// Create default configuration
	appConfig = config.CreateDefaultConfig(clientID, environment, profileName)
	appConfig.Solver.Workers = workers
	appConfig.Solver.ProfileFile = filepath.Join(baseDir, DefaultProfilesFile)
	appConfig.History.Enabled = enableHistory
	appConfig.History.DataDir = filepath.Join(baseDir, "data", "history")

	// Create the history directory
	if enableHistory {
		if err := os.MkdirAll(appConfig.History.DataDir, 0700); err != nil {
			return fmt.Errorf("failed to create history data directory: %w", err)
		}
	}

	return nil
}

// writeProfilesFile writes the built-in challenge profiles so operators
// have a file to edit
func writeProfilesFile() error {
	profilesPath := filepath.Join(baseDir, DefaultProfilesFile)

	data, err := yaml.Marshal(profiles.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to serialize challenge profiles: %w", err)
	}
	if err := os.WriteFile(profilesPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write challenge profiles: %w", err)
	}

	fmt.Printf("Challenge profiles written to %s\n", profilesPath)
	return nil
}

// saveConfig persists the assembled configuration
func saveConfig() error {
	cfgPath := filepath.Join(baseDir, DefaultConfigFile)
	if err := config.SaveConfig(appConfig, cfgPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", cfgPath)
	return nil
}

// printSuccessMessage displays the final success message
func printSuccessMessage() {
	fmt.Println("\nYour capsolve installation has been initialized successfully!")
	fmt.Println("You can now solve a challenge token with:")
	fmt.Println("  capsolve solve <token>")
}

// Interactive prompt functions
func promptClientID() (string, error) {
	var clientID string
	prompt := &survey.Input{
		Message: "Enter client identifier:",
		Default: config.DefaultClientID,
		Help:    "Stamped on every structured log line as the service name",
	}
	return clientID, survey.AskOne(prompt, &clientID, survey.WithValidator(survey.Required))
}

func promptEnvironment() (string, error) {
	var environment string
	prompt := &survey.Select{
		Message: "Choose environment:",
		Options: []string{"dev", "staging", "prod"},
		Default: config.DefaultEnvironment,
		Help:    "Environment label stamped on every structured log line",
	}
	return environment, survey.AskOne(prompt, &environment)
}

func promptProfile() (string, error) {
	var profileName string
	prompt := &survey.Select{
		Message: "Choose default challenge profile:",
		Options: profiles.DefaultConfig().Names(),
		Default: profiles.DefaultProfileName,
		Help:    "Profiles bundle challenge count, salt length, and difficulty",
	}
	return profileName, survey.AskOne(prompt, &profileName)
}

func promptWorkers() (int, error) {
	var workersStr string
	prompt := &survey.Input{
		Message: "Enter solver worker count:",
		Default: "0",
		Help:    "0 uses one worker per CPU core",
	}
	if err := survey.AskOne(prompt, &workersStr); err != nil {
		return 0, err
	}

	workers, err := strconv.Atoi(workersStr)
	if err != nil || workers < 0 {
		return 0, fmt.Errorf("invalid worker count: %s", workersStr)
	}

	return workers, nil
}

func promptHistory() (bool, error) {
	enable := true
	prompt := &survey.Confirm{
		Message: "Record solved batches to a local history database?",
		Default: true,
	}
	return enable, survey.AskOne(prompt, &enable)
}

func init() {
	rootCmd.AddCommand(initCmd)

	// Add flags
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Force initialization, overwriting existing directory")
}
