package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/capforge/capsolve/pkg/profiles"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage and query challenge profiles",
	Long:  `Commands for inspecting the named challenge presets a solve can select.`,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display available challenge profiles",
	Long:  `Display the challenge profiles from the configured profile file, including batch shape and solver overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Try to load profiles from the configured file
		profilePath := appConfig.Solver.ProfileFile
		if profilePath == "" {
			profilePath = filepath.Join(baseDir, DefaultProfilesFile)
		}

		profileConfig, err := profiles.LoadConfig(profilePath)
		if err != nil {
			// Fall back to built-in profiles
			profileConfig = profiles.DefaultConfig()
			fmt.Printf("Note: Using built-in profiles (file not found at %s)\n\n", profilePath)
		}

		// Display profiles
		fmt.Printf("Challenge Profiles:\n")
		fmt.Printf("  Default: %s\n", profileConfig.DefaultProfile)

		for _, name := range profileConfig.Names() {
			profile, err := profileConfig.Resolve(name)
			if err != nil {
				continue
			}
			fmt.Printf("  %s:\n", name)
			fmt.Printf("    Count: %d\n", profile.Params.Count)
			fmt.Printf("    Salt Length: %d\n", profile.Params.SaltLength)
			fmt.Printf("    Difficulty: %d\n", profile.Params.Difficulty)
			if profile.Workers > 0 {
				fmt.Printf("    Workers: %d\n", profile.Workers)
			}
			if profile.MaxAttempts > 0 {
				fmt.Printf("    Max Attempts: %d\n", profile.MaxAttempts)
			}
		}

		return nil
	},
}

func init() {
	profilesCmd.AddCommand(profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}
