package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/capforge/capsolve/capsolve/verifier"
	"github.com/capforge/capsolve/pkg/logtrace"
)

var (
	verifyProfile    string
	verifyCount      int
	verifySaltLength int
	verifyDifficulty int
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [payload-file]",
	Short: "Verify a redeem payload",
	Long: `Verify checks a redeem payload against the batch shape it claims to
answer: the payload is decoded, the challenge batch is re-derived from the
token, and every nonce is recomputed. Reads from stdin when no file is
given. Exits non-zero when the payload is rejected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create context with correlation ID for tracing
		ctx := logtrace.CtxWithCorrelationID(context.Background(), "capsolve-verify")

		raw, err := readPayload(args)
		if err != nil {
			return err
		}

		// Resolve the batch shape the payload claims to answer
		profile, err := resolveProfile(ctx, appConfig, verifyProfile)
		if err != nil {
			return fmt.Errorf("failed to resolve challenge profile: %w", err)
		}

		params := profile.Params
		if cmd.Flags().Changed("count") {
			params.Count = verifyCount
		}
		if cmd.Flags().Changed("salt-length") {
			params.SaltLength = verifySaltLength
		}
		if cmd.Flags().Changed("difficulty") {
			params.Difficulty = verifyDifficulty
		}

		result, err := initVerifier(ctx, appConfig).VerifyRedeem(ctx, raw, params)
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}

		printVerification(result)

		if !result.IsValid() {
			os.Exit(1)
		}
		return nil
	},
}

// readPayload reads the redeem payload from the named file, or from
// stdin when no file (or "-") is given.
func readPayload(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		return raw, nil
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload from stdin: %w", err)
	}
	return raw, nil
}

func printVerification(result *verifier.VerificationResult) {
	fmt.Printf("Redeem Verification:\n")
	fmt.Printf("  Verdict: %s\n", result.Summary())
	fmt.Printf("  Token: %s\n", result.Token)

	if len(result.Digests) > 0 {
		fmt.Printf("  Digests:\n")
		for i, digest := range result.Digests {
			fmt.Printf("    %d: %s\n", i, digest)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("  Errors:\n")
		for _, e := range result.Errors {
			fmt.Printf("    %s: %s\n", e.Field, e.Message)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("  Warnings:\n")
		for _, w := range result.Warnings {
			fmt.Printf("    %s: %s\n", w.Field, w.Message)
		}
	}
}

func init() {
	verifyCmd.Flags().StringVar(&verifyProfile, "profile", "", "challenge profile the payload answers (default from config)")
	verifyCmd.Flags().IntVar(&verifyCount, "count", 0, "override challenge count")
	verifyCmd.Flags().IntVar(&verifySaltLength, "salt-length", 0, "override salt length")
	verifyCmd.Flags().IntVar(&verifyDifficulty, "difficulty", 0, "override difficulty")
	rootCmd.AddCommand(verifyCmd)
}
