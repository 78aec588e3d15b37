package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/capforge/capsolve/capsolve/solver"
	"github.com/capforge/capsolve/pkg/logtrace"
)

var (
	solveProfile     string
	solveCount       int
	solveSaltLength  int
	solveDifficulty  int
	solveWorkers     int
	solveMaxAttempts uint64
	solveOutput      string
	solveCompact     bool
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve <token>",
	Short: "Solve the challenge batch for a token",
	Long: `Solve expands a token into its deterministic challenge batch, searches
for the minimal accepted nonce of every challenge concurrently, and prints
the redeem payload. The batch shape comes from the selected profile unless
overridden by flags.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]

		// Create context with correlation ID for tracing
		ctx := logtrace.CtxWithCorrelationID(context.Background(), "capsolve-solve")
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Cancel the batch on termination signals
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			logtrace.Warn(ctx, "Received signal, cancelling batch", logtrace.Fields{
				"signal": sig.String(),
			})
			cancel()
		}()

		// Resolve the effective profile and tuning before services are built
		profile, err := resolveProfile(ctx, appConfig, solveProfile)
		if err != nil {
			return fmt.Errorf("failed to resolve challenge profile: %w", err)
		}

		effective := *appConfig
		if profile.Workers > 0 {
			effective.Solver.Workers = profile.Workers
		}
		if profile.MaxAttempts > 0 {
			effective.Solver.MaxAttempts = profile.MaxAttempts
		}
		if cmd.Flags().Changed("workers") {
			effective.Solver.Workers = solveWorkers
		}
		if cmd.Flags().Changed("max-attempts") {
			effective.Solver.MaxAttempts = solveMaxAttempts
		}

		params := profile.Params
		if cmd.Flags().Changed("count") {
			params.Count = solveCount
		}
		if cmd.Flags().Changed("salt-length") {
			params.SaltLength = solveSaltLength
		}
		if cmd.Flags().Changed("difficulty") {
			params.Difficulty = solveDifficulty
		}

		app, err := NewCapsolve(ctx, &effective)
		if err != nil {
			logtrace.Error(ctx, "Failed to initialize capsolve", logtrace.Fields{
				"error": err.Error(),
			})
			return err
		}
		defer app.Close(ctx)

		logtrace.Info(ctx, "Solving challenge batch", logtrace.Fields{
			"profile":     profile.Name,
			"count":       params.Count,
			"salt_length": params.SaltLength,
			"difficulty":  params.Difficulty,
		})

		result, err := app.solveService.Solve(ctx, &solver.SolveRequest{
			Token:  token,
			Params: params,
		})
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}

		var out []byte
		if solveCompact {
			out = []byte(result.CompactLines())
		} else {
			out, err = result.RedeemPayload()
			if err != nil {
				return fmt.Errorf("failed to serialize redeem payload: %w", err)
			}
		}

		if solveOutput != "" {
			if err := os.WriteFile(solveOutput, append(out, '\n'), 0600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Printf("Redeem payload written to %s\n", solveOutput)
			return nil
		}

		fmt.Println(string(out))
		return nil
	},
}

func init() {
	solveCmd.Flags().StringVar(&solveProfile, "profile", "", "challenge profile to use (default from config)")
	solveCmd.Flags().IntVar(&solveCount, "count", 0, "override challenge count")
	solveCmd.Flags().IntVar(&solveSaltLength, "salt-length", 0, "override salt length")
	solveCmd.Flags().IntVar(&solveDifficulty, "difficulty", 0, "override difficulty")
	solveCmd.Flags().IntVar(&solveWorkers, "workers", 0, "override worker count (0 = one per core)")
	solveCmd.Flags().Uint64Var(&solveMaxAttempts, "max-attempts", 0, "override per-challenge attempt ceiling")
	solveCmd.Flags().StringVarP(&solveOutput, "output", "o", "", "write the result to a file instead of stdout")
	solveCmd.Flags().BoolVar(&solveCompact, "compact", false, "print index:nonce:digest lines instead of the JSON payload")
	rootCmd.AddCommand(solveCmd)
}
