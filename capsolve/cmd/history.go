package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/capforge/capsolve/capsolve/history"
	"github.com/capforge/capsolve/pkg/logtrace"
)

var (
	historyStatus string
	historyLimit  int
	historyOlder  time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the solve history",
	Long:  `Commands for inspecting and pruning the recorded solve batches.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded batches",
	Long:  `Display the most recent solve batches, optionally filtered by status.`,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [batch-id]",
	Short: "Display one batch",
	Long:  `Display the full record of one solve batch, including its redeem payload.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old batches",
	Long:  `Delete batches recorded earlier than the retention window.`,
	RunE:  runHistoryPrune,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display batch totals by status",
	RunE:  runHistoryStats,
}

// openHistoryStore opens the configured history store
func openHistoryStore(ctx context.Context) (*history.Store, error) {
	if !appConfig.History.Enabled {
		return nil, fmt.Errorf("solve history is disabled; run 'capsolve init' or enable it in the configuration")
	}
	return initHistoryStore(ctx, appConfig)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	ctx := logtrace.CtxWithCorrelationID(context.Background(), "capsolve-history")

	store, err := openHistoryStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.ListBatches(historyStatus, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}

	if len(rows) == 0 {
		fmt.Println("No batches recorded.")
		fmt.Println("Run 'capsolve solve <token>' to solve one.")
		return nil
	}

	fmt.Println("Recorded solve batches:")
	for _, row := range rows {
		fmt.Printf("  %s  %-9s  %s\n", row.BatchID, row.Status,
			time.Unix(row.CreatedAtUnix, 0).Format("2006-01-02 15:04:05"))
		fmt.Printf("      Token: %s\n", row.Token)
		fmt.Printf("      Shape: count=%d salt=%d difficulty=%d\n",
			row.Params.Count, row.Params.SaltLength, row.Params.Difficulty)
		fmt.Printf("      Attempts: %d in %dms\n", row.Attempts, row.ElapsedMS)
	}

	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	ctx := logtrace.CtxWithCorrelationID(context.Background(), "capsolve-history")

	store, err := openHistoryStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	row, found, err := store.GetBatch(args[0])
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}
	if !found {
		return fmt.Errorf("batch %s not found", args[0])
	}

	fmt.Printf("Batch %s:\n", row.BatchID)
	fmt.Printf("  Status: %s\n", row.Status)
	fmt.Printf("  Token: %s\n", row.Token)
	fmt.Printf("  Task ID: %s\n", row.TaskID)
	fmt.Printf("  Shape: count=%d salt=%d difficulty=%d\n",
		row.Params.Count, row.Params.SaltLength, row.Params.Difficulty)
	fmt.Printf("  Attempts: %d\n", row.Attempts)
	fmt.Printf("  Elapsed: %dms\n", row.ElapsedMS)
	fmt.Printf("  Created: %s\n", time.Unix(row.CreatedAtUnix, 0).Format("2006-01-02 15:04:05"))

	if row.Compact != "" {
		fmt.Printf("  Solutions:\n")
		for _, line := range strings.Split(row.Compact, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}

	if len(row.Payload) > 0 {
		fmt.Printf("  Payload: %s\n", row.Payload)
	}

	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	ctx := logtrace.CtxWithCorrelationID(context.Background(), "capsolve-history")

	store, err := openHistoryStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.Prune(historyOlder)
	if err != nil {
		return fmt.Errorf("failed to prune batches: %w", err)
	}

	fmt.Printf("Deleted %d batches older than %s.\n", deleted, historyOlder)
	return nil
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	ctx := logtrace.CtxWithCorrelationID(context.Background(), "capsolve-history")

	store, err := openHistoryStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	totals, err := store.Stats()
	if err != nil {
		return fmt.Errorf("failed to load batch totals: %w", err)
	}

	if len(totals) == 0 {
		fmt.Println("No batches recorded.")
		return nil
	}

	outcomes := make([]string, 0, len(totals))
	for outcome := range totals {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)

	fmt.Println("Batch totals:")
	for _, outcome := range outcomes {
		fmt.Printf("  %s: %d\n", outcome, totals[outcome])
	}

	return nil
}

func init() {
	historyListCmd.Flags().StringVar(&historyStatus, "status", "", "filter by batch status (solved, failed, cancelled)")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of batches to list")
	historyPruneCmd.Flags().DurationVar(&historyOlder, "older-than", 30*24*time.Hour, "delete batches older than this")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyCmd.AddCommand(historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}
