package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capforge/capsolve/capsolve/status"
	"github.com/capforge/capsolve/pkg/logtrace"
)

var statusJSON bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display system resources and batch totals",
	Long: `Display the capsolve version, system resources, and the batch totals
recorded in the solve history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create context with correlation ID for tracing
		ctx := logtrace.CtxWithCorrelationID(context.Background(), "capsolve-status")

		app, err := NewCapsolve(ctx, appConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize capsolve: %w", err)
		}
		defer app.Close(ctx)

		resp, err := app.status.GetStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to collect status: %w", err)
		}

		if statusJSON {
			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to serialize status: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		printStatus(resp)
		return nil
	},
}

func printStatus(resp *status.StatusResponse) {
	fmt.Printf("Capsolve Status:\n")
	fmt.Printf("  Version: %s\n", resp.Version)
	fmt.Printf("  CPU: %.1f%% of %d cores\n", resp.Resources.CPU.UsagePercent, resp.Resources.CPU.Cores)
	fmt.Printf("  Memory: %.1fGB used / %.1fGB total (%.1f%%)\n",
		resp.Resources.Memory.UsedGB, resp.Resources.Memory.TotalGB, resp.Resources.Memory.UsagePercent)

	if len(resp.Resources.StorageVolumes) > 0 {
		fmt.Printf("  Storage:\n")
		for _, vol := range resp.Resources.StorageVolumes {
			fmt.Printf("    %s: %.1f%% used\n", vol.Path, vol.UsagePercent)
		}
	}

	if len(resp.RunningTasks) > 0 {
		fmt.Printf("  Running Tasks:\n")
		for _, svc := range resp.RunningTasks {
			fmt.Printf("    %s: %d\n", svc.ServiceName, svc.TaskCount)
		}
	}

	if len(resp.BatchTotals) > 0 {
		fmt.Printf("  Batch Totals:\n")
		for outcome, count := range resp.BatchTotals {
			fmt.Printf("    %s: %d\n", outcome, count)
		}
	}
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the status document as JSON")
	rootCmd.AddCommand(statusCmd)
}
