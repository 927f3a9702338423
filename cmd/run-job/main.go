package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"anchor-sync/internal/app"
	"anchor-sync/internal/features/sync"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// withSyncService boots the core graph, hands the sync service to fn and
// stops the graph again so database and redis handles are closed.
func withSyncService(ctx context.Context, fn func(context.Context, sync.SyncService) error) error {
	var svc sync.SyncService
	fxApp := fx.New(app.Core, fx.Populate(&svc))
	if err := fxApp.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = fxApp.Stop(stopCtx)
	}()

	return fn(ctx, svc)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// rootCmd runs one fleet sync when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "run-job",
	Short: "Run one fleet sync of every active anchor and exit.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSyncService(cmd.Context(), func(ctx context.Context, svc sync.SyncService) error {
			summary := svc.RunFleetSync(ctx)
			return printJSON(summary)
		})
	},
}

var anchorCmd = &cobra.Command{
	Use:   "anchor <anchorId>",
	Short: "Sync one anchor, optionally over an explicit time range.",
	Example: `  run-job anchor 2208123456
  run-job anchor 2208123456 --start "20250101 00:00:00" --end "20250131 23:59:59"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		return withSyncService(cmd.Context(), func(ctx context.Context, svc sync.SyncService) error {
			resp := svc.SyncOneAccount(ctx, sync.SyncRequest{
				AnchorID:  args[0],
				StartTime: start,
				EndTime:   end,
			})
			if err := printJSON(resp); err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("sync failed: %s", resp.Error)
			}
			return nil
		})
	},
}

func init() {
	anchorCmd.Flags().String("start", "", "window start, YYYYMMDD HH:mm:ss")
	anchorCmd.Flags().String("end", "", "window end, YYYYMMDD HH:mm:ss")
	rootCmd.AddCommand(anchorCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
