package cmd

import (
	"github.com/huangsam/trendspot/core"
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/spf13/cobra"
)

// timeseriesCmd shows one item's per-bucket score trajectory.
var timeseriesCmd = &cobra.Command{
	Use:   "timeseries [events-csv]",
	Short: "Show one item's per-bucket score trajectory.",
	Long: `Replay a single item's series and print the z-score of every bucket
against the decayed statistics at that point in time.

Use this to see when an item started trending and how quickly its
baseline absorbed the change.

Examples:
  # Trajectory of one item from the series store
  trendspot timeseries --item widget-a

  # Trajectory from a raw event feed
  trendspot timeseries events.csv --item widget-a --period "1 hour"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteItemTimeseries(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run timeseries evaluation", err)
		}
	},
}
