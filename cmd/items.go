package cmd

import (
	"github.com/huangsam/trendspot/core"
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/spf13/cobra"
)

// itemsCmd ranks items by how abnormal their latest activity is.
var itemsCmd = &cobra.Command{
	Use:   "items [events-csv]",
	Short: "Show the top trending items ranked by z-score.",
	Long: `Evaluate every item's activity history and rank items by how far their
latest bucket deviates from their own decayed baseline.

Each item is scored independently: a small item tripling its activity
outranks a big item growing a few percent. Items without enough history
to score are excluded, not penalized.

With an events CSV argument, raw interactions are bucketed on the fly
(and persisted to the series store). Without one, the stored series from
previous 'ingest' runs are evaluated.

Examples:
  # Top risers from a raw event feed
  trendspot items events.csv --limit 20

  # Collapsing items instead of rising ones
  trendspot items --direction falling

  # Weight history more heavily than the default
  trendspot items events.csv --alpha 0.5

  # Export findings to CSV for tracking
  trendspot items --output csv --output-file trending.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrendingItems(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run items evaluation", err)
		}
	},
}
