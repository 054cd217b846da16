package cmd

import (
	"github.com/huangsam/trendspot/core"
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/spf13/cobra"
)

// scoresCmd prints every item's final score without ranking.
var scoresCmd = &cobra.Command{
	Use:   "scores [events-csv]",
	Short: "Show the unranked final score of every item.",
	Long: `Evaluate every item's activity history and print all final scores,
including unscoreable items, with a distribution summary.

Useful for calibrating alpha and window settings: the summary shows the
median, p90 and extremes of the finite z-scores so you can judge whether
the configured decay separates signal from noise.

Examples:
  # Score all stored series
  trendspot scores

  # Score a raw event feed with a tighter window
  trendspot scores events.csv --window 30

  # Export the full batch for notebooks
  trendspot scores --output parquet --output-file scores.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrendingScores(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run scores evaluation", err)
		}
	},
}
