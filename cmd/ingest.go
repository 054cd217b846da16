package cmd

import (
	"github.com/huangsam/trendspot/core"
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/spf13/cobra"
)

// ingestCmd buckets raw events and persists the series.
var ingestCmd = &cobra.Command{
	Use:   "ingest <events-csv>",
	Short: "Bucket raw interaction events into the series store.",
	Long: `Read raw interaction events from a CSV file, aggregate them into
fixed-width per-item buckets and persist the resulting series.

The CSV must have the header 'item_id,user_id,interaction_time' with
RFC3339 timestamps. Quiet buckets are zero-filled over the batch's time
range so silence counts as zero activity, not missing data.

Re-ingesting an item replaces its stored series.

Examples:
  # Ingest a daily feed with the default 7-day buckets
  trendspot ingest events.csv

  # Hourly buckets into a shared MySQL store
  trendspot ingest events.csv --period "1 hour" \
    --series-backend mysql --series-db-connect "user:pass@tcp(host:3306)/trendspot"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIngest(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run ingest", err)
		}
	},
}
