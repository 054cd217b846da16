package cmd

import (
	"fmt"

	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/internal/iocache"
	"github.com/huangsam/trendspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// seriesSetup loads minimal configuration needed for series store operations.
// This is used by commands that need series access without full shared setup.
func seriesSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get series-related config values
	backend := schema.DatabaseBackend(viper.GetString("series-backend"))
	connStr := viper.GetString("series-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize stores with the loaded config (no analysis tracking for series commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize series store: %w", err)
	}

	cfg.SeriesBackend = backend
	cfg.SeriesDBConnect = connStr

	return nil
}

// seriesSetupWrapper wraps seriesSetup to provide PreRunE for series commands.
func seriesSetupWrapper(_ *cobra.Command, _ []string) error {
	return seriesSetup()
}

// seriesCmd focused on series store management.
//
// Note: Series subcommands use minimal initialization (seriesSetup) instead of
// the full sharedSetup used by evaluation commands. This avoids engine
// validation and complex config processing for simple store operations.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Manage the bucketed item series store",
	Long: `Manage the persisted per-item series that evaluations read from.

Trendspot stores bucketed activity series so evaluations can run without
re-reading raw event feeds. Ingest writes to this store; items, scores
and timeseries read from it when no input file is given.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show series store statistics and connection info
  clear  - Remove all stored series

Examples:
  # Check series store status
  trendspot series status

  # Clear stored series before a full re-ingest
  trendspot series clear`,
}

// seriesClearCmd clears the series store.
var seriesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored item series",
	Long: `Delete all bucketed item series from the configured backend.

Use this when:
- The event feed changed shape (new bucket period, new item universe)
- Stored series may be stale or corrupted
- Starting a fresh ingestion history

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the series table

Examples:
  # Clear SQLite series store (default)
  trendspot series clear

  # Clear MySQL series store (set connection string via env variable)
  TRENDSPOT_SERIES_BACKEND=mysql TRENDSPOT_SERIES_DB_CONNECT="..." trendspot series clear`,
	PreRunE: seriesSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearSeries(cfg.SeriesBackend, contract.GetSeriesDBFilePath(), cfg.SeriesDBConnect); err != nil {
			contract.LogFatal("Failed to clear series store", err)
		}
		fmt.Println("Series store cleared successfully.")
	},
}

// seriesStatusCmd shows series store status.
var seriesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display series store statistics and connection details",
	Long: `Show detailed information about the bucketed series store.

Displays:
- Backend type and connection status
- Total number of items and bucketed points
- First and last bucket timestamps
- Store database size

Use this to:
- Verify ingestion is landing where evaluations will read
- Monitor store growth over time
- Debug backend connection issues

Examples:
  # Check series store status
  trendspot series status`,
	PreRunE: seriesSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetSeriesStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get series store status", err)
		}
		iocache.PrintSeriesStatus(status)
	},
}
