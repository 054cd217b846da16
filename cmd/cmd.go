// Package cmd defines the command-line interface for trendspot.
package cmd

import (
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(timeseriesCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(analysisCmd)

	// Add the series subcommands to the parent series command
	seriesCmd.AddCommand(seriesClearCmd)
	seriesCmd.AddCommand(seriesStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Float64P("alpha", "a", contract.DefaultAlpha, "Decay factor in (0, 1]: weight of the newest observation")
	rootCmd.PersistentFlags().StringP("direction", "d", string(schema.RisingDirection), "Trend direction: rising or falling")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().StringP("period", "p", contract.DefaultPeriod, "Bucket width for event ingestion (e.g. '1 hour', '7 days')")
	rootCmd.PersistentFlags().Int("window", 0, "Keep only the last N buckets per item (0 = all history)")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-item decayed mean, stddev and bucket count")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("series-backend", string(schema.SQLiteBackend), "Series backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("series-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from series-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of timeseriesCmd to Viper
	timeseriesCmd.Flags().StringP("item", "i", "", "Item whose score trajectory to show")
	if err := viper.BindPFlags(timeseriesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding timeseries flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
