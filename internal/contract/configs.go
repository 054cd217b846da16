package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/trendspot/core/stats"
	"github.com/huangsam/trendspot/schema"
)

// Default values for configuration.
const (
	DefaultAlpha       = 0.9 // Weight of the newest observation in the running mean
	DefaultResultLimit = 10
	MaxResultLimit     = 1000
	DefaultPrecision   = 2
	DefaultPeriod      = "7 days"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for an evaluation.
// This struct remains the "final, validated" config.
type Config struct {
	InputFile     string  // CSV of raw events; empty means read from the series store
	Alpha         float64 // Decay factor in (0, 1]
	Direction     schema.Direction
	ResultLimit   int // Top-N to report
	Workers       int // Concurrent item workers
	Precision     int // Decimal precision for numeric columns (1 or 2)
	Output        schema.OutputMode
	OutputFile    string        // Optional path to write output to
	Period        time.Duration // Bucket width for ingestion
	WindowBuckets int           // Keep only the last N buckets per item (0 = all)
	Item          string        // Target item for per-item timeseries output
	Width         int           // Terminal width override (0 = auto-detect)

	SeriesBackend   schema.DatabaseBackend
	SeriesDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	Detail    bool // If true, print per-item mean/stddev/count columns
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputFileStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Alpha             float64 `mapstructure:"alpha"`
	Direction         string  `mapstructure:"direction"`
	Limit             int     `mapstructure:"limit"`
	Workers           int     `mapstructure:"workers"`
	Precision         int     `mapstructure:"precision"`
	Output            string  `mapstructure:"output"`
	OutputFile        string  `mapstructure:"output-file"`
	Period            string  `mapstructure:"period"`
	Window            int     `mapstructure:"window"`
	Detail            bool    `mapstructure:"detail"`
	Width             int     `mapstructure:"width"`
	Color             string  `mapstructure:"color"`
	SeriesBackend     string  `mapstructure:"series-backend"`
	SeriesDBConnect   string  `mapstructure:"series-db-connect"`
	AnalysisBackend   string  `mapstructure:"analysis-backend"`
	AnalysisDBConnect string  `mapstructure:"analysis-db-connect"`

	// --- Fields from timeseriesCmd.Flags() ---
	Item string `mapstructure:"item"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateEngineInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates presentation-related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputFile = input.InputFileStr
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.Item = strings.TrimSpace(input.Item)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	return nil
}

// validateEngineInputs validates the parameters that feed the scoring engine.
func validateEngineInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Decay factor validation (fail fast, never clamp) ---
	if err := stats.ValidateAlpha(input.Alpha); err != nil {
		return err
	}
	cfg.Alpha = input.Alpha

	// --- 2. ResultLimit validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("%w: limit must be greater than 0 and cannot exceed %d (received %d)",
			schema.ErrInvalidArgument, MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 3. Workers validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 4. Direction validation ---
	cfg.Direction = schema.Direction(strings.ToLower(input.Direction))
	if _, ok := schema.ValidDirections[cfg.Direction]; !ok {
		return fmt.Errorf("invalid direction '%s'. must be rising or falling", input.Direction)
	}

	// --- 5. Bucket period validation ---
	period, err := ParsePeriodDuration(input.Period)
	if err != nil {
		return fmt.Errorf("invalid period: %w", err)
	}
	cfg.Period = period

	// --- 6. Window validation ---
	if input.Window < 0 {
		return fmt.Errorf("window must be 0 (all history) or a positive bucket count (received %d)", input.Window)
	}
	cfg.WindowBuckets = input.Window

	return nil
}

// validateBackendConfigs validates series and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Series Backend Validation ---
	cfg.SeriesBackend = schema.DatabaseBackend(strings.ToLower(input.SeriesBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.SeriesBackend]; !ok {
		return fmt.Errorf("invalid series backend '%s'. must be sqlite, mysql, postgresql, none", input.SeriesBackend)
	}
	cfg.SeriesDBConnect = input.SeriesDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SeriesBackend, cfg.SeriesDBConnect); err != nil {
		return err
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
			return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
		}
		cfg.AnalysisDBConnect = input.AnalysisDBConnect
		if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
			return err
		}

		// Series and analysis must not share a SQLite file.
		if cfg.SeriesBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
			seriesPath := cfg.SeriesDBConnect
			if seriesPath == "" {
				seriesPath = GetSeriesDBFilePath()
			}
			analysisPath := cfg.AnalysisDBConnect
			if analysisPath == "" {
				analysisPath = GetAnalysisDBFilePath()
			}
			if seriesPath == analysisPath {
				return fmt.Errorf("series and analysis storage must use different SQLite database files. Both resolve to %q", seriesPath)
			}
		}
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
