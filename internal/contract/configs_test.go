package contract

import (
	"testing"
	"time"

	"github.com/huangsam/trendspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRawInput returns a raw input that passes all validation. Tests mutate
// single fields to probe individual failure paths.
func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		InputFileStr:    "events.csv",
		Alpha:           DefaultAlpha,
		Direction:       "rising",
		Limit:           DefaultResultLimit,
		Workers:         4,
		Precision:       DefaultPrecision,
		Output:          "text",
		Period:          DefaultPeriod,
		Window:          0,
		Color:           "yes",
		SeriesBackend:   "none",
		AnalysisBackend: "none",
	}
}

// TestProcessAndValidate covers the happy path and each validation failure.
func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid defaults", func(in *ConfigRawInput) {}, false},
		{"valid falling direction", func(in *ConfigRawInput) { in.Direction = "FALLING" }, false},
		{"valid sqlite backends", func(in *ConfigRawInput) {
			in.SeriesBackend = "sqlite"
			in.SeriesDBConnect = "/tmp/series.db"
			in.AnalysisBackend = "sqlite"
			in.AnalysisDBConnect = "/tmp/analysis.db"
		}, false},
		{"valid go duration period", func(in *ConfigRawInput) { in.Period = "24h" }, false},

		{"alpha zero", func(in *ConfigRawInput) { in.Alpha = 0 }, true},
		{"alpha above one", func(in *ConfigRawInput) { in.Alpha = 1.5 }, true},
		{"alpha negative", func(in *ConfigRawInput) { in.Alpha = -0.2 }, true},
		{"limit zero", func(in *ConfigRawInput) { in.Limit = 0 }, true},
		{"limit above max", func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, true},
		{"workers zero", func(in *ConfigRawInput) { in.Workers = 0 }, true},
		{"bad direction", func(in *ConfigRawInput) { in.Direction = "sideways" }, true},
		{"bad output", func(in *ConfigRawInput) { in.Output = "xml" }, true},
		{"bad precision", func(in *ConfigRawInput) { in.Precision = 5 }, true},
		{"bad period", func(in *ConfigRawInput) { in.Period = "fortnight" }, true},
		{"negative window", func(in *ConfigRawInput) { in.Window = -1 }, true},
		{"bad color value", func(in *ConfigRawInput) { in.Color = "maybe" }, true},
		{"bad series backend", func(in *ConfigRawInput) { in.SeriesBackend = "oracle" }, true},
		{"mysql without connect string", func(in *ConfigRawInput) {
			in.SeriesBackend = "mysql"
			in.SeriesDBConnect = ""
		}, true},
		{"shared sqlite file", func(in *ConfigRawInput) {
			in.SeriesBackend = "sqlite"
			in.SeriesDBConnect = "/tmp/same.db"
			in.AnalysisBackend = "sqlite"
			in.AnalysisDBConnect = "/tmp/same.db"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

// TestProcessAndValidateFields spot-checks that parsed values land in the
// final config.
func TestProcessAndValidateFields(t *testing.T) {
	input := validRawInput()
	input.Direction = "Falling"
	input.Period = "2 weeks"
	input.Window = 12
	input.Item = "  widget-42  "

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "events.csv", cfg.InputFile)
	assert.Equal(t, DefaultAlpha, cfg.Alpha)
	assert.Equal(t, schema.FallingDirection, cfg.Direction)
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
	assert.Equal(t, 14*24*time.Hour, cfg.Period)
	assert.Equal(t, 12, cfg.WindowBuckets)
	assert.Equal(t, "widget-42", cfg.Item)
	assert.True(t, cfg.UseColors)
}

// TestConfigClone ensures clones are independent copies.
func TestConfigClone(t *testing.T) {
	cfg := &Config{Alpha: 0.5, ResultLimit: 3, Direction: schema.RisingDirection}
	clone := cfg.Clone()
	require.NotSame(t, cfg, clone)
	assert.Equal(t, cfg, clone)

	clone.ResultLimit = 99
	assert.Equal(t, 3, cfg.ResultLimit)
}

// TestValidateDatabaseConnectionString tests the per-backend format checks.
func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite accepts empty", schema.SQLiteBackend, "", false},
		{"none accepts empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/trendspot", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass/trendspot", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=trendspot", false},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
