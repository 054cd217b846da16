package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/trendspot/schema"
)

// Color variables for console output.
var (
	ExtremeColor = color.New(color.FgRed, color.Bold)     // extreme deviation, including sentinels
	StrongColor  = color.New(color.FgMagenta, color.Bold) // strong deviation
	NotableColor = color.New(color.FgYellow)              // standard caution, not bold
	NormalColor  = color.New(color.FgCyan)                // informational / within-range signal
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetPlainLabel to determine the string, then applies the
// appropriate color.
func GetColorLabel(z float64) string {
	text := schema.GetPlainLabel(z)

	switch text {
	case "Extreme":
		return ExtremeColor.Sprint(text)
	case "Strong":
		return StrongColor.Sprint(text)
	case "Notable":
		return NotableColor.Sprint(text)
	default: // "Normal"
		return NormalColor.Sprint(text)
	}
}

// FormatZScore renders a z-score for display, spelling out sentinels and
// unscoreable records instead of printing IEEE infinities raw.
func FormatZScore(r schema.ScoreRecord, precision int) string {
	switch {
	case !r.Valid:
		return "n/a"
	case math.IsInf(r.Z, 1):
		return "+Inf"
	case math.IsInf(r.Z, -1):
		return "-Inf"
	default:
		return fmt.Sprintf("%.*f", precision, r.Z)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetSeriesDBFilePath returns the path to the SQLite DB file for series storage.
func GetSeriesDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".trendspot_series.db"
	}
	return filepath.Join(homeDir, ".trendspot_series.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".trendspot_analysis.db"
	}
	return filepath.Join(homeDir, ".trendspot_analysis.db")
}

// TruncateItemID truncates an item identifier to a maximum width with an
// ellipsis suffix so tables stay readable with long IDs.
func TruncateItemID(item string, maxWidth int) string {
	runes := []rune(item)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return item
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
