package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/internal/parquet"
	"github.com/huangsam/trendspot/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintItemResults outputs the ranked trending items, dispatching based on the output format configured.
func PrintItemResults(result schema.TrendingResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForItems(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForItems(result, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForItems(result, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeItemTable(result, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONResultsForItems handles opening the file and calling the JSON writer.
func printJSONResultsForItems(result schema.TrendingResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, struct {
			Direction schema.Direction             `json:"direction"`
			Records   []schema.EnrichedScoreRecord `json:"records"`
		}{
			Direction: result.Direction,
			Records:   schema.EnrichRecords(result.Records),
		})
	}, "Wrote JSON")
}

// printCSVResultsForItems handles opening the file and calling the CSV writer.
func printCSVResultsForItems(result schema.TrendingResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForItems(csvWriter, result, cfg, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// printParquetResultsForItems writes the ranked records to a Parquet file.
// Parquet output always needs a destination file.
func printParquetResultsForItems(result schema.TrendingResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	scores := make([]parquet.ItemScore, len(result.Records))
	for i, r := range result.Records {
		scores[i] = recordToParquetScore(r)
	}
	if err := parquet.WriteItemScoresParquet(scores, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// recordToParquetScore converts a score record into its Parquet row shape,
// splitting infinite z-scores into the nullable column plus sentinel marker.
func recordToParquetScore(r schema.ScoreRecord) parquet.ItemScore {
	score := parquet.ItemScore{
		ItemID:       r.Item,
		ScoreTime:    r.Timestamp,
		BucketCount:  int32(r.Buckets),
		FinalCount:   r.Count,
		DecayedMean:  r.Mean,
		DecayedStdev: r.StdDev,
	}
	switch {
	case !r.Valid:
		// NULL z-score, empty sentinel
	case math.IsInf(r.Z, 1):
		score.Sentinel = "+inf"
	case math.IsInf(r.Z, -1):
		score.Sentinel = "-inf"
	default:
		z := r.Z
		score.ZScore = &z
	}
	if r.Valid {
		score.Label = schema.GetPlainLabel(r.Z)
	}
	return score
}

// writeItemTable generates and writes the human-readable table.
func writeItemTable(result schema.TrendingResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Item", "Z-Score", "Label"}
	if cfg.Detail {
		headers = append(headers, "Count", "Mean", "StdDev", "Buckets")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	maxItemWidth := GetMaxTableItemWidth(cfg)
	var data [][]string
	for i, r := range result.Records {
		label := schema.GetPlainLabel(r.Z)
		if cfg.UseColors {
			label = contract.GetColorLabel(r.Z)
		}
		row := []string{
			strconv.Itoa(i + 1),                           // Rank
			contract.TruncateItemID(r.Item, maxItemWidth), // Item
			contract.FormatZScore(r, cfg.Precision),       // Z-Score
			label,                                         // Label
		}
		if cfg.Detail {
			row = append(
				row,
				fmtFloat(r.Count),              // Count
				fmtFloat(r.Mean),               // Mean
				fmtFloat(r.StdDev),             // StdDev
				fmt.Sprintf(intFmt, r.Buckets), // Buckets
			)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing top %d %s items\n", len(result.Records), result.Direction); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Evaluation completed in %v with %d workers. Series backend: %s\n", duration, cfg.Workers, cfg.SeriesBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForItems writes the ranked records in CSV format.
func writeCSVResultsForItems(w *csv.Writer, result schema.TrendingResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"item",
		"zscore",
		"label",
		"count",
		"mean",
		"stddev",
		"buckets",
		"bucket_time",
		"direction",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, r := range result.Records {
		rec := []string{
			strconv.Itoa(i + 1),                         // Rank
			r.Item,                                      // Item
			contract.FormatZScore(r, cfg.Precision),     // Z-Score
			schema.GetPlainLabel(r.Z),                   // Label
			fmtFloat(r.Count),                           // Count
			fmtFloat(r.Mean),                            // Mean
			fmtFloat(r.StdDev),                          // StdDev
			fmt.Sprintf(intFmt, r.Buckets),              // Buckets
			r.Timestamp.Format(contract.DateTimeFormat), // Bucket Time
			string(result.Direction),                    // Direction
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
