package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/internal/parquet"
	"github.com/huangsam/trendspot/schema"
	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// scoreSummary aggregates the finite z-scores of a batch for the table footer.
type scoreSummary struct {
	Scoreable int
	Sentinels int
	Median    float64
	P90       float64
	Min       float64
	Max       float64
}

// PrintScoreResults outputs the unranked per-item scores of a full evaluation,
// dispatching based on the output format configured.
func PrintScoreResults(output schema.TrendAnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForScores(output, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForScores(output, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForScores(output, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(output, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONResultsForScores handles opening the file and calling the JSON writer.
func printJSONResultsForScores(output schema.TrendAnalysisOutput, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, struct {
			Records      []schema.ScoreRecord `json:"records"`
			SkippedItems int                  `json:"skipped_items"`
		}{
			Records:      output.Records,
			SkippedItems: output.SkippedItems,
		})
	}, "Wrote JSON scores")
}

// printCSVResultsForScores handles opening the file and calling the CSV writer.
func printCSVResultsForScores(output schema.TrendAnalysisOutput, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForScores(csvWriter, output, cfg, fmtFloat, intFmt)
	}, "Wrote CSV scores")
}

// printParquetResultsForScores writes every score record to a Parquet file.
func printParquetResultsForScores(output schema.TrendAnalysisOutput, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	scores := make([]parquet.ItemScore, len(output.Records))
	for i, r := range output.Records {
		scores[i] = recordToParquetScore(r)
	}
	if err := parquet.WriteItemScoresParquet(scores, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeScoreTable generates and writes the human-readable table with a
// distribution summary.
func writeScoreTable(output schema.TrendAnalysisOutput, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Item", "Z-Score", "Label", "Count", "Mean", "StdDev", "Buckets"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxItemWidth := GetMaxTableItemWidth(cfg)
	var data [][]string
	for _, r := range output.Records {
		label := ""
		if r.Valid {
			label = schema.GetPlainLabel(r.Z)
			if cfg.UseColors {
				label = contract.GetColorLabel(r.Z)
			}
		}
		data = append(data, []string{
			contract.TruncateItemID(r.Item, maxItemWidth),
			contract.FormatZScore(r, cfg.Precision),
			label,
			fmtFloat(r.Count),
			fmtFloat(r.Mean),
			fmtFloat(r.StdDev),
			fmt.Sprintf(intFmt, r.Buckets),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	summary := summarizeScores(output.Records)
	if _, err := fmt.Fprintf(writer, "Scored %d items (%d sentinels, %d skipped)\n",
		summary.Scoreable, summary.Sentinels, output.SkippedItems); err != nil {
		return err
	}
	if summary.Scoreable > summary.Sentinels {
		if _, err := fmt.Fprintf(writer, "Finite z-scores: median %s, p90 %s, min %s, max %s\n",
			fmtFloat(summary.Median), fmtFloat(summary.P90), fmtFloat(summary.Min), fmtFloat(summary.Max)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Evaluation completed in %v with %d workers. Series backend: %s\n",
		duration, cfg.Workers, cfg.SeriesBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForScores writes every score record in CSV format.
func writeCSVResultsForScores(w *csv.Writer, output schema.TrendAnalysisOutput, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"item",
		"zscore",
		"label",
		"count",
		"mean",
		"stddev",
		"buckets",
		"bucket_time",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range output.Records {
		label := ""
		if r.Valid {
			label = schema.GetPlainLabel(r.Z)
		}
		rec := []string{
			r.Item,
			contract.FormatZScore(r, cfg.Precision),
			label,
			fmtFloat(r.Count),
			fmtFloat(r.Mean),
			fmtFloat(r.StdDev),
			fmt.Sprintf(intFmt, r.Buckets),
			r.Timestamp.Format(contract.DateTimeFormat),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// summarizeScores computes distribution statistics over the finite z-scores
// of a batch. Sentinels are counted separately since they would dominate any
// percentile.
func summarizeScores(records []schema.ScoreRecord) scoreSummary {
	var summary scoreSummary
	var finite []float64
	for _, r := range records {
		if !r.Valid {
			continue
		}
		summary.Scoreable++
		if math.IsInf(r.Z, 0) {
			summary.Sentinels++
			continue
		}
		finite = append(finite, r.Z)
	}

	if len(finite) == 0 {
		return summary
	}

	// Errors only occur on empty input, which is guarded above.
	summary.Median, _ = stats.Median(finite)
	summary.P90, _ = stats.Percentile(finite, 90)
	summary.Min, _ = stats.Min(finite)
	summary.Max, _ = stats.Max(finite)
	return summary
}
