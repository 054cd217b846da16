package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTimeseriesResults outputs one item's per-bucket score trajectory,
// dispatching based on the output format configured.
func PrintTimeseriesResults(item string, records []schema.ScoreRecord, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForTimeseries(item, records, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForTimeseries(records, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimeseriesTable(item, records, cfg, fmtFloat, duration, w)
		}, "Wrote timeseries table")
	}
	return nil
}

// printJSONResultsForTimeseries handles opening the file and calling the JSON writer.
func printJSONResultsForTimeseries(item string, records []schema.ScoreRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, struct {
			Item    string               `json:"item"`
			Records []schema.ScoreRecord `json:"records"`
		}{
			Item:    item,
			Records: records,
		})
	}, "Wrote JSON timeseries results")
}

// printCSVResultsForTimeseries handles opening the file and calling the CSV writer.
func printCSVResultsForTimeseries(records []schema.ScoreRecord, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()

		header := []string{"bucket_time", "count", "zscore", "mean", "stddev"}
		if err := csvWriter.Write(header); err != nil {
			return err
		}
		for _, r := range records {
			rec := []string{
				r.Timestamp.Format(contract.DateTimeFormat),
				fmtFloat(r.Count),
				contract.FormatZScore(r, cfg.Precision),
				fmtFloat(r.Mean),
				fmtFloat(r.StdDev),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote CSV timeseries results")
}

// writeTimeseriesTable prints the per-bucket trajectory in a five-column table.
func writeTimeseriesTable(item string, records []schema.ScoreRecord, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Bucket", "Count", "Z-Score", "Mean", "StdDev"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			r.Timestamp.Format(contract.DateTimeFormat),
			fmtFloat(r.Count),
			contract.FormatZScore(r, cfg.Precision),
			fmtFloat(r.Mean),
			fmtFloat(r.StdDev),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Trajectory for %s across %d buckets\n", item, len(records)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Evaluation completed in %v with %d workers. Series backend: %s\n",
		duration, cfg.Workers, cfg.SeriesBackend); err != nil {
		return err
	}
	return nil
}
