// Package parquet provides data structures and functions for exporting
// trendspot analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/trendspot/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single trend evaluation run with metadata.
// This struct maps to the trendspot_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// StartTime is when the evaluation began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the evaluation completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the evaluation run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalItemsScored is the number of items scored in this run
	TotalItemsScored int32 `parquet:"total_items_scored,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ItemScore represents the final z-score for a single item in an evaluation.
// This struct maps to the trendspot_item_scores database table.
type ItemScore struct {
	// AnalysisID references the parent analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// ItemID is the identifier of the scored item
	ItemID string `parquet:"item_id,snappy"`

	// ScoreTime is the bucket timestamp the score refers to
	ScoreTime time.Time `parquet:"score_time,snappy"`

	// BucketCount is the number of buckets the item contributed
	BucketCount int32 `parquet:"bucket_count,snappy"`

	// FinalCount is the raw activity count of the scored bucket
	FinalCount float64 `parquet:"final_count,snappy"`

	// DecayedMean is the decayed mean before the final bucket was absorbed
	DecayedMean float64 `parquet:"decayed_mean,snappy"`

	// DecayedStdev is the decayed standard deviation before the final bucket was absorbed
	DecayedStdev float64 `parquet:"decayed_stdev,snappy"`

	// ZScore is the finite z-score (nullable; null when the record was a
	// sentinel or not scoreable, disambiguated by Sentinel)
	ZScore *float64 `parquet:"z_score,optional,snappy"`

	// Sentinel is "", "+inf" or "-inf"
	Sentinel string `parquet:"sentinel,snappy"`

	// Label is the human-readable deviation label
	Label string `parquet:"score_label,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AnalysisRun struct tags
	writer := parquet.NewGenericWriter[AnalysisRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteItemScoresParquet writes a slice of ItemScore structs to a Parquet file.
func WriteItemScoresParquet(data []ItemScore, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ItemScore struct tags
	writer := parquet.NewGenericWriter[ItemScore](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:       record.AnalysisID,
			StartTime:        record.StartTime,
			EndTime:          record.EndTime,
			RunDurationMs:    record.RunDurationMs,
			TotalItemsScored: record.TotalItemsScored,
			ConfigParams:     record.ConfigParams,
		}
	}
	return result
}

// ConvertItemScoreRecords converts schema.ItemScoreRecord to ItemScore for Parquet export.
func ConvertItemScoreRecords(records []schema.ItemScoreRecord) []ItemScore {
	result := make([]ItemScore, len(records))
	for i, record := range records {
		result[i] = ItemScore{
			AnalysisID:   record.AnalysisID,
			ItemID:       record.ItemID,
			ScoreTime:    record.ScoreTime,
			BucketCount:  record.BucketCount,
			FinalCount:   record.FinalCount,
			DecayedMean:  record.DecayedMean,
			DecayedStdev: record.DecayedStdev,
			ZScore:       record.ZScore,
			Sentinel:     record.Sentinel,
			Label:        record.Label,
		}
	}
	return result
}
