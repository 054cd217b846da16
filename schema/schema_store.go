package schema

import "time"

// AnalysisRunRecord represents a row from the trendspot_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID       int64
	StartTime        time.Time
	EndTime          *time.Time
	RunDurationMs    *int32
	TotalItemsScored int32
	ConfigParams     *string
}

// ItemScoreRecord represents a row from the trendspot_item_scores table.
// The z-score column is null when the item was unscoreable or carried a
// sentinel; the Sentinel column disambiguates ("", "+inf", "-inf").
type ItemScoreRecord struct {
	AnalysisID   int64
	ItemID       string
	ScoreTime    time.Time
	BucketCount  int32
	FinalCount   float64
	DecayedMean  float64
	DecayedStdev float64
	ZScore       *float64
	Sentinel     string
	Label        string
}
