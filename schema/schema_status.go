package schema

import "time"

// SeriesStatus represents the status of the series store.
type SeriesStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalItems     int       `json:"total_items"`
	TotalPoints    int       `json:"total_points"`
	LastBucketTime time.Time `json:"last_bucket_time"`
	FirstBucket    time.Time `json:"first_bucket_time"`
	TableSizeBytes int64     `json:"table_size_bytes"`
}

// AnalysisStatus represents the status of the analysis store.
type AnalysisStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        int64            `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TotalItemsScored int              `json:"total_items_scored"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
