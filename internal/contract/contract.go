// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/trendspot/schema"
)

// StoreManager defines the interface for accessing the persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetSeriesStore() SeriesStore
	GetAnalysisStore() AnalysisStore
}

// SeriesStore defines the interface for persisting bucketed per-item series
// between ingestion and evaluation runs.
type SeriesStore interface {
	// UpsertSeries inserts or replaces the bucketed points of one item.
	UpsertSeries(series schema.ItemSeries) error

	// GetSeries returns one item's stored series in ascending bucket order.
	GetSeries(item string) (schema.ItemSeries, error)

	// GetAllSeries returns every stored series, ordered by item then bucket.
	GetAllSeries() ([]schema.ItemSeries, error)

	// GetStatus returns status information about the series store.
	GetStatus() (schema.SeriesStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// AnalysisStore defines the interface for tracking evaluation runs and
// storing per-item score records.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID.
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data.
	EndAnalysis(analysisID int64, endTime time.Time, totalItems int) error

	// RecordItemScore stores the final score record for one item.
	RecordItemScore(analysisID int64, record schema.ScoreRecord) error

	// GetAllAnalysisRuns returns every recorded run for export.
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllItemScores returns every recorded item score for export.
	GetAllItemScores() ([]schema.ItemScoreRecord, error)

	// GetStatus returns status information about the analysis store.
	GetStatus() (schema.AnalysisStatus, error)

	// Close closes the underlying connection.
	Close() error
}
