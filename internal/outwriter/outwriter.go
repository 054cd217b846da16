// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteItems prints ranked trending items using the configured output format.
func (ow *OutWriter) WriteItems(result schema.TrendingResult, cfg *contract.Config, duration time.Duration) error {
	return PrintItemResults(result, cfg, duration)
}

// WriteScores prints the full unranked score batch using the configured output format.
func (ow *OutWriter) WriteScores(output schema.TrendAnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	return PrintScoreResults(output, cfg, duration)
}

// WriteTimeseries prints one item's score trajectory using the configured output format.
func (ow *OutWriter) WriteTimeseries(item string, records []schema.ScoreRecord, cfg *contract.Config, duration time.Duration) error {
	return PrintTimeseriesResults(item, records, cfg, duration)
}
