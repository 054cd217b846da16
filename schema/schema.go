// Package schema has configs, models and global variables for all parts of trendspot.
package schema

import (
	"encoding/json"
	"math"
	"time"
)

// Event represents a single raw interaction (purchase, click, view) before bucketing.
type Event struct {
	Item string    // Identifier of the item the interaction targeted
	User string    // Identifier of the interacting user (counted, not inspected)
	Time time.Time // When the interaction happened
}

// SeriesPoint is one bucketed observation for an item: the number of
// interactions that fell into a fixed-width time bucket.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"` // Start of the bucket; strictly ascending per item
	Count     float64   `json:"count"`     // Aggregated activity in the bucket, never negative
}

// ItemSeries is an item's ordered, bucketed activity history.
type ItemSeries struct {
	Item   string        `json:"item"`
	Points []SeriesPoint `json:"points"`
}

// ScoreRecord is the z-score of one item at one point in time, together with
// the decayed statistics the score was computed against. Records with
// Valid=false could not be scored yet (insufficient history) and are filtered
// out by ranking; they are not errors.
type ScoreRecord struct {
	Item      string
	Timestamp time.Time
	Count     float64 // Raw bucket count the score refers to
	Z         float64 // May be +/-Inf when variance was zero and the count moved
	Valid     bool    // False when the item had no prior history at this point
	Mean      float64 // Decayed mean before this point was absorbed
	StdDev    float64 // Decayed standard deviation before this point was absorbed
	Buckets   int     // Number of points the item had contributed, this one included
}

// Sentinel reports whether the record carries an infinite z-score, which
// marks a previously constant item suddenly changing.
func (r ScoreRecord) Sentinel() bool {
	return r.Valid && math.IsInf(r.Z, 0)
}

// MarshalJSON renders the z-score as null when the record is unscoreable and
// as a signed "Inf" string when it is a sentinel, since JSON has no encoding
// for IEEE infinities.
func (r ScoreRecord) MarshalJSON() ([]byte, error) {
	out := struct {
		Item      string    `json:"item"`
		Timestamp time.Time `json:"timestamp"`
		Count     float64   `json:"count"`
		Z         any       `json:"zscore"`
		Mean      float64   `json:"mean"`
		StdDev    float64   `json:"stddev"`
		Buckets   int       `json:"buckets"`
	}{
		Item:      r.Item,
		Timestamp: r.Timestamp,
		Count:     r.Count,
		Mean:      r.Mean,
		StdDev:    r.StdDev,
		Buckets:   r.Buckets,
	}
	switch {
	case !r.Valid:
		out.Z = nil
	case math.IsInf(r.Z, 1):
		out.Z = "+Inf"
	case math.IsInf(r.Z, -1):
		out.Z = "-Inf"
	default:
		out.Z = r.Z
	}
	return json.Marshal(out)
}

// TrendingResult is an ordered top-N selection of score records for one
// evaluation direction. Recomputed fresh per request; never persisted by the core.
type TrendingResult struct {
	Direction Direction     `json:"direction"`
	Records   []ScoreRecord `json:"records"`
}

// TrendAnalysisOutput carries everything a batch evaluation produced: the
// final-point record per item plus per-item trajectories for diagnostics.
type TrendAnalysisOutput struct {
	Records      []ScoreRecord            // One record per item, for the latest point of its series
	Trajectories map[string][]ScoreRecord // Full per-point record sequence per item
	SkippedItems int                      // Items dropped due to malformed series (isolated failures)
}
