package schema

import "math"

// EnrichedScoreRecord adds presentation data to a ScoreRecord.
type EnrichedScoreRecord struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	ScoreRecord
}

// GetPlainLabel returns a plain text label indicating how abnormal a z-score
// is. Sentinel (infinite) scores are always Extreme.
func GetPlainLabel(z float64) string {
	abs := math.Abs(z)
	switch {
	case math.IsInf(z, 0):
		return "Extreme"
	case abs >= 3:
		return "Extreme"
	case abs >= 2:
		return "Strong"
	case abs >= 1:
		return "Notable"
	default:
		return "Normal"
	}
}

// EnrichRecords adds rank and label to a list of score records.
func EnrichRecords(records []ScoreRecord) []EnrichedScoreRecord {
	output := make([]EnrichedScoreRecord, len(records))
	for i, r := range records {
		output[i] = EnrichedScoreRecord{
			Rank:        i + 1,
			Label:       GetPlainLabel(r.Z),
			ScoreRecord: r,
		}
	}
	return output
}
