// Package algo has pure selection and ordering logic for score records.
package algo

import (
	"fmt"
	"sort"

	"github.com/huangsam/trendspot/schema"
)

// Rank orders score records by abnormality in the requested direction and
// returns the top 'limit' records. Records that are not yet scoreable are
// filtered out first. Ties preserve input order (stable), so callers wanting
// a domain-specific tie-break pre-sort the batch. Infinite sentinel scores
// sort as more extreme than any finite score of matching sign.
func Rank(records []schema.ScoreRecord, limit int, direction schema.Direction) ([]schema.ScoreRecord, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1, got %d", schema.ErrInvalidArgument, limit)
	}
	if _, ok := schema.ValidDirections[direction]; !ok {
		return nil, fmt.Errorf("%w: unknown direction %q", schema.ErrInvalidArgument, direction)
	}

	scoreable := make([]schema.ScoreRecord, 0, len(records))
	for _, r := range records {
		if r.Valid {
			scoreable = append(scoreable, r)
		}
	}

	sort.SliceStable(scoreable, func(i, j int) bool {
		if direction == schema.FallingDirection {
			return scoreable[i].Z < scoreable[j].Z
		}
		return scoreable[i].Z > scoreable[j].Z
	})

	if len(scoreable) > limit {
		return scoreable[:limit], nil
	}
	return scoreable, nil
}
