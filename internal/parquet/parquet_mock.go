package parquet

import "time"

// MockFetchAnalysisRuns returns representative analysis runs for demos and
// smoke tests, including one run that is still in flight.
func MockFetchAnalysisRuns() []AnalysisRun {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Second)
	durationMs := int32(3000)
	params := `{"alpha":0.9,"direction":"rising","period":"168h0m0s"}`

	return []AnalysisRun{
		{
			AnalysisID:       1,
			StartTime:        start,
			EndTime:          &end,
			RunDurationMs:    &durationMs,
			TotalItemsScored: 128,
			ConfigParams:     &params,
		},
		{
			AnalysisID: 2,
			StartTime:  start.Add(time.Hour),
			// Nullable fields stay nil for an in-flight run
		},
	}
}

// MockFetchItemScores returns representative item scores for demos and smoke
// tests, covering finite, sentinel and unscoreable records.
func MockFetchItemScores() []ItemScore {
	scoreTime := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	finite := 2.75

	return []ItemScore{
		{
			AnalysisID:   1,
			ItemID:       "widget-a",
			ScoreTime:    scoreTime,
			BucketCount:  8,
			FinalCount:   42,
			DecayedMean:  18.5,
			DecayedStdev: 8.5,
			ZScore:       &finite,
			Label:        "Strong",
		},
		{
			AnalysisID:   1,
			ItemID:       "widget-b",
			ScoreTime:    scoreTime,
			BucketCount:  8,
			FinalCount:   12,
			DecayedMean:  4,
			DecayedStdev: 0,
			Sentinel:     "+inf",
			Label:        "Extreme",
		},
		{
			AnalysisID:  1,
			ItemID:      "widget-c",
			ScoreTime:   scoreTime,
			BucketCount: 1,
			FinalCount:  3,
		},
	}
}
