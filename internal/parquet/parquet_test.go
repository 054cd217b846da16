package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/trendspot/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteAnalysisRunsRoundtrip writes runs to a file and reads them back.
func TestWriteAnalysisRunsRoundtrip(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "runs.parquet")

	start := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Second)
	durationMs := int32(2000)
	params := `{"alpha":0.9}`

	runs := []AnalysisRun{
		{
			AnalysisID:       1,
			StartTime:        start,
			EndTime:          &end,
			RunDurationMs:    &durationMs,
			TotalItemsScored: 42,
			ConfigParams:     &params,
		},
		{
			AnalysisID: 2,
			StartTime:  start.Add(time.Hour),
			// Nullable fields stay nil for an in-flight run
		},
	}

	require.NoError(t, WriteAnalysisRunsParquet(runs, outPath))

	got, err := pq.ReadFile[AnalysisRun](outPath)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].AnalysisID)
	assert.Equal(t, int32(42), got[0].TotalItemsScored)
	require.NotNil(t, got[0].ConfigParams)
	assert.Equal(t, params, *got[0].ConfigParams)
	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].RunDurationMs)
}

// TestWriteItemScoresRoundtrip covers nullable z-scores and sentinels.
func TestWriteItemScoresRoundtrip(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "scores.parquet")

	z := 2.75
	scores := []ItemScore{
		{
			AnalysisID:   1,
			ItemID:       "widget-a",
			ScoreTime:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			BucketCount:  10,
			FinalCount:   15,
			DecayedMean:  8,
			DecayedStdev: 2.5,
			ZScore:       &z,
			Label:        "Strong",
		},
		{
			AnalysisID: 1,
			ItemID:     "widget-b",
			ScoreTime:  time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Sentinel:   "+inf",
			Label:      "Extreme",
		},
	}

	require.NoError(t, WriteItemScoresParquet(scores, outPath))

	got, err := pq.ReadFile[ItemScore](outPath)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].ZScore)
	assert.Equal(t, 2.75, *got[0].ZScore)
	assert.Nil(t, got[1].ZScore)
	assert.Equal(t, "+inf", got[1].Sentinel)
}

// TestConvertRecords verifies the schema-to-parquet field mapping.
func TestConvertRecords(t *testing.T) {
	z := 1.5
	scoreRecords := []schema.ItemScoreRecord{
		{
			AnalysisID:   7,
			ItemID:       "widget-a",
			ScoreTime:    time.Now(),
			BucketCount:  3,
			FinalCount:   9,
			DecayedMean:  4,
			DecayedStdev: 1,
			ZScore:       &z,
			Label:        "Notable",
		},
	}
	converted := ConvertItemScoreRecords(scoreRecords)
	require.Len(t, converted, 1)
	assert.Equal(t, int64(7), converted[0].AnalysisID)
	assert.Equal(t, "Notable", converted[0].Label)
	require.NotNil(t, converted[0].ZScore)
	assert.Equal(t, 1.5, *converted[0].ZScore)

	runRecords := []schema.AnalysisRunRecord{{AnalysisID: 3, StartTime: time.Now(), TotalItemsScored: 5}}
	runs := ConvertAnalysisRunRecords(runRecords)
	require.Len(t, runs, 1)
	assert.Equal(t, int32(5), runs[0].TotalItemsScored)
}
