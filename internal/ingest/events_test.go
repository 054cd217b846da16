package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/huangsam/trendspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `item_id,user_id,interaction_time
widget-a,u1,2024-03-01T10:00:00Z
widget-a,u2,2024-03-01T11:30:00Z
widget-b,u1,2024-03-02T09:00:00Z
widget-a,u3,2024-03-03T23:59:59Z
`

// TestLoadEvents parses a well-formed feed and checks field mapping.
func TestLoadEvents(t *testing.T) {
	events, err := LoadEvents(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, "widget-a", events[0].Item)
	assert.Equal(t, "u1", events[0].User)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), events[0].Time)
	assert.Equal(t, "widget-b", events[2].Item)
}

// TestLoadEventsErrors covers the reject paths.
func TestLoadEventsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"wrong header", "foo,bar,baz\nwidget-a,u1,2024-03-01T10:00:00Z\n"},
		{"bad timestamp", "item_id,user_id,interaction_time\nwidget-a,u1,yesterday\n"},
		{"empty item", "item_id,user_id,interaction_time\n,u1,2024-03-01T10:00:00Z\n"},
		{"short row", "item_id,user_id,interaction_time\nwidget-a,u1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEvents(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

// TestBucketEvents verifies counting, zero-fill over the global range, and
// deterministic ordering.
func TestBucketEvents(t *testing.T) {
	events, err := LoadEvents(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	series, err := BucketEvents(events, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, series, 2)

	// Items come back sorted.
	assert.Equal(t, "widget-a", series[0].Item)
	assert.Equal(t, "widget-b", series[1].Item)

	// Global range spans Mar 1 through Mar 3, so every item has 3 buckets.
	require.Len(t, series[0].Points, 3)
	require.Len(t, series[1].Points, 3)

	// widget-a: 2 events on day 1, none on day 2, 1 on day 3.
	assert.Equal(t, int64(2), series[0].Points[0].Count)
	assert.Equal(t, int64(0), series[0].Points[1].Count)
	assert.Equal(t, int64(1), series[0].Points[2].Count)

	// widget-b: zero-filled on days 1 and 3.
	assert.Equal(t, int64(0), series[1].Points[0].Count)
	assert.Equal(t, int64(1), series[1].Points[1].Count)
	assert.Equal(t, int64(0), series[1].Points[2].Count)

	// Buckets ascend one period apart.
	for _, s := range series {
		for i := 1; i < len(s.Points); i++ {
			assert.Equal(t, 24*time.Hour, s.Points[i].Timestamp.Sub(s.Points[i-1].Timestamp))
		}
	}
}

// TestBucketEventsEdgeCases covers empty input and invalid periods.
func TestBucketEventsEdgeCases(t *testing.T) {
	t.Run("no events", func(t *testing.T) {
		series, err := BucketEvents(nil, time.Hour)
		require.NoError(t, err)
		assert.Empty(t, series)
	})

	t.Run("zero period", func(t *testing.T) {
		_, err := BucketEvents([]schema.Event{{Item: "x", Time: time.Now()}}, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrInvalidArgument)
	})

	t.Run("single event single bucket", func(t *testing.T) {
		events := []schema.Event{{Item: "solo", Time: time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC)}}
		series, err := BucketEvents(events, 24*time.Hour)
		require.NoError(t, err)
		require.Len(t, series, 1)
		require.Len(t, series[0].Points, 1)
		assert.Equal(t, int64(1), series[0].Points[0].Count)
	})
}

// TestValidateSeries checks monotonicity enforcement.
func TestValidateSeries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	good := schema.ItemSeries{Item: "ok", Points: []schema.SeriesPoint{
		{Timestamp: base}, {Timestamp: base.Add(time.Hour)}, {Timestamp: base.Add(2 * time.Hour)},
	}}
	assert.NoError(t, ValidateSeries(good))

	dup := schema.ItemSeries{Item: "dup", Points: []schema.SeriesPoint{
		{Timestamp: base}, {Timestamp: base},
	}}
	err := ValidateSeries(dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidArgument)

	backwards := schema.ItemSeries{Item: "back", Points: []schema.SeriesPoint{
		{Timestamp: base.Add(time.Hour)}, {Timestamp: base},
	}}
	assert.Error(t, ValidateSeries(backwards))

	empty := schema.ItemSeries{Item: "empty"}
	assert.NoError(t, ValidateSeries(empty))
}
