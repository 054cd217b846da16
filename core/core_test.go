package core

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/huangsam/trendspot/internal/iocache"
	"github.com/huangsam/trendspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetTrendingItemsResult(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()
	cfg.ResultLimit = 1
	cfg.InputFile = writeEventsCSV(t, sampleEventsCSV)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSeriesStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(nil)

	result, err := GetTrendingItemsResult(ctx, cfg, mgr)
	require.NoError(t, err)
	assert.Equal(t, schema.RisingDirection, result.Direction)
	require.Len(t, result.Records, 1)

	// widget-b goes 0 -> 1 -> 0 while widget-a goes 2 -> 0 -> 1, so the
	// final-point z of widget-a is the higher of the two.
	assert.Equal(t, "widget-a", result.Records[0].Item)
}

func TestGetTrendingItemsResultInvalidLimit(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()
	cfg.ResultLimit = 0
	cfg.InputFile = writeEventsCSV(t, sampleEventsCSV)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSeriesStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(nil)

	_, err := GetTrendingItemsResult(ctx, cfg, mgr)
	assert.ErrorIs(t, err, schema.ErrInvalidArgument)
}

func TestGetItemScoresResult(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()
	cfg.InputFile = writeEventsCSV(t, sampleEventsCSV)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSeriesStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(nil)

	output, err := GetItemScoresResult(ctx, cfg, mgr)
	require.NoError(t, err)
	assert.Len(t, output.Records, 2)
	assert.Len(t, output.Trajectories, 2)
}

func TestGetItemTimeseriesResult(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()
	cfg.Item = "widget-a"

	seriesStore := &iocache.MockSeriesStore{}
	seriesStore.On("GetSeries", "widget-a").Return(testSeries("widget-a", 10, 10, 20), nil)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSeriesStore").Return(seriesStore)

	records, err := GetItemTimeseriesResult(ctx, cfg, mgr)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "widget-a", records[0].Item)
	seriesStore.AssertExpectations(t)
}

func TestGetItemTimeseriesResultRequiresItem(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()

	mgr := &iocache.MockStoreManager{}

	_, err := GetItemTimeseriesResult(ctx, cfg, mgr)
	assert.ErrorIs(t, err, schema.ErrInvalidArgument)
}

func TestGetItemTimeseriesResultUnknownItem(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()
	cfg.Item = "nope"

	seriesStore := &iocache.MockSeriesStore{}
	seriesStore.On("GetSeries", "nope").Return(schema.ItemSeries{}, sql.ErrNoRows)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSeriesStore").Return(seriesStore)

	_, err := GetItemTimeseriesResult(ctx, cfg, mgr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetItemTimeseriesResultFromFile(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()
	cfg.Item = "widget-b"
	cfg.InputFile = writeEventsCSV(t, sampleEventsCSV)

	mgr := &iocache.MockStoreManager{}

	records, err := GetItemTimeseriesResult(ctx, cfg, mgr)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1.0, records[1].Count)
}

func TestExecuteIngest(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()
	cfg.InputFile = writeEventsCSV(t, sampleEventsCSV)
	cfg.SeriesBackend = schema.SQLiteBackend

	seriesStore := &iocache.MockSeriesStore{}
	seriesStore.On("UpsertSeries", mock.Anything).Return(nil).Twice()

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSeriesStore").Return(seriesStore)

	err := ExecuteIngest(ctx, cfg, mgr)
	require.NoError(t, err)
	seriesStore.AssertExpectations(t)
}

func TestExecuteIngestRequiresInputFile(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()

	mgr := &iocache.MockStoreManager{}

	err := ExecuteIngest(ctx, cfg, mgr)
	assert.Error(t, err)
}

func TestExecuteIngestRequiresSeriesBackend(t *testing.T) {
	ctx := context.Background()
	cfg := testAnalysisConfig()
	cfg.InputFile = writeEventsCSV(t, sampleEventsCSV)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSeriesStore").Return(nil)

	err := ExecuteIngest(ctx, cfg, mgr)
	assert.Error(t, err)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	_, ok := getAnalysisID(ctx)
	assert.False(t, ok)
	assert.Nil(t, storeManagerFromContext(ctx))

	mgr := &iocache.MockStoreManager{}
	ctx = contextWithStoreManager(ctx, mgr)
	ctx = withAnalysisID(ctx, 42)

	id, ok := getAnalysisID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, mgr, storeManagerFromContext(ctx))

	// Context deadlines still flow through the derived context.
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	id, ok = getAnalysisID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}
