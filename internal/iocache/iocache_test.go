package iocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/trendspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStoreManagerGetters verifies the manager hands back assigned stores.
func TestStoreManagerGetters(t *testing.T) {
	mgr := &StoreManagerImpl{}
	assert.Nil(t, mgr.GetSeriesStore())
	assert.Nil(t, mgr.GetAnalysisStore())

	series := &MockSeriesStore{}
	analysis := &MockAnalysisStore{}
	mgr.series = series
	mgr.analysis = analysis

	assert.Equal(t, series, mgr.GetSeriesStore())
	assert.Equal(t, analysis, mgr.GetAnalysisStore())
}

// TestClearSeriesSQLite verifies the database file is removed.
func TestClearSeriesSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "series.db")
	store, err := NewSeriesStore(seriesTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	require.NoError(t, ClearSeries(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing again is not an error.
	assert.NoError(t, ClearSeries(schema.SQLiteBackend, dbPath, ""))
}

// TestClearSeriesValidation covers bad inputs.
func TestClearSeriesValidation(t *testing.T) {
	assert.Error(t, ClearSeries(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearSeries(schema.NoneBackend, "", ""))
	assert.Error(t, ClearSeries(schema.DatabaseBackend("oracle"), "x", ""))
}

// TestClearAnalysisValidation covers bad inputs.
func TestClearAnalysisValidation(t *testing.T) {
	assert.Error(t, ClearAnalysis(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearAnalysis(schema.NoneBackend, "", ""))

	dbPath := filepath.Join(t.TempDir(), "analysis.db")
	store, err := NewAnalysisStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.NoError(t, ClearAnalysis(schema.SQLiteBackend, dbPath, ""))
}
