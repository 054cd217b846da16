package iocache

import (
	"time"

	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSeriesStore implements the StoreManager interface.
func (m *MockStoreManager) GetSeriesStore() contract.SeriesStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SeriesStore)
	return store
}

// GetAnalysisStore implements the StoreManager interface.
func (m *MockStoreManager) GetAnalysisStore() contract.AnalysisStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AnalysisStore)
	return store
}

// MockSeriesStore is a mock implementation of SeriesStore for testing.
type MockSeriesStore struct {
	mock.Mock
}

var _ contract.SeriesStore = &MockSeriesStore{} // Compile-time check

// UpsertSeries implements the SeriesStore interface.
func (m *MockSeriesStore) UpsertSeries(series schema.ItemSeries) error {
	args := m.Called(series)
	return args.Error(0)
}

// GetSeries implements the SeriesStore interface.
func (m *MockSeriesStore) GetSeries(item string) (schema.ItemSeries, error) {
	args := m.Called(item)
	return args.Get(0).(schema.ItemSeries), args.Error(1)
}

// GetAllSeries implements the SeriesStore interface.
func (m *MockSeriesStore) GetAllSeries() ([]schema.ItemSeries, error) {
	args := m.Called()
	series, _ := args.Get(0).([]schema.ItemSeries)
	return series, args.Error(1)
}

// GetStatus implements the SeriesStore interface.
func (m *MockSeriesStore) GetStatus() (schema.SeriesStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SeriesStatus), args.Error(1)
}

// Close implements the SeriesStore interface.
func (m *MockSeriesStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAnalysisStore is a mock implementation of AnalysisStore for testing.
type MockAnalysisStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check

// BeginAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) EndAnalysis(analysisID int64, endTime time.Time, totalItems int) error {
	args := m.Called(analysisID, endTime, totalItems)
	return args.Error(0)
}

// RecordItemScore implements the AnalysisStore interface.
func (m *MockAnalysisStore) RecordItemScore(analysisID int64, record schema.ScoreRecord) error {
	args := m.Called(analysisID, record)
	return args.Error(0)
}

// GetAllAnalysisRuns implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.AnalysisRunRecord)
	return runs, args.Error(1)
}

// GetAllItemScores implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllItemScores() ([]schema.ItemScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.ItemScoreRecord)
	return scores, args.Error(1)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AnalysisStatus), args.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockAnalysisStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
