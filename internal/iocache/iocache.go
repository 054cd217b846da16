// Package iocache persists bucketed series and analysis runs across
// invocations using various database backends.
package iocache

import (
	"sync"

	"github.com/huangsam/trendspot/internal/contract"
)

// StoreManagerImpl manages the series and analysis store instances.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	series       contract.SeriesStore
	analysis     contract.AnalysisStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetSeriesStore returns the series store.
func (mgr *StoreManagerImpl) GetSeriesStore() contract.SeriesStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.series
}

// GetAnalysisStore returns the analysis store.
func (mgr *StoreManagerImpl) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
