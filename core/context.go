package core

import (
	"context"

	"github.com/huangsam/trendspot/internal/contract"
)

// Context keys for analysis options
type contextKey string

const (
	analysisIDKey   contextKey = "analysisID"
	storeManagerKey contextKey = "storeManager"
)

// withAnalysisID stores the active analysis run ID in the context so that
// worker goroutines can record per-item scores against it.
func withAnalysisID(ctx context.Context, analysisID int64) context.Context {
	return context.WithValue(ctx, analysisIDKey, analysisID)
}

// getAnalysisID returns the active analysis run ID from the context.
func getAnalysisID(ctx context.Context) (int64, bool) {
	val := ctx.Value(analysisIDKey)
	if val == nil {
		return 0, false // default: no tracking
	}
	analysisID, ok := val.(int64)
	return analysisID, ok
}

// contextWithStoreManager stores the store manager in the context for use in
// worker goroutines.
func contextWithStoreManager(ctx context.Context, mgr contract.StoreManager) context.Context {
	return context.WithValue(ctx, storeManagerKey, mgr)
}

// storeManagerFromContext returns the store manager from the context, or nil
// when none was set.
func storeManagerFromContext(ctx context.Context) contract.StoreManager {
	val := ctx.Value(storeManagerKey)
	if val == nil {
		return nil
	}
	mgr, ok := val.(contract.StoreManager)
	if !ok {
		return nil
	}
	return mgr
}
