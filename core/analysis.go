package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/huangsam/trendspot/core/stats"
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/internal/ingest"
	"github.com/huangsam/trendspot/schema"
)

// itemOutcome carries the result of scoring one item's series, or the error
// that made the item unscoreable.
type itemOutcome struct {
	item       string
	record     schema.ScoreRecord
	trajectory []schema.ScoreRecord
	err        error
}

// runTrendAnalysis performs the common Loading, Scoring, and Tracking steps.
func runTrendAnalysis(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.TrendAnalysisOutput, error) {
	var output schema.TrendAnalysisOutput

	// Add store manager to context for use in worker goroutines
	ctx = contextWithStoreManager(ctx, mgr)

	// --- 1. Loading Phase ---
	series, err := loadSeries(cfg, mgr)
	if err != nil {
		return output, err
	}
	if len(series) == 0 {
		return output, errors.New("no item series found")
	}

	// Persist freshly bucketed series so later runs can read from the store.
	if cfg.InputFile != "" {
		persistSeries(mgr, series)
	}

	// --- 2. Begin Analysis Tracking (if configured) ---
	var analysisID int64
	analysisStore := mgr.GetAnalysisStore()
	if analysisStore != nil {
		startTime := time.Now()
		configParams := map[string]any{
			"alpha":        cfg.Alpha,
			"direction":    string(cfg.Direction),
			"period":       cfg.Period.String(),
			"window":       cfg.WindowBuckets,
			"workers":      cfg.Workers,
			"result_limit": cfg.ResultLimit,
		}
		analysisID, err = analysisStore.BeginAnalysis(startTime, configParams)
		if err != nil {
			contract.LogWarn("Analysis tracking initialization failed", err)
		} else if analysisID > 0 {
			// Add analysis ID to context for use in item scoring
			ctx = withAnalysisID(ctx, analysisID)
		}
	}

	// --- 3. Core Scoring ---
	output = scoreAllItems(ctx, cfg, series)

	// --- 4. End Analysis Tracking ---
	if analysisStore != nil && analysisID > 0 {
		endTime := time.Now()
		if err := analysisStore.EndAnalysis(analysisID, endTime, len(output.Records)); err != nil {
			contract.LogWarn("Failed to finalize analysis tracking", err)
		}
	}

	return output, nil
}

// scoreAllItems processes all item series in parallel using a worker pool.
// It spawns cfg.Workers goroutines, each replaying whole series so that one
// item's points are always applied in order by a single goroutine.
func scoreAllItems(ctx context.Context, cfg *contract.Config, series []schema.ItemSeries) schema.TrendAnalysisOutput {
	// Initialize channels based on the final number of items to be processed.
	seriesCh := make(chan schema.ItemSeries, len(series))
	outcomeCh := make(chan itemOutcome, len(series))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for s := range seriesCh {
				outcomeCh <- scoreItem(ctx, cfg, s)
			}
		})
	}

	// Send series to worker channel
	for _, s := range series {
		seriesCh <- s
	}
	close(seriesCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(outcomeCh)

	output := schema.TrendAnalysisOutput{
		Trajectories: make(map[string][]schema.ScoreRecord, len(series)),
	}
	for oc := range outcomeCh {
		if oc.err != nil {
			// A malformed series skips the item, never the batch.
			contract.LogWarn(fmt.Sprintf("Skipping item %s", oc.item), oc.err)
			output.SkippedItems++
			continue
		}
		output.Records = append(output.Records, oc.record)
		output.Trajectories[oc.item] = oc.trajectory
	}

	// Workers deliver in completion order. Sort by item so that ranking sees
	// a deterministic input and ties break the same way on every run.
	sort.Slice(output.Records, func(i, j int) bool {
		return output.Records[i].Item < output.Records[j].Item
	})

	return output
}

// scoreItem replays one item's series through the decayed statistics tracker
// and returns the final-point record plus the full trajectory.
func scoreItem(ctx context.Context, cfg *contract.Config, series schema.ItemSeries) itemOutcome {
	trajectory, err := scoreSeries(cfg.Alpha, series, cfg.WindowBuckets)
	if err != nil {
		return itemOutcome{item: series.Item, err: err}
	}
	if len(trajectory) == 0 {
		return itemOutcome{item: series.Item, err: errors.New("series has no points")}
	}

	final := trajectory[len(trajectory)-1]

	// Record the final score to the database (if analysis tracking is enabled)
	if analysisID, ok := getAnalysisID(ctx); ok && analysisID > 0 {
		recordItemScore(ctx, analysisID, final)
	}

	return itemOutcome{item: series.Item, record: final, trajectory: trajectory}
}

// scoreSeries replays a series point by point. Each point is scored against
// the decayed statistics from just before it was absorbed, so a score never
// reflects the point it judges.
func scoreSeries(alpha float64, series schema.ItemSeries, windowBuckets int) ([]schema.ScoreRecord, error) {
	if err := ingest.ValidateSeries(series); err != nil {
		return nil, err
	}

	points := series.Points
	if windowBuckets > 0 && len(points) > windowBuckets {
		points = points[len(points)-windowBuckets:]
	}

	var d stats.DecayStats
	records := make([]schema.ScoreRecord, 0, len(points))
	for i, p := range points {
		prior := d.Observe(alpha, p.Count)
		z := stats.Score(p.Count, prior)
		records = append(records, schema.ScoreRecord{
			Item:      series.Item,
			Timestamp: p.Timestamp,
			Count:     p.Count,
			Z:         z.Value,
			Valid:     z.Valid,
			Mean:      prior.Mean,
			StdDev:    prior.StdDev(),
			Buckets:   i + 1,
		})
	}
	return records, nil
}

// recordItemScore records one item's final score to the database.
func recordItemScore(ctx context.Context, analysisID int64, record schema.ScoreRecord) {
	// Get the store manager from context
	mgr := storeManagerFromContext(ctx)
	if mgr == nil {
		return
	}

	analysisStore := mgr.GetAnalysisStore()
	if analysisStore == nil {
		return
	}

	if err := analysisStore.RecordItemScore(analysisID, record); err != nil {
		contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s", record.Item), err)
	}
}

// loadSeries resolves the batch of item series for an evaluation: from the
// input file when one was given, otherwise from the configured series store.
func loadSeries(cfg *contract.Config, mgr contract.StoreManager) ([]schema.ItemSeries, error) {
	if cfg.InputFile != "" {
		return loadSeriesFromFile(cfg.InputFile, cfg.Period)
	}

	store := mgr.GetSeriesStore()
	if store == nil {
		return nil, errors.New("no input file given and no series backend configured")
	}
	return store.GetAllSeries()
}

// loadSeriesFromFile reads raw events from a CSV file and buckets them.
func loadSeriesFromFile(path string, period time.Duration) ([]schema.ItemSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	events, err := ingest.LoadEvents(f)
	if err != nil {
		return nil, err
	}
	return ingest.BucketEvents(events, period)
}

// persistSeries writes bucketed series to the series store. Persistence is
// best effort during evaluation; a storage failure never fails the run.
func persistSeries(mgr contract.StoreManager, series []schema.ItemSeries) {
	store := mgr.GetSeriesStore()
	if store == nil {
		return
	}
	for _, s := range series {
		if err := store.UpsertSeries(s); err != nil {
			contract.LogWarn(fmt.Sprintf("Series persistence failed for %s", s.Item), err)
		}
	}
}
