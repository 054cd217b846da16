// Package core has core logic for analysis, scoring and ranking.
package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/trendspot/core/algo"
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/internal/ingest"
	"github.com/huangsam/trendspot/internal/outwriter"
	"github.com/huangsam/trendspot/schema"
)

// ExecutorFunc defines the function signature for executing different evaluation modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteTrendingItems runs the full evaluation, ranks the final scores and
// prints the top items. It serves as the main entry point for the 'items' mode.
func ExecuteTrendingItems(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetTrendingItemsResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteItems(*result, cfg, duration)
}

// GetTrendingItemsResult runs the full evaluation and returns the ranked
// top-N records without printing them. Used by the MCP server.
func GetTrendingItemsResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.TrendingResult, error) {
	output, err := runTrendAnalysis(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	ranked, err := algo.Rank(output.Records, cfg.ResultLimit, cfg.Direction)
	if err != nil {
		return nil, err
	}
	return &schema.TrendingResult{Direction: cfg.Direction, Records: ranked}, nil
}

// ExecuteTrendingScores runs the full evaluation and prints every item's
// final score unranked. It serves as the main entry point for the 'scores' mode.
func ExecuteTrendingScores(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	output, err := GetItemScoresResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteScores(*output, cfg, duration)
}

// GetItemScoresResult runs the full evaluation and returns the unranked batch
// output without printing it. Used by the MCP server.
func GetItemScoresResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.TrendAnalysisOutput, error) {
	output, err := runTrendAnalysis(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return &output, nil
}

// ExecuteItemTimeseries scores one item's entire series and prints the
// per-bucket trajectory. It serves as the main entry point for the
// 'timeseries' mode.
func ExecuteItemTimeseries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	records, err := GetItemTimeseriesResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteTimeseries(cfg.Item, records, cfg, duration)
}

// GetItemTimeseriesResult scores one item's series and returns the
// per-bucket trajectory without printing it. Used by the MCP server.
func GetItemTimeseriesResult(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.ScoreRecord, error) {
	if cfg.Item == "" {
		return nil, fmt.Errorf("%w: --item is required", schema.ErrInvalidArgument)
	}

	series, err := loadItemSeries(cfg, mgr)
	if err != nil {
		return nil, err
	}
	return scoreSeries(cfg.Alpha, series, cfg.WindowBuckets)
}

// ExecuteIngest reads raw events, buckets them and persists the resulting
// series so later evaluations can run without the input file.
func ExecuteIngest(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	if cfg.InputFile == "" {
		return errors.New("an input file is required for ingest")
	}
	store := mgr.GetSeriesStore()
	if store == nil {
		return errors.New("a series backend is required for ingest")
	}

	f, err := os.Open(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	events, err := ingest.LoadEvents(f)
	if err != nil {
		return err
	}
	series, err := ingest.BucketEvents(events, cfg.Period)
	if err != nil {
		return err
	}
	for _, s := range series {
		if err := store.UpsertSeries(s); err != nil {
			return fmt.Errorf("persist series for %s: %w", s.Item, err)
		}
	}

	duration := time.Since(start)
	fmt.Printf("Ingested %d events into %d item series in %v. Series backend: %s\n",
		len(events), len(series), duration, cfg.SeriesBackend)
	return nil
}

// loadItemSeries resolves one item's series: from the input file when one was
// given, otherwise directly from the configured series store.
func loadItemSeries(cfg *contract.Config, mgr contract.StoreManager) (schema.ItemSeries, error) {
	if cfg.InputFile != "" {
		all, err := loadSeriesFromFile(cfg.InputFile, cfg.Period)
		if err != nil {
			return schema.ItemSeries{}, err
		}
		for _, s := range all {
			if s.Item == cfg.Item {
				return s, nil
			}
		}
		return schema.ItemSeries{}, fmt.Errorf("item %q not found in input", cfg.Item)
	}

	store := mgr.GetSeriesStore()
	if store == nil {
		return schema.ItemSeries{}, errors.New("no input file given and no series backend configured")
	}
	series, err := store.GetSeries(cfg.Item)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.ItemSeries{}, fmt.Errorf("item %q not found in series store", cfg.Item)
	}
	if err != nil {
		return schema.ItemSeries{}, err
	}
	return series, nil
}
