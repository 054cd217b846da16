package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/trendspot/core"
	"github.com/huangsam/trendspot/core/stats"
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// applySharedArgs overlays the request's common evaluation arguments on a
// cloned config. The returned error covers argument validation only.
func applySharedArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	if p := request.GetString("input_file", ""); p != "" {
		cfg.InputFile = p
	}
	// Presence check, so an explicit alpha of 0 still fails validation
	// instead of silently falling back to the configured default.
	if _, ok := request.GetArguments()["alpha"]; ok {
		a := request.GetFloat("alpha", 0)
		if err := stats.ValidateAlpha(a); err != nil {
			return err
		}
		cfg.Alpha = a
	}
	if w := request.GetInt("window", -1); w >= 0 {
		cfg.WindowBuckets = w
	}
	return nil
}

func (h *toolHandler) handleGetTrendingItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applySharedArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid evaluation parameters: %v", err)), nil
	}
	if d := request.GetString("direction", ""); d != "" {
		cfg.Direction = schema.Direction(d)
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	result, err := core.GetTrendingItemsResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	enriched := struct {
		Direction schema.Direction             `json:"direction"`
		Records   []schema.EnrichedScoreRecord `json:"records"`
	}{
		Direction: result.Direction,
		Records:   schema.EnrichRecords(result.Records),
	}
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetItemScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applySharedArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid evaluation parameters: %v", err)), nil
	}

	output, err := core.GetItemScoresResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	batch := struct {
		Records      []schema.ScoreRecord `json:"records"`
		SkippedItems int                  `json:"skipped_items"`
	}{
		Records:      output.Records,
		SkippedItems: output.SkippedItems,
	}
	jsonData, _ := json.MarshalIndent(batch, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetItemTimeseries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applySharedArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid evaluation parameters: %v", err)), nil
	}
	cfg.Item = request.GetString("item", "")

	records, err := core.GetItemTimeseriesResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeseries evaluation failed: %v", err)), nil
	}

	trajectory := struct {
		Item    string               `json:"item"`
		Records []schema.ScoreRecord `json:"records"`
	}{
		Item:    cfg.Item,
		Records: records,
	}
	jsonData, _ := json.MarshalIndent(trajectory, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}
