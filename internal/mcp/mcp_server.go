// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/trendspot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Trendspot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Trendspot Evaluation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_trending_items ---
	s.AddTool(mcp.NewTool("get_trending_items",
		mcp.WithDescription("Rank items by how abnormal their latest activity is relative to their own decayed baseline."),
		mcp.WithString("input_file", mcp.Description("Path to a raw events CSV (defaults to the persisted series store).")),
		mcp.WithString("direction", mcp.Description("Trend direction. Defaults to 'rising'."), mcp.Enum("rising", "falling")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		mcp.WithNumber("alpha", mcp.Description("Decay factor in (0, 1]: weight of the newest observation.")),
		mcp.WithNumber("window", mcp.Description("Keep only the last N buckets per item (0 = all history).")),
	), h.handleGetTrendingItems)

	// --- 2. Tool: get_item_scores ---
	s.AddTool(mcp.NewTool("get_item_scores",
		mcp.WithDescription("Evaluate every item and return all final scores unranked, including unscoreable items."),
		mcp.WithString("input_file", mcp.Description("Path to a raw events CSV (defaults to the persisted series store).")),
		mcp.WithNumber("alpha", mcp.Description("Decay factor in (0, 1].")),
		mcp.WithNumber("window", mcp.Description("Keep only the last N buckets per item (0 = all history).")),
	), h.handleGetItemScores)

	// --- 3. Tool: get_item_timeseries ---
	s.AddTool(mcp.NewTool("get_item_timeseries",
		mcp.WithDescription("Return one item's per-bucket score trajectory against its decayed statistics."),
		mcp.WithString("item", mcp.Description("The item whose trajectory to return."), mcp.Required()),
		mcp.WithString("input_file", mcp.Description("Path to a raw events CSV (defaults to the persisted series store).")),
		mcp.WithNumber("alpha", mcp.Description("Decay factor in (0, 1].")),
		mcp.WithNumber("window", mcp.Description("Keep only the last N buckets per item (0 = all history).")),
	), h.handleGetItemTimeseries)

	return s
}

// StartMCPServer starts the Trendspot MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
