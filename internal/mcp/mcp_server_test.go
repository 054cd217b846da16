package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/internal/iocache"
	mcp_internal "github.com/huangsam/trendspot/internal/mcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEventsCSV = `item_id,user_id,interaction_time
widget-a,u1,2024-03-01T10:00:00Z
widget-a,u2,2024-03-02T11:00:00Z
widget-a,u3,2024-03-03T08:00:00Z
widget-b,u1,2024-03-02T09:00:00Z
`

func writeEventsCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleEventsCSV), 0o644))
	return path
}

func testBaseConfig() *contract.Config {
	return &contract.Config{
		Alpha:       contract.DefaultAlpha,
		Direction:   "rising",
		ResultLimit: contract.DefaultResultLimit,
		Workers:     2,
		Period:      24 * time.Hour,
	}
}

func testStoreManager() *iocache.MockStoreManager {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSeriesStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(nil)
	return mgr
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(testBaseConfig(), testStoreManager())
	ctx := context.Background()

	t.Run("get_item_timeseries missing item", func(t *testing.T) {
		tool := s.GetTool("get_item_timeseries")
		require.NotNil(t, tool, "Tool get_item_timeseries should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_item_timeseries",
				Arguments: map[string]any{
					"item": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "--item is required")
	})

	t.Run("get_trending_items invalid alpha", func(t *testing.T) {
		tool := s.GetTool("get_trending_items")
		require.NotNil(t, tool, "Tool get_trending_items should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_trending_items",
				Arguments: map[string]any{
					"alpha": 1.5, // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "decay factor")
	})

	t.Run("get_trending_items zero alpha", func(t *testing.T) {
		tool := s.GetTool("get_trending_items")
		require.NotNil(t, tool)

		// An explicit zero must fail validation, not fall back to the default
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_trending_items",
				Arguments: map[string]any{
					"alpha": 0.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "decay factor")
	})

	t.Run("get_trending_items no series", func(t *testing.T) {
		tool := s.GetTool("get_trending_items")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_trending_items",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "No input file and no series store should fail")
	})
}

func TestMCPServerHandlers_Results(t *testing.T) {
	s := mcp_internal.NewMCPServer(testBaseConfig(), testStoreManager())
	ctx := context.Background()
	eventsFile := writeEventsCSV(t)

	t.Run("get_trending_items ranks from input file", func(t *testing.T) {
		tool := s.GetTool("get_trending_items")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_trending_items",
				Arguments: map[string]any{
					"input_file": eventsFile,
					"limit":      1.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var decoded struct {
			Direction string `json:"direction"`
			Records   []struct {
				Rank int    `json:"rank"`
				Item string `json:"item"`
			} `json:"records"`
		}
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &decoded))
		assert.Equal(t, "rising", decoded.Direction)
		require.Len(t, decoded.Records, 1)
		assert.Equal(t, 1, decoded.Records[0].Rank)
	})

	t.Run("get_item_timeseries returns trajectory", func(t *testing.T) {
		tool := s.GetTool("get_item_timeseries")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_item_timeseries",
				Arguments: map[string]any{
					"item":       "widget-a",
					"input_file": eventsFile,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var decoded struct {
			Item    string `json:"item"`
			Records []struct {
				Count float64 `json:"count"`
			} `json:"records"`
		}
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &decoded))
		assert.Equal(t, "widget-a", decoded.Item)
		assert.Len(t, decoded.Records, 3)
	})

	t.Run("get_item_scores returns full batch", func(t *testing.T) {
		tool := s.GetTool("get_item_scores")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_item_scores",
				Arguments: map[string]any{
					"input_file": eventsFile,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var decoded struct {
			Records      []json.RawMessage `json:"records"`
			SkippedItems int               `json:"skipped_items"`
		}
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &decoded))
		assert.Len(t, decoded.Records, 2)
		assert.Equal(t, 0, decoded.SkippedItems)
	})
}
