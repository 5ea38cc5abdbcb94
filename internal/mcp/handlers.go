package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pable/hoopstats/internal/aggregator"
	"github.com/pable/hoopstats/internal/model"
)

type toolHandler struct {
	store  Store
	season string
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func (h *toolHandler) seasonArg(req mcp.CallToolRequest) (string, error) {
	season := req.GetString("season", h.season)
	return season, model.ValidateSeason(season)
}

func playerIDArg(req mcp.CallToolRequest) (int64, error) {
	id := req.GetInt("player_id", 0)
	if id <= 0 {
		return 0, fmt.Errorf("player_id is required")
	}
	return int64(id), nil
}

func (h *toolHandler) handleSearchPlayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := req.GetString("query", "")
	if len(q) < 2 {
		return mcp.NewToolResultError("query must be at least 2 characters"), nil
	}
	players, err := h.store.SearchPlayers(ctx, q, req.GetBool("active_only", true), req.GetInt("limit", 10))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(players), nil
}

func (h *toolHandler) handleRollingAverages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := playerIDArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	season, err := h.seasonArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	window := req.GetInt("window", 10)
	if window <= 0 {
		return mcp.NewToolResultError("window must be at least 1"), nil
	}

	rows, err := h.store.RollingAverages(ctx, id, season, window)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(rows), nil
}

func (h *toolHandler) handleTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := playerIDArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	season, err := h.seasonArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logs, err := h.store.SeasonGameLogs(ctx, id, season)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	if len(logs) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no game logs for player %d in %s", id, season)), nil
	}
	return jsonResult(aggregator.Trends(logs)), nil
}

func (h *toolHandler) handleGameLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := playerIDArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	season, err := h.seasonArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logs, err := h.store.GameLogs(ctx, id, season, req.GetInt("last_n", 20))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(logs), nil
}
