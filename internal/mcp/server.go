// Package mcp exposes the stats store as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pable/hoopstats/internal/model"
)

// Store is the read side of storage the tools query.
type Store interface {
	SearchPlayers(ctx context.Context, q string, activeOnly bool, limit int) ([]model.Player, error)
	GameLogs(ctx context.Context, playerID int64, season string, lastN int) ([]model.GameLog, error)
	SeasonGameLogs(ctx context.Context, playerID int64, season string) ([]model.GameLog, error)
	RollingAverages(ctx context.Context, playerID int64, season string, window int) ([]model.RollingAverage, error)
}

// NewServer configures the MCP server without starting it.
func NewServer(store Store, defaultSeason, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"hoopstats",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{store: store, season: defaultSeason}

	s.AddTool(mcp.NewTool("search_players",
		mcp.WithDescription("Find NBA players by name. Returns player ids for the other tools."),
		mcp.WithString("query", mcp.Description("Part of the player's name."), mcp.Required()),
		mcp.WithBoolean("active_only", mcp.Description("Only return active players. Defaults to true.")),
		mcp.WithNumber("limit", mcp.Description("Maximum results. Defaults to 10.")),
	), h.handleSearchPlayers)

	s.AddTool(mcp.NewTool("get_rolling_averages",
		mcp.WithDescription("Trailing-window averages of points, rebounds, assists, true shooting and plus-minus, oldest game first."),
		mcp.WithNumber("player_id", mcp.Description("Player id from search_players."), mcp.Required()),
		mcp.WithString("season", mcp.Description("Season such as 2024-25.")),
		mcp.WithNumber("window", mcp.Description("Window size in games. Defaults to 10.")),
	), h.handleRollingAverages)

	s.AddTool(mcp.NewTool("get_trends",
		mcp.WithDescription("Last five games compared to the season average."),
		mcp.WithNumber("player_id", mcp.Description("Player id from search_players."), mcp.Required()),
		mcp.WithString("season", mcp.Description("Season such as 2024-25.")),
	), h.handleTrends)

	s.AddTool(mcp.NewTool("get_game_logs",
		mcp.WithDescription("Per-game box scores, newest first."),
		mcp.WithNumber("player_id", mcp.Description("Player id from search_players."), mcp.Required()),
		mcp.WithString("season", mcp.Description("Season such as 2024-25.")),
		mcp.WithNumber("last_n", mcp.Description("Number of games. Defaults to 20.")),
	), h.handleGameLogs)

	return s
}

// Serve runs the MCP server over stdio.
func Serve(_ context.Context, store Store, defaultSeason, version string) error {
	return server.ServeStdio(NewServer(store, defaultSeason, version))
}
