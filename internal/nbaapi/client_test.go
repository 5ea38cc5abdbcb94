package nbaapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithRequestDelay(0))
}

func writeSets(t *testing.T, w http.ResponseWriter, sets ...resultSet) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(response{ResultSets: sets}))
}

func TestTeams(t *testing.T) {
	teams, err := NewClient().Teams()
	require.NoError(t, err)
	require.Len(t, teams, 30)

	seen := map[int64]bool{}
	for _, tm := range teams {
		assert.GreaterOrEqual(t, tm.ID, int64(1610612737))
		assert.LessOrEqual(t, tm.ID, int64(1610612766))
		assert.Contains(t, []string{"East", "West"}, tm.Conference)
		assert.NotEmpty(t, tm.Abbreviation)
		seen[tm.ID] = true
	}
	assert.Len(t, seen, 30)
}

func TestGameLogs(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playergamelogs", r.URL.Path)
		assert.Equal(t, "2544", r.URL.Query().Get("PlayerID"))
		assert.Equal(t, "2024-25", r.URL.Query().Get("Season"))
		assert.Equal(t, "Regular Season", r.URL.Query().Get("SeasonType"))
		assert.Equal(t, "https://www.nba.com/", r.Header.Get("Referer"))
		writeSets(t, w, resultSet{
			Name:    "PlayerGameLogs",
			Headers: []string{"GAME_ID", "GAME_DATE", "MATCHUP", "WL", "MIN", "PTS", "REB", "AST", "FGA", "FG_PCT", "FG3_PCT", "FTA", "PLUS_MINUS"},
			RowSet: [][]any{
				{"0022400061", "2024-10-22T00:00:00", "LAL vs. MIN", "W", 34.5, 16.0, 5.0, 4.0, 13.0, 0.462, nil, 2.0, 8.0},
				{"0022400078", "2024-10-25T00:00:00", "LAL vs. PHX", "W", "36:30", 21.0, 8.0, 12.0, 17.0, 0.529, 0.333, 4.0, -3.0},
			},
		})
	})

	logs, err := c.GameLogs(context.Background(), 2544, "2024-25")
	require.NoError(t, err)
	require.Len(t, logs, 2)

	g := logs[0]
	assert.Equal(t, int64(2544), g.PlayerID)
	assert.Equal(t, "0022400061", g.GameID)
	assert.Equal(t, "2024-10-22", g.GameDate)
	assert.Equal(t, "2024-25", g.Season)
	assert.InDelta(t, 34.5, g.Minutes, 1e-9)
	assert.InDelta(t, 16.0, g.Points, 1e-9)
	require.NotNil(t, g.FGPct)
	assert.InDelta(t, 0.462, *g.FGPct, 1e-9)
	assert.Nil(t, g.FG3Pct)
	assert.Nil(t, g.FTPct, "missing columns are null")

	assert.InDelta(t, 36.5, logs[1].Minutes, 1e-9)
	assert.InDelta(t, -3.0, logs[1].PlusMinus, 1e-9)
}

func TestPlayersActiveOnly(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("IsOnlyCurrentSeason"))
		writeSets(t, w, resultSet{
			Name:    "CommonAllPlayers",
			Headers: []string{"PERSON_ID", "DISPLAY_FIRST_LAST", "ROSTERSTATUS", "TEAM_ID", "TEAM_ABBREVIATION"},
			RowSet: [][]any{
				{2544.0, "LeBron James", 1.0, 1610612747.0, "LAL"},
				{977.0, "Kobe Bryant", 0.0, 0.0, ""},
			},
		})
	})

	players, err := c.Players(context.Background(), "2024-25", true)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "LeBron James", players[0].FullName)
	require.NotNil(t, players[0].TeamID)
	assert.Equal(t, int64(1610612747), *players[0].TeamID)
	assert.True(t, players[0].IsActive)
}

func TestLeagueAdvancedStats(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Advanced", r.URL.Query().Get("MeasureType"))
		writeSets(t, w, resultSet{
			Name:    "LeagueDashPlayerStats",
			Headers: []string{"PLAYER_ID", "GP", "PIE", "TS_PCT", "USG_PCT", "AST_PCT", "REB_PCT", "TM_TOV_PCT"},
			RowSet:  [][]any{{203999.0, 70.0, 0.2, 0.65, 0.29, 0.45, 0.2, 14.1}},
		})
	})

	stats, err := c.LeagueAdvancedStats(context.Background(), "2024-25")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	s := stats[0]
	assert.Equal(t, int64(203999), s.PlayerID)
	assert.Equal(t, 70, s.GP)
	require.NotNil(t, s.PER)
	assert.InDelta(t, 0.2, *s.PER, 1e-9)
	assert.Nil(t, s.BPM)
	assert.Nil(t, s.VORP)
}

func TestShotChart(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shotchartdetail", r.URL.Path)
		writeSets(t, w,
			resultSet{
				Name:    "Shot_Chart_Detail",
				Headers: []string{"GAME_ID", "GAME_DATE", "SHOT_ZONE_AREA", "SHOT_ZONE_BASIC", "SHOT_DISTANCE", "LOC_X", "LOC_Y", "SHOT_MADE_FLAG", "SHOT_TYPE", "ACTION_TYPE"},
				RowSet:  [][]any{{"0022400061", "20241022", "Center(C)", "Restricted Area", 1.0, -5.0, 10.0, 1.0, "2PT Field Goal", "Driving Layup Shot"}},
			},
			resultSet{Name: "LeagueAverages", Headers: []string{"GRID_TYPE"}},
		)
	})

	shots, err := c.ShotChart(context.Background(), 2544, "2024-25")
	require.NoError(t, err)
	require.Len(t, shots, 1)
	assert.Equal(t, "2024-10-22", shots[0].GameDate)
	assert.True(t, shots[0].Made)
	assert.Equal(t, -5, shots[0].LocX)
	assert.Equal(t, "Restricted Area", shots[0].ShotZoneBasic)
}

func TestNon200IsErrorWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	var observed []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithBaseURL(srv.URL), WithRequestDelay(0), WithObserver(func(endpoint string, status int, _ time.Duration) {
		assert.Equal(t, "playergamelogs", endpoint)
		observed = append(observed, status)
	}))
	_, err := c.GameLogs(context.Background(), 1, "2024-25")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []int{http.StatusTooManyRequests}, observed)
}

func TestRequestDelayHonoursContext(t *testing.T) {
	c := NewClient(WithBaseURL("http://127.0.0.1:1"), WithRequestDelay(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GameLogs(ctx, 1, "2024-25")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMissingResultSet(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeSets(t, w, resultSet{Name: "Other"})
	})
	_, err := c.Players(context.Background(), "2024-25", false)
	assert.Error(t, err)
}
