package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pable/hoopstats/internal/insight"
	"github.com/pable/hoopstats/internal/metrics"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

// MockInsights is a mock implementation of Insights for testing.
type MockInsights struct {
	mock.Mock
}

var _ Insights = &MockInsights{} // Compile-time check

func (m *MockInsights) Generate(ctx context.Context, req insight.Request) (insight.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(insight.Result), args.Error(1)
}

// MockVideos is a mock implementation of VideoSearcher for testing.
type MockVideos struct {
	mock.Mock
}

var _ VideoSearcher = &MockVideos{} // Compile-time check

func (m *MockVideos) Search(ctx context.Context, query string, maxResults int) ([]model.Video, error) {
	args := m.Called(ctx, query, maxResults)
	videos, _ := args.Get(0).([]model.Video)
	return videos, args.Error(1)
}

const season = "2024-25"

func ptr(f float64) *float64 { return &f }

func seed(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.UpsertPlayers(ctx, []model.Player{
		{ID: 2544, FullName: "LeBron James", TeamAbbr: "LAL", Position: "F", IsActive: true},
		{ID: 203999, FullName: "Nikola Jokic", TeamAbbr: "DEN", Position: "C", IsActive: true},
		{ID: 977, FullName: "Kobe Bryant", TeamAbbr: "LAL", Position: "G"},
	}))
	var logs []model.GameLog
	for i, pts := range []float64{20, 22, 18, 30, 25, 27, 35, 12} {
		logs = append(logs, model.GameLog{
			PlayerID: 2544, GameID: fmt.Sprintf("g%d", i), GameDate: fmt.Sprintf("2024-11-%02d", i+1),
			Season: season, Points: pts, FGPct: ptr(0.5),
		})
	}
	require.NoError(t, db.UpsertGameLogs(ctx, logs))
	require.NoError(t, db.ReplaceRollingAverages(ctx, 2544, season, []model.RollingAverage{
		{PlayerID: 2544, GameDate: "2024-11-01", Season: season, WindowSize: 10, PointsAvg: 20},
		{PlayerID: 2544, GameDate: "2024-11-02", Season: season, WindowSize: 10, PointsAvg: 21},
	}))
	require.NoError(t, db.ReplaceShotChart(ctx, 2544, season, []model.Shot{
		{GameID: "g0", ShotZone: "Center(C)", ShotZoneBasic: "Restricted Area", Made: true},
		{GameID: "g0", ShotZone: "Center(C)", ShotZoneBasic: "Restricted Area"},
		{GameID: "g0", ShotZone: "Left Side(L)", ShotZoneBasic: "Mid-Range", Made: true},
	}))
	return db
}

type testServer struct {
	srv      *Server
	insights *MockInsights
	videos   *MockVideos
	metrics  *metrics.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ts := &testServer{insights: &MockInsights{}, videos: &MockVideos{}, metrics: metrics.NewManager()}
	ts.srv = New(Deps{
		Store:         seed(t),
		Insights:      ts.insights,
		Videos:        ts.videos,
		Metrics:       ts.metrics,
		DefaultSeason: season,
		CORSOrigins:   []string{"http://localhost:3000"},
	})
	return ts
}

func (ts *testServer) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/players/search?q=lebron", nil)
	require.Equal(t, http.StatusOK, w.Code)
	players := decode[[]model.Player](t, w)
	require.Len(t, players, 1)
	assert.Equal(t, int64(2544), players[0].ID)

	w = ts.do(http.MethodGet, "/players/search?q=kobe", nil)
	assert.Equal(t, "[]", w.Body.String())

	w = ts.do(http.MethodGet, "/players/search?q=l", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"detail"`)
}

func TestGameLogs(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/players/2544/game-logs?last_n=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[[]model.GameLog](t, w)
	require.Len(t, logs, 3)
	assert.Equal(t, "2024-11-08", logs[0].GameDate)

	w = ts.do(http.MethodGet, "/players/2544/game-logs", nil)
	assert.Len(t, decode[[]model.GameLog](t, w), 8)

	w = ts.do(http.MethodGet, "/players/abc/game-logs", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ts.do(http.MethodGet, "/players/2544/game-logs?last_n=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRollingAverages(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/players/2544/rolling-averages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]model.RollingAverage](t, w)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-11-01", rows[0].GameDate)

	w = ts.do(http.MethodGet, "/players/2544/rolling-averages?window=5", nil)
	assert.Equal(t, "[]", w.Body.String())
}

func TestShotChart(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/players/2544/shot-chart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	zones := decode[[]model.ShotZone](t, w)
	require.Len(t, zones, 2)
	assert.Equal(t, model.ShotZone{Zone: "Center(C)", ZoneBasic: "Restricted Area", Attempts: 2, Makes: 1, Pct: 50}, zones[0])
}

func TestAdvancedNotFound(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/players/2544/advanced", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Advanced stats not found"}`, w.Body.String())
}

func TestTrends(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/players/2544/trends", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tr := decode[model.Trend](t, w)
	assert.InDelta(t, 23.6, tr.SeasonPts, 1e-9)
	assert.InDelta(t, 25.8, tr.RecentPts, 1e-9)
	assert.InDelta(t, 2.2, tr.PtsDelta, 1e-9)

	w = ts.do(http.MethodGet, "/players/203999/trends", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompare(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/compare?player_a=2544&player_b=203999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]model.ComparisonRow](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, "LeBron James", rows[0].FullName)
	assert.Equal(t, 8, rows[0].GP)

	w = ts.do(http.MethodGet, "/compare?player_a=2544&player_b=2544", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.ComparisonRow](t, w), 1)

	w = ts.do(http.MethodGet, "/compare?player_a=2544", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVideos(t *testing.T) {
	ts := newTestServer(t)
	want := []model.Video{{VideoID: "v1", EmbedURL: "https://www.youtube.com/embed/v1"}}
	ts.videos.On("Search", mock.Anything, "Nikola Jokic highlights 2025", 4).Return(want, nil)
	ts.videos.On("Search", mock.Anything, "LeBron James dunks", 4).Return(nil, errors.New("quota"))

	w := ts.do(http.MethodGet, "/players/203999/videos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, want, decode[[]model.Video](t, w))

	w = ts.do(http.MethodGet, "/players/2544/videos?query_context=dunks", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = ts.do(http.MethodGet, "/players/1/videos", nil)
	assert.JSONEq(t, `{"detail":"Player not found"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVideosWithoutKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(Deps{Store: seed(t)})
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/players/2544/videos", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "YouTube API key not configured")
}

func TestInsights(t *testing.T) {
	ts := newTestServer(t)
	ts.insights.On("Generate", mock.Anything, insight.Request{PlayerID: 2544, Season: season}).
		Return(insight.Result{Insight: "text", Cached: true, Keywords: []string{}}, nil)
	ts.insights.On("Generate", mock.Anything, insight.Request{PlayerID: 1}).
		Return(insight.Result{}, fmt.Errorf("load: %w", storage.ErrNotFound))
	ts.insights.On("Generate", mock.Anything, insight.Request{}).
		Return(insight.Result{}, insight.ErrEmptyRequest)

	w := ts.do(http.MethodPost, "/insights", map[string]any{"player_id": 2544, "season": season})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"insight":"text","cached":true,"keywords":[]}`, w.Body.String())

	w = ts.do(http.MethodPost, "/insights", map[string]any{"player_id": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPost, "/insights", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/insights", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/insights", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST", w.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodGet, "/health", nil)

	w := ts.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hoopstats_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
