package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pable/hoopstats/internal/aggregator"
	"github.com/pable/hoopstats/internal/insight"
	"github.com/pable/hoopstats/internal/logger"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
	"github.com/pable/hoopstats/internal/youtube"
)

const (
	searchMinLength     = 2
	searchLimit         = 10
	defaultLastN        = 20
	defaultWindow       = 10
	videoResults        = 4
	defaultVideoContext = "highlights 2025"
)

// detail writes the JSON error body used by every endpoint.
func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// fail maps err onto a status code.
func (s *Server) fail(c *gin.Context, err error, notFound string) {
	switch {
	case storage.IsNotFound(err):
		detail(c, http.StatusNotFound, notFound)
	case errors.Is(err, insight.ErrEmptyRequest):
		detail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, insight.ErrNoAPIKey), errors.Is(err, youtube.ErrNoAPIKey):
		detail(c, http.StatusInternalServerError, err.Error())
	default:
		s.log.Error(c.Request.Context(), "handler error",
			logger.String("path", c.FullPath()), logger.Error(err))
		detail(c, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) seasonParam(c *gin.Context) string {
	return c.DefaultQuery("season", s.season)
}

func playerIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		detail(c, http.StatusBadRequest, "invalid player id")
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		detail(c, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return n, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < searchMinLength {
		detail(c, http.StatusBadRequest, "q must be at least 2 characters")
		return
	}
	players, err := s.store.SearchPlayers(c.Request.Context(), q, true, searchLimit)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, nonNil(players))
}

func (s *Server) handleGameLogs(c *gin.Context) {
	id, ok := playerIDParam(c)
	if !ok {
		return
	}
	lastN, ok := intQuery(c, "last_n", defaultLastN)
	if !ok {
		return
	}
	logs, err := s.store.GameLogs(c.Request.Context(), id, s.seasonParam(c), lastN)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

func (s *Server) handleRollingAverages(c *gin.Context) {
	id, ok := playerIDParam(c)
	if !ok {
		return
	}
	window, ok := intQuery(c, "window", defaultWindow)
	if !ok {
		return
	}
	rows, err := s.store.RollingAverages(c.Request.Context(), id, s.seasonParam(c), window)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, nonNil(rows))
}

func (s *Server) handleShotChart(c *gin.Context) {
	id, ok := playerIDParam(c)
	if !ok {
		return
	}
	shots, err := s.store.Shots(c.Request.Context(), id, s.seasonParam(c))
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, nonNil(aggregator.ShotZoneSummary(shots)))
}

func (s *Server) handleAdvanced(c *gin.Context) {
	id, ok := playerIDParam(c)
	if !ok {
		return
	}
	adv, err := s.store.GetAdvancedStats(c.Request.Context(), id, s.seasonParam(c))
	if err != nil {
		s.fail(c, err, "Advanced stats not found")
		return
	}
	c.JSON(http.StatusOK, adv)
}

func (s *Server) handleTrends(c *gin.Context) {
	id, ok := playerIDParam(c)
	if !ok {
		return
	}
	logs, err := s.store.SeasonGameLogs(c.Request.Context(), id, s.seasonParam(c))
	if err != nil {
		s.fail(c, err, "")
		return
	}
	if len(logs) == 0 {
		detail(c, http.StatusNotFound, "No game logs found")
		return
	}
	c.JSON(http.StatusOK, aggregator.Trends(logs))
}

func (s *Server) handleCompare(c *gin.Context) {
	ids := make([]int64, 0, 2)
	for _, key := range []string{"player_a", "player_b"} {
		id, err := strconv.ParseInt(c.Query(key), 10, 64)
		if err != nil || id <= 0 {
			detail(c, http.StatusBadRequest, key+" is required")
			return
		}
		ids = append(ids, id)
	}

	ctx := c.Request.Context()
	season := s.seasonParam(c)
	var players []model.Player
	logs := make(map[int64][]model.GameLog, len(ids))
	for _, id := range ids {
		if _, seen := logs[id]; seen {
			continue
		}
		p, err := s.store.GetPlayer(ctx, id)
		if storage.IsNotFound(err) {
			continue
		}
		if err != nil {
			s.fail(c, err, "")
			return
		}
		if logs[id], err = s.store.SeasonGameLogs(ctx, id, season); err != nil {
			s.fail(c, err, "")
			return
		}
		players = append(players, *p)
	}
	c.JSON(http.StatusOK, nonNil(aggregator.Compare(players, logs)))
}

func (s *Server) handleVideos(c *gin.Context) {
	id, ok := playerIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		s.fail(c, err, "Player not found")
		return
	}
	if s.videos == nil {
		s.fail(c, youtube.ErrNoAPIKey, "")
		return
	}

	query := p.FullName + " " + c.DefaultQuery("query_context", defaultVideoContext)
	videos, err := s.videos.Search(ctx, query, videoResults)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, nonNil(videos))
}

func (s *Server) handleInsights(c *gin.Context) {
	var req insight.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if s.insights == nil {
		s.fail(c, insight.ErrNoAPIKey, "")
		return
	}
	res, err := s.insights.Generate(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, "Player not found")
		return
	}
	c.JSON(http.StatusOK, res)
}
