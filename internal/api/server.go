// Package api serves the stats store, video search and insights over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pable/hoopstats/internal/insight"
	"github.com/pable/hoopstats/internal/logger"
	"github.com/pable/hoopstats/internal/metrics"
	"github.com/pable/hoopstats/internal/model"
)

// Store is the read side of storage used by the handlers.
type Store interface {
	SearchPlayers(ctx context.Context, q string, activeOnly bool, limit int) ([]model.Player, error)
	GetPlayer(ctx context.Context, id int64) (*model.Player, error)
	GameLogs(ctx context.Context, playerID int64, season string, lastN int) ([]model.GameLog, error)
	SeasonGameLogs(ctx context.Context, playerID int64, season string) ([]model.GameLog, error)
	RollingAverages(ctx context.Context, playerID int64, season string, window int) ([]model.RollingAverage, error)
	Shots(ctx context.Context, playerID int64, season string) ([]model.Shot, error)
	GetAdvancedStats(ctx context.Context, playerID int64, season string) (*model.AdvancedStats, error)
}

// Insights generates player narratives.
type Insights interface {
	Generate(ctx context.Context, req insight.Request) (insight.Result, error)
}

// VideoSearcher finds highlight videos.
type VideoSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.Video, error)
}

// Deps are the collaborators of a Server. Insights and Videos may be nil;
// their endpoints then answer 500.
type Deps struct {
	Store         Store
	Insights      Insights
	Videos        VideoSearcher
	Logger        logger.Logger
	Metrics       *metrics.Manager
	DefaultSeason string
	CORSOrigins   []string
}

// Server is the HTTP API.
type Server struct {
	store    Store
	insights Insights
	videos   VideoSearcher
	log      logger.Logger
	metrics  *metrics.Manager
	season   string
	router   *gin.Engine
}

// New creates a Server with every route registered.
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.DefaultSeason == "" {
		d.DefaultSeason = "2024-25"
	}

	router := gin.New()
	s := &Server{
		store:    d.Store,
		insights: d.Insights,
		videos:   d.Videos,
		log:      d.Logger.Named("api"),
		metrics:  d.Metrics,
		season:   d.DefaultSeason,
		router:   router,
	}

	router.Use(gin.Recovery(), requestID(), s.observe(), cors(d.CORSOrigins))

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	players := router.Group("/players")
	{
		players.GET("/search", s.handleSearch)
		players.GET("/:id/game-logs", s.handleGameLogs)
		players.GET("/:id/rolling-averages", s.handleRollingAverages)
		players.GET("/:id/shot-chart", s.handleShotChart)
		players.GET("/:id/advanced", s.handleAdvanced)
		players.GET("/:id/trends", s.handleTrends)
		players.GET("/:id/videos", s.handleVideos)
	}
	router.GET("/compare", s.handleCompare)
	router.POST("/insights", s.handleInsights)

	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info(shutdownCtx, "shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
