package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/api"
	"github.com/pable/hoopstats/internal/insight"
	"github.com/pable/hoopstats/internal/logger"
	"github.com/pable/hoopstats/internal/metrics"
	"github.com/pable/hoopstats/internal/youtube"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API",
	Long: `Serve the stats API until interrupted.

Endpoints: /health, /metrics, /players/search, /players/{id}/game-logs,
/players/{id}/rolling-averages, /players/{id}/shot-chart, /players/{id}/advanced,
/players/{id}/trends, /players/{id}/videos, /compare and POST /insights.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "listen address")
	serveCmd.Flags().StringSlice("cors-origins", nil, "allowed browser origins (default from config)")
	bindFlags(serveCmd, "addr", "cors-origins")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	m := metrics.NewManager()

	var insights api.Insights
	llm, err := insight.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)
	switch {
	case err == nil:
		insights = insight.NewService(db, llm, cfg.InsightTTL, log, m)
	case errors.Is(err, insight.ErrNoAPIKey):
		log.Warn(ctx, "no Anthropic API key, /insights will answer 500")
	default:
		return err
	}

	var videos api.VideoSearcher
	if cfg.YouTubeAPIKey != "" {
		videos = youtube.NewClient(cfg.YouTubeAPIKey, cfg.YouTubeBaseURL)
	} else {
		log.Warn(ctx, "no YouTube API key, /players/{id}/videos will answer 500")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := api.New(api.Deps{
		Store:         db,
		Insights:      insights,
		Videos:        videos,
		Logger:        log,
		Metrics:       m,
		DefaultSeason: cfg.Season,
		CORSOrigins:   cfg.CORSOrigins,
	})
	log.Info(ctx, "starting API", logger.String("db_backend", cfg.DBBackend), logger.String("season", cfg.Season))
	return srv.Run(ctx, cfg.Addr)
}
