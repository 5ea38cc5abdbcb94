// Package insight generates LLM narratives about a player's season and
// caches season summaries in the store.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pable/hoopstats/internal/aggregator"
	"github.com/pable/hoopstats/internal/logger"
	"github.com/pable/hoopstats/internal/metrics"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

// DefaultSeason is used when a request names no season.
const DefaultSeason = "2025-26"

// recentGames is how many of the latest games go into the prompt.
const recentGames = 20

var (
	// ErrNoAPIKey is returned when no model credentials are configured.
	ErrNoAPIKey = errors.New("no Anthropic API key configured")
	// ErrEmptyRequest is returned when a request has neither a player nor a question.
	ErrEmptyRequest = errors.New("player_id or question is required")
)

// Completer sends a single-turn prompt to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Store is the subset of storage the service reads and writes.
type Store interface {
	GetPlayer(ctx context.Context, id int64) (*model.Player, error)
	SeasonGameLogs(ctx context.Context, playerID int64, season string) ([]model.GameLog, error)
	GameLogs(ctx context.Context, playerID int64, season string, lastN int) ([]model.GameLog, error)
	Shots(ctx context.Context, playerID int64, season string) ([]model.Shot, error)
	LatestInsight(ctx context.Context, playerID int64, season, insightType string, now time.Time) (*model.Insight, error)
	InsertInsight(ctx context.Context, in model.Insight) error
}

// Request asks for a narrative. With no PlayerID the Question is sent to the
// model as-is.
type Request struct {
	PlayerID int64  `json:"player_id"`
	Season   string `json:"season"`
	Question string `json:"question"`
}

// Result is the narrative returned to callers.
type Result struct {
	Insight  string   `json:"insight"`
	Cached   bool     `json:"cached"`
	Keywords []string `json:"keywords"`
}

// Service produces insights. A nil Completer makes every uncached request
// fail with ErrNoAPIKey.
type Service struct {
	store   Store
	llm     Completer
	ttl     time.Duration
	log     logger.Logger
	metrics *metrics.Manager
	now     func() time.Time
}

// NewService wires a Service. ttl is the lifetime of cached season summaries.
func NewService(store Store, llm Completer, ttl time.Duration, log logger.Logger, m *metrics.Manager) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:   store,
		llm:     llm,
		ttl:     ttl,
		log:     log.Named("insight"),
		metrics: m,
		now:     time.Now,
	}
}

// Generate answers req. Season summaries (requests without a question) are
// served from the cache while unexpired and stored after generation.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	req.Question = strings.TrimSpace(req.Question)
	if req.Season == "" {
		req.Season = DefaultSeason
	}

	if req.PlayerID == 0 {
		if req.Question == "" {
			return Result{}, ErrEmptyRequest
		}
		text, err := s.complete(ctx, req.Question)
		if err != nil {
			return Result{}, err
		}
		return Result{Insight: text, Keywords: []string{}}, nil
	}

	summary := req.Question == ""
	if summary {
		cached, err := s.store.LatestInsight(ctx, req.PlayerID, req.Season, model.InsightSeasonSummary, s.now())
		switch {
		case err == nil:
			s.metrics.ObserveInsightCache(true)
			return Result{Insight: cached.Text, Cached: true, Keywords: []string{}}, nil
		case !storage.IsNotFound(err):
			return Result{}, fmt.Errorf("read insight cache: %w", err)
		}
		s.metrics.ObserveInsightCache(false)
	}

	player, err := s.store.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return Result{}, err
	}
	prompt, err := s.buildPrompt(ctx, player, req)
	if err != nil {
		return Result{}, err
	}

	raw, err := s.complete(ctx, prompt)
	if err != nil {
		return Result{}, err
	}
	res := parseAnswer(raw)

	if summary {
		now := s.now()
		in := model.Insight{
			PlayerID:    req.PlayerID,
			Season:      req.Season,
			Type:        model.InsightSeasonSummary,
			Text:        res.Insight,
			GeneratedAt: now,
			ExpiresAt:   now.Add(s.ttl),
		}
		if err := s.store.InsertInsight(ctx, in); err != nil {
			return Result{}, fmt.Errorf("store insight: %w", err)
		}
		s.log.Info(ctx, "season summary cached",
			logger.Int64("player_id", req.PlayerID), logger.String("season", req.Season))
	}
	return res, nil
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", ErrNoAPIKey
	}
	start := time.Now()
	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.log.Error(ctx, "model call failed", logger.Error(err))
		return "", fmt.Errorf("model call: %w", err)
	}
	s.log.Debug(ctx, "model call finished", logger.Duration("elapsed", time.Since(start)))
	return text, nil
}

// promptGame is the slice of a game log shown to the model.
type promptGame struct {
	GameDate  string   `json:"game_date"`
	Matchup   string   `json:"matchup"`
	WL        string   `json:"wl"`
	Points    float64  `json:"pts"`
	Rebounds  float64  `json:"reb"`
	Assists   float64  `json:"ast"`
	Turnovers float64  `json:"tov"`
	FGPct     *float64 `json:"fg_pct"`
	FG3Pct    *float64 `json:"fg3_pct"`
	FTPct     *float64 `json:"ft_pct"`
	PlusMinus float64  `json:"plus_minus"`
	Minutes   float64  `json:"min"`
}

const promptTemplate = `You are an expert NBA analyst. Use the data below to answer the question.

Player: %s (%s, %s)
Season: %s

SEASON AVERAGES: %s
LAST 20 GAMES: %s
SHOT ZONES: %s

QUESTION: %s

Respond with a JSON object:
{
  "insight": "3-5 paragraph analysis with specific numbers and the 2-3 biggest performance factors",
  "keywords": ["3-4 short YouTube search phrases reflecting key themes, e.g. mid range improvement"]
}

CRITICAL: Return ONLY a raw JSON object. No markdown, no code blocks, no explanatory text before or after. Just the JSON object starting with { and ending with }.`

// DefaultQuestion is asked when a player request carries no question.
func DefaultQuestion(name string) string {
	return fmt.Sprintf("Why is %s having the season they're having? What are the key drivers of their performance?", name)
}

func (s *Service) buildPrompt(ctx context.Context, player *model.Player, req Request) (string, error) {
	season, err := s.store.SeasonGameLogs(ctx, player.ID, req.Season)
	if err != nil {
		return "", fmt.Errorf("load season logs: %w", err)
	}
	recent, err := s.store.GameLogs(ctx, player.ID, req.Season, recentGames)
	if err != nil {
		return "", fmt.Errorf("load recent games: %w", err)
	}
	shots, err := s.store.Shots(ctx, player.ID, req.Season)
	if err != nil {
		return "", fmt.Errorf("load shots: %w", err)
	}

	games := make([]promptGame, len(recent))
	for i, g := range recent {
		games[i] = promptGame{
			GameDate: g.GameDate, Matchup: g.Matchup, WL: g.WL,
			Points: g.Points, Rebounds: g.Rebounds, Assists: g.Assists, Turnovers: g.Turnovers,
			FGPct: g.FGPct, FG3Pct: g.FG3Pct, FTPct: g.FTPct,
			PlusMinus: g.PlusMinus, Minutes: g.Minutes,
		}
	}

	// Zones are summarised by basic zone only.
	basic := make([]model.Shot, len(shots))
	for i, sh := range shots {
		sh.ShotZone = ""
		basic[i] = sh
	}

	avgJSON, err := json.Marshal(aggregator.SeasonAverages(season))
	if err != nil {
		return "", err
	}
	gamesJSON, err := json.Marshal(games)
	if err != nil {
		return "", err
	}
	zonesJSON, err := json.Marshal(nonNil(aggregator.ShotZoneSummary(basic)))
	if err != nil {
		return "", err
	}

	question := req.Question
	if question == "" {
		question = DefaultQuestion(player.FullName)
	}
	return fmt.Sprintf(promptTemplate,
		player.FullName, player.TeamAbbr, player.Position, req.Season,
		avgJSON, gamesJSON, zonesJSON, question), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// parseAnswer decodes the model's JSON reply. Anything that is not a JSON
// object is returned verbatim as the insight with no keywords.
func parseAnswer(raw string) Result {
	var parsed struct {
		Insight  string   `json:"insight"`
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return Result{Insight: raw, Keywords: []string{}}
	}
	return Result{Insight: parsed.Insight, Keywords: nonNil(parsed.Keywords)}
}
