// Package model holds the domain types shared by ingestion, storage,
// aggregation and the API.
package model

import "time"

// Team is an NBA franchise.
type Team struct {
	ID           int64  `json:"team_id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbr"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	Conference   string `json:"conference,omitempty"`
	Division     string `json:"division,omitempty"`
}

// Player is a row of the players table.
type Player struct {
	ID           int64  `json:"player_id"`
	FullName     string `json:"full_name"`
	TeamID       *int64 `json:"team_id"`
	TeamAbbr     string `json:"team_abbr"`
	Position     string `json:"position"`
	JerseyNumber string `json:"jersey_number,omitempty"`
	IsActive     bool   `json:"is_active"`
}

// MatchKind describes how a player name matched a search query.
// Lower values are better matches.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchPrefix
	MatchWordPrefix
	MatchSubstring
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchWordPrefix:
		return "word"
	default:
		return "substring"
	}
}

// PlayerCandidate is one ranked result of a fuzzy player lookup.
type PlayerCandidate struct {
	Rank   int       `json:"rank"`
	Player Player    `json:"player"`
	Match  MatchKind `json:"match"`
}

// ---- Per-game data ----

// GameLog is one stored row of player_game_logs: a player's box score for a game.
// Percentages are nullable because the provider omits them when there were no attempts.
type GameLog struct {
	PlayerID  int64    `json:"player_id"`
	GameID    string   `json:"game_id"`
	GameDate  string   `json:"game_date"` // YYYY-MM-DD
	Season    string   `json:"season"`
	Matchup   string   `json:"matchup"`
	WL        string   `json:"wl"`
	Minutes   float64  `json:"min"`
	Points    float64  `json:"pts"`
	Rebounds  float64  `json:"reb"`
	Assists   float64  `json:"ast"`
	Steals    float64  `json:"stl"`
	Blocks    float64  `json:"blk"`
	Turnovers float64  `json:"tov"`
	FGM       float64  `json:"fgm"`
	FGA       float64  `json:"fga"`
	FGPct     *float64 `json:"fg_pct"`
	FG3M      float64  `json:"fg3m"`
	FG3A      float64  `json:"fg3a"`
	FG3Pct    *float64 `json:"fg3_pct"`
	FTM       float64  `json:"ftm"`
	FTA       float64  `json:"fta"`
	FTPct     *float64 `json:"ft_pct"`
	PlusMinus float64  `json:"plus_minus"`
}

// Record projects the game log onto the fields the rolling aggregator consumes.
func (g GameLog) Record() GameRecord {
	return GameRecord{
		PlayerID:            g.PlayerID,
		GameDate:            g.GameDate,
		Points:              g.Points,
		Rebounds:            g.Rebounds,
		Assists:             g.Assists,
		PlusMinus:           g.PlusMinus,
		FieldGoalsAttempted: g.FGA,
		FreeThrowsAttempted: g.FTA,
	}
}

// GameRecord is the per-game input of the rolling aggregator.
type GameRecord struct {
	PlayerID            int64
	GameDate            string
	Points              float64
	Rebounds            float64
	Assists             float64
	PlusMinus           float64
	FieldGoalsAttempted float64
	FreeThrowsAttempted float64
}

// RollingAverage is the trailing-window average ending at one game.
// EfficiencyAvg is nil when no game in the window had a defined efficiency.
type RollingAverage struct {
	PlayerID      int64    `json:"player_id"`
	GameDate      string   `json:"game_date"`
	Season        string   `json:"season"`
	WindowSize    int      `json:"window_size"`
	PointsAvg     float64  `json:"pts_avg"`
	ReboundsAvg   float64  `json:"reb_avg"`
	AssistsAvg    float64  `json:"ast_avg"`
	EfficiencyAvg *float64 `json:"ts_pct_avg"`
	PlusMinusAvg  float64  `json:"plus_minus_avg"`
}

// ---- Season-level data ----

// AdvancedStats is a player's league-dashboard advanced line for a season.
type AdvancedStats struct {
	PlayerID int64    `json:"player_id"`
	Season   string   `json:"season"`
	GP       int      `json:"gp"`
	PER      *float64 `json:"per"` // PIE from the provider, the closest published proxy
	TSPct    *float64 `json:"ts_pct"`
	UsgPct   *float64 `json:"usg_pct"`
	BPM      *float64 `json:"bpm"`
	VORP     *float64 `json:"vorp"`
	AstPct   *float64 `json:"ast_pct"`
	RebPct   *float64 `json:"reb_pct"`
	TovPct   *float64 `json:"tov_pct"`
}

// Shot is one field-goal attempt from a shot chart.
type Shot struct {
	PlayerID      int64  `json:"player_id"`
	GameID        string `json:"game_id"`
	Season        string `json:"season"`
	GameDate      string `json:"game_date"`
	ShotZone      string `json:"shot_zone"`
	ShotZoneBasic string `json:"shot_zone_basic"`
	ShotDistance  int    `json:"shot_distance"`
	LocX          int    `json:"loc_x"`
	LocY          int    `json:"loc_y"`
	Made          bool   `json:"shot_made"`
	ShotType      string `json:"shot_type"`
	ActionType    string `json:"action_type"`
}

// ShotZone summarises attempts in one zone of the floor.
type ShotZone struct {
	Zone      string  `json:"shot_zone,omitempty"`
	ZoneBasic string  `json:"shot_zone_basic"`
	Attempts  int     `json:"attempts"`
	Makes     int     `json:"makes"`
	Pct       float64 `json:"pct"`
}

// SeasonAverages are per-game means over a player's season.
type SeasonAverages struct {
	PPG       float64  `json:"ppg"`
	RPG       float64  `json:"rpg"`
	APG       float64  `json:"apg"`
	TOPG      float64  `json:"topg"`
	PlusMinus float64  `json:"plus_minus"`
	FGPct     *float64 `json:"fg_pct"`
	FG3Pct    *float64 `json:"fg3_pct"`
	GP        int      `json:"gp"`
}

// Trend compares the last five games to the season average.
type Trend struct {
	PtsDelta       float64  `json:"pts_delta"`
	RebDelta       float64  `json:"reb_delta"`
	AstDelta       float64  `json:"ast_delta"`
	FGPctDelta     *float64 `json:"fg_pct_delta"`
	PlusMinusDelta float64  `json:"plus_minus_delta"`
	SeasonPts      float64  `json:"season_pts"`
	RecentPts      float64  `json:"recent_pts"`
}

// ComparisonRow is one player's line in a head-to-head comparison.
type ComparisonRow struct {
	PlayerID int64  `json:"player_id"`
	FullName string `json:"full_name"`
	TeamAbbr string `json:"team_abbr"`
	SeasonAverages
}

// ---- Narrative & media ----

// InsightSeasonSummary is the insight_type of cached season narratives.
const InsightSeasonSummary = "season_summary"

// Insight is a stored LLM narrative.
type Insight struct {
	PlayerID    int64     `json:"player_id"`
	Season      string    `json:"season"`
	Type        string    `json:"insight_type"`
	Text        string    `json:"insight_text"`
	GeneratedAt time.Time `json:"generated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Video is a highlight clip returned by the video search.
type Video struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Channel   string `json:"channel"`
	EmbedURL  string `json:"embed_url"`
}
