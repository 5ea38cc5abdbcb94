package nbaapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pable/hoopstats/internal/model"
)

//go:embed teams.json
var teamsJSON []byte

// Teams returns the 30 franchises. The list is static and needs no request.
func (c *Client) Teams() ([]model.Team, error) {
	var teams []model.Team
	if err := json.Unmarshal(teamsJSON, &teams); err != nil {
		return nil, fmt.Errorf("decode static teams: %w", err)
	}
	return teams, nil
}

// Players returns the league's player index for season. With activeOnly the
// provider limits the list to players on a current roster.
func (c *Client) Players(ctx context.Context, season string, activeOnly bool) ([]model.Player, error) {
	current := "0"
	if activeOnly {
		current = "1"
	}
	resp, err := c.get(ctx, "commonallplayers", url.Values{
		"LeagueID":            {"00"},
		"Season":              {season},
		"IsOnlyCurrentSeason": {current},
	})
	if err != nil {
		return nil, err
	}
	set, err := resp.set("CommonAllPlayers")
	if err != nil {
		return nil, err
	}

	var out []model.Player
	for _, r := range set.rows() {
		p := model.Player{
			ID:       r.id("PERSON_ID"),
			FullName: r.str("DISPLAY_FIRST_LAST"),
			TeamAbbr: r.str("TEAM_ABBREVIATION"),
			IsActive: r.num("ROSTERSTATUS") == 1,
		}
		if id := r.id("TEAM_ID"); id != 0 {
			p.TeamID = &id
		}
		if p.ID == 0 || p.FullName == "" {
			continue
		}
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// GameLogs returns a player's regular-season box scores for season.
func (c *Client) GameLogs(ctx context.Context, playerID int64, season string) ([]model.GameLog, error) {
	resp, err := c.get(ctx, "playergamelogs", url.Values{
		"PlayerID":   {strconv.FormatInt(playerID, 10)},
		"Season":     {season},
		"SeasonType": {SeasonTypeRegular},
		"LeagueID":   {"00"},
	})
	if err != nil {
		return nil, err
	}
	set, err := resp.set("")
	if err != nil {
		return nil, err
	}

	var out []model.GameLog
	for _, r := range set.rows() {
		date := r.str("GAME_DATE")
		if len(date) > 10 {
			date = date[:10]
		}
		out = append(out, model.GameLog{
			PlayerID:  playerID,
			GameID:    r.str("GAME_ID"),
			GameDate:  date,
			Season:    season,
			Matchup:   r.str("MATCHUP"),
			WL:        r.str("WL"),
			Minutes:   r.minutes("MIN"),
			Points:    r.num("PTS"),
			Rebounds:  r.num("REB"),
			Assists:   r.num("AST"),
			Steals:    r.num("STL"),
			Blocks:    r.num("BLK"),
			Turnovers: r.num("TOV"),
			FGM:       r.num("FGM"),
			FGA:       r.num("FGA"),
			FGPct:     r.numPtr("FG_PCT"),
			FG3M:      r.num("FG3M"),
			FG3A:      r.num("FG3A"),
			FG3Pct:    r.numPtr("FG3_PCT"),
			FTM:       r.num("FTM"),
			FTA:       r.num("FTA"),
			FTPct:     r.numPtr("FT_PCT"),
			PlusMinus: r.num("PLUS_MINUS"),
		})
	}
	return out, nil
}

// LeagueAdvancedStats returns every player's advanced line for season.
// PER is filled from PIE; BPM and VORP are not published by this endpoint.
func (c *Client) LeagueAdvancedStats(ctx context.Context, season string) ([]model.AdvancedStats, error) {
	resp, err := c.get(ctx, "leaguedashplayerstats", url.Values{
		"Season":      {season},
		"SeasonType":  {SeasonTypeRegular},
		"MeasureType": {"Advanced"},
		"PerMode":     {"PerGame"},
		"LeagueID":    {"00"},
	})
	if err != nil {
		return nil, err
	}
	set, err := resp.set("LeagueDashPlayerStats")
	if err != nil {
		return nil, err
	}

	var out []model.AdvancedStats
	for _, r := range set.rows() {
		out = append(out, model.AdvancedStats{
			PlayerID: r.id("PLAYER_ID"),
			Season:   season,
			GP:       int(r.num("GP")),
			PER:      r.numPtr("PIE"),
			TSPct:    r.numPtr("TS_PCT"),
			UsgPct:   r.numPtr("USG_PCT"),
			AstPct:   r.numPtr("AST_PCT"),
			RebPct:   r.numPtr("REB_PCT"),
			TovPct:   r.numPtr("TM_TOV_PCT"),
		})
	}
	return out, nil
}

// ShotChart returns a player's regular-season field-goal attempts for season.
func (c *Client) ShotChart(ctx context.Context, playerID int64, season string) ([]model.Shot, error) {
	resp, err := c.get(ctx, "shotchartdetail", url.Values{
		"PlayerID":       {strconv.FormatInt(playerID, 10)},
		"TeamID":         {"0"},
		"Season":         {season},
		"SeasonType":     {SeasonTypeRegular},
		"ContextMeasure": {"FGA"},
		"LeagueID":       {"00"},
	})
	if err != nil {
		return nil, err
	}
	set, err := resp.set("Shot_Chart_Detail")
	if err != nil {
		return nil, err
	}

	var out []model.Shot
	for _, r := range set.rows() {
		out = append(out, model.Shot{
			PlayerID:      playerID,
			GameID:        r.str("GAME_ID"),
			Season:        season,
			GameDate:      isoDate(r.str("GAME_DATE")),
			ShotZone:      r.str("SHOT_ZONE_AREA"),
			ShotZoneBasic: r.str("SHOT_ZONE_BASIC"),
			ShotDistance:  int(r.num("SHOT_DISTANCE")),
			LocX:          int(r.num("LOC_X")),
			LocY:          int(r.num("LOC_Y")),
			Made:          r.num("SHOT_MADE_FLAG") == 1,
			ShotType:      r.str("SHOT_TYPE"),
			ActionType:    r.str("ACTION_TYPE"),
		})
	}
	return out, nil
}

// isoDate turns the shot chart's YYYYMMDD into YYYY-MM-DD.
func isoDate(s string) string {
	if len(s) == 8 {
		return s[:4] + "-" + s[4:6] + "-" + s[6:]
	}
	return s
}
