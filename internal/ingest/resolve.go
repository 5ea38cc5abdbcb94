package ingest

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pable/hoopstats/internal/model"
)

// ResolvePlayer returns every player whose name contains name, ranked exact
// match first, then name prefix, then word prefix, then any substring; ties
// are ordered by name. When nothing is stored under that name the provider's
// active player index for season is seeded and searched once more.
func (p *Pipeline) ResolvePlayer(ctx context.Context, name, season string) ([]model.PlayerCandidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrPlayerNotFound)
	}

	found, err := p.store.SearchPlayers(ctx, name, false, 0)
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}
	if len(found) == 0 {
		if _, err := p.SeedPlayers(ctx, season, true); err != nil {
			return nil, err
		}
		if found, err = p.store.SearchPlayers(ctx, name, false, 0); err != nil {
			return nil, fmt.Errorf("search players: %w", err)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return RankCandidates(name, found), nil
}

// RankCandidates orders players by how well their name matches query.
// Players whose name does not contain query are dropped.
func RankCandidates(query string, players []model.Player) []model.PlayerCandidate {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.PlayerCandidate
	for _, pl := range players {
		kind, ok := matchKind(q, strings.ToLower(pl.FullName))
		if !ok {
			continue
		}
		out = append(out, model.PlayerCandidate{Player: pl, Match: kind})
	}
	slices.SortStableFunc(out, func(a, b model.PlayerCandidate) int {
		if c := cmp.Compare(a.Match, b.Match); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Player.FullName, b.Player.FullName); c != 0 {
			return c
		}
		return cmp.Compare(a.Player.ID, b.Player.ID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func matchKind(q, name string) (model.MatchKind, bool) {
	switch {
	case name == q:
		return model.MatchExact, true
	case strings.HasPrefix(name, q):
		return model.MatchPrefix, true
	}
	for _, w := range strings.Fields(name) {
		if strings.HasPrefix(w, q) {
			return model.MatchWordPrefix, true
		}
	}
	if strings.Contains(name, q) {
		return model.MatchSubstring, true
	}
	return 0, false
}

// Select picks a player from ranked candidates. pick is 1-based; pick 0
// selects automatically only when the choice is unambiguous: a single
// candidate, or a single exact match.
func Select(candidates []model.PlayerCandidate, pick int) (model.Player, error) {
	if len(candidates) == 0 {
		return model.Player{}, ErrPlayerNotFound
	}
	if pick > 0 {
		if pick > len(candidates) {
			return model.Player{}, fmt.Errorf("pick %d out of range: %d candidates", pick, len(candidates))
		}
		return candidates[pick-1].Player, nil
	}
	if len(candidates) == 1 {
		return candidates[0].Player, nil
	}
	if candidates[0].Match == model.MatchExact && candidates[1].Match != model.MatchExact {
		return candidates[0].Player, nil
	}
	return model.Player{}, fmt.Errorf("%w: %d candidates", ErrAmbiguousPlayer, len(candidates))
}
