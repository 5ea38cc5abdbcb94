package ingest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pable/hoopstats/internal/model"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

var _ Provider = &MockProvider{} // Compile-time check

func (m *MockProvider) Teams() ([]model.Team, error) {
	args := m.Called()
	teams, _ := args.Get(0).([]model.Team)
	return teams, args.Error(1)
}

func (m *MockProvider) Players(ctx context.Context, season string, activeOnly bool) ([]model.Player, error) {
	args := m.Called(ctx, season, activeOnly)
	players, _ := args.Get(0).([]model.Player)
	return players, args.Error(1)
}

func (m *MockProvider) GameLogs(ctx context.Context, playerID int64, season string) ([]model.GameLog, error) {
	args := m.Called(ctx, playerID, season)
	logs, _ := args.Get(0).([]model.GameLog)
	return logs, args.Error(1)
}

func (m *MockProvider) LeagueAdvancedStats(ctx context.Context, season string) ([]model.AdvancedStats, error) {
	args := m.Called(ctx, season)
	stats, _ := args.Get(0).([]model.AdvancedStats)
	return stats, args.Error(1)
}

func (m *MockProvider) ShotChart(ctx context.Context, playerID int64, season string) ([]model.Shot, error) {
	args := m.Called(ctx, playerID, season)
	shots, _ := args.Get(0).([]model.Shot)
	return shots, args.Error(1)
}
