package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
	"rachas/hub/internal/repository"
)

type Dashboard struct {
	Player          *model.Player
	GroupCount      int
	MatchCount      int
	Goals           int
	Assists         int
	GoalsPerMatch   float64
	AssistsPerMatch float64
	// BestAssister is whoever assisted the player's goals most, or nil.
	BestAssister *model.PlayerStats
}

type DashboardService interface {
	Get(ctx context.Context, actor uuid.UUID) (*Dashboard, error)
}

type dashboardService struct {
	playerRepo repository.PlayerRepository
	statsRepo  repository.StatsRepository
}

func NewDashboardService(playerRepo repository.PlayerRepository, statsRepo repository.StatsRepository) DashboardService {
	return &dashboardService{playerRepo: playerRepo, statsRepo: statsRepo}
}

func (s *dashboardService) Get(ctx context.Context, actor uuid.UUID) (*Dashboard, error) {
	player, err := s.playerRepo.GetByID(ctx, actor)
	if err != nil {
		return nil, notFound(err, ErrPlayerNotFound)
	}
	totals, err := s.statsRepo.PlayerTotals(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("player totals: %w", err)
	}
	best, err := s.statsRepo.BestAssister(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("best assister: %w", err)
	}

	d := &Dashboard{
		Player:       player,
		GroupCount:   totals.GroupCount,
		MatchCount:   totals.MatchCount,
		Goals:        totals.Goals,
		Assists:      totals.Assists,
		BestAssister: best,
	}
	if totals.MatchCount > 0 {
		d.GoalsPerMatch = round2(float64(totals.Goals) / float64(totals.MatchCount))
		d.AssistsPerMatch = round2(float64(totals.Assists) / float64(totals.MatchCount))
	}
	return d, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ DashboardService = (*dashboardService)(nil)
