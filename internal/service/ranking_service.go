package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
	"rachas/hub/internal/policy"
	"rachas/hub/internal/ranking"
	"rachas/hub/internal/repository"
)

type RankingService interface {
	// GroupRanking has exactly one entry per active member, zero scores included.
	GroupRanking(ctx context.Context, actor, groupID uuid.UUID) ([]ranking.Entry, error)
	TopScorers(ctx context.Context, actor, groupID uuid.UUID) ([]ranking.Entry, error)
	TopAssists(ctx context.Context, actor, groupID uuid.UUID) ([]ranking.Entry, error)
	// GlobalRanking scores goals + assists across all groups and omits players at zero.
	GlobalRanking(ctx context.Context) ([]ranking.Entry, error)
}

type rankingService struct {
	statsRepo repository.StatsRepository
	groupRepo repository.GroupRepository
	policy    *policy.Policy
	ranker    *ranking.Ranker
}

func NewRankingService(
	statsRepo repository.StatsRepository,
	groupRepo repository.GroupRepository,
	pol *policy.Policy,
	ranker *ranking.Ranker,
) RankingService {
	return &rankingService{
		statsRepo: statsRepo,
		groupRepo: groupRepo,
		policy:    pol,
		ranker:    ranker,
	}
}

func (s *rankingService) GroupRanking(ctx context.Context, actor, groupID uuid.UUID) ([]ranking.Entry, error) {
	group, stats, err := s.groupStats(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	return s.ranker.Group(stats, ranking.WeightsOf(group)), nil
}

func (s *rankingService) TopScorers(ctx context.Context, actor, groupID uuid.UUID) ([]ranking.Entry, error) {
	_, stats, err := s.groupStats(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	return s.ranker.TopScorers(stats), nil
}

func (s *rankingService) TopAssists(ctx context.Context, actor, groupID uuid.UUID) ([]ranking.Entry, error) {
	_, stats, err := s.groupStats(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	return s.ranker.TopAssists(stats), nil
}

func (s *rankingService) GlobalRanking(ctx context.Context) ([]ranking.Entry, error) {
	stats, err := s.statsRepo.GlobalStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("global stats: %w", err)
	}
	return s.ranker.Global(stats), nil
}

func (s *rankingService) groupStats(ctx context.Context, actor, groupID uuid.UUID) (*model.Group, []model.PlayerStats, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, notFound(err, ErrGroupNotFound)
	}
	if err := s.policy.RequireReader(ctx, actor, groupID); err != nil {
		return nil, nil, err
	}
	stats, err := s.statsRepo.GroupStats(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("group stats: %w", err)
	}
	return group, stats, nil
}

var _ RankingService = (*rankingService)(nil)
