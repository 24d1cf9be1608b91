package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rachas/hub/internal/model"
	"rachas/hub/internal/policy"
	"rachas/hub/internal/repository"
)

type CreateMatchInput struct {
	GroupID   uuid.UUID
	StartTime *time.Time
	Location  string
	TimeLabel string
}

// UpdateGoalInput changes a goal record. SetAssister distinguishes "leave the
// assist alone" from "clear it" (SetAssister with a nil AssisterID).
type UpdateGoalInput struct {
	ScorerID    *uuid.UUID
	SetAssister bool
	AssisterID  *uuid.UUID
}

type MatchView struct {
	Match        *model.Match
	GroupIsAdmin bool
}

type MatchService interface {
	Create(ctx context.Context, actor uuid.UUID, input CreateMatchInput) (*model.Match, error)
	// List returns matches of every group the actor administers or belongs to.
	List(ctx context.Context, actor uuid.UUID) ([]model.Match, error)
	Get(ctx context.Context, actor, matchID uuid.UUID) (*MatchView, error)
	Members(ctx context.Context, actor, matchID uuid.UUID) ([]model.Attendance, error)
	AddPlayer(ctx context.Context, actor, matchID, playerID uuid.UUID) (*model.Attendance, error)
	RecordAttendance(ctx context.Context, actor, matchID, playerID uuid.UUID, present bool) (*model.Attendance, error)
	RecordGoal(ctx context.Context, actor, matchID, scorerID uuid.UUID, assisterID *uuid.UUID) (*model.GoalEvent, error)
	UpdateGoal(ctx context.Context, actor, matchID, goalID uuid.UUID, input UpdateGoalInput) (*model.GoalEvent, error)
	DeleteGoal(ctx context.Context, actor, matchID, goalID uuid.UUID) error
	AwardPrize(ctx context.Context, actor, matchID, prizeID, playerID uuid.UUID) (*model.PrizeAward, error)
	// Finalize closes an open match. Closing is one-way.
	Finalize(ctx context.Context, actor, matchID uuid.UUID) (*MatchView, error)
}

type matchService struct {
	matchRepo      repository.MatchRepository
	groupRepo      repository.GroupRepository
	playerRepo     repository.PlayerRepository
	prizeRepo      repository.PrizeRepository
	policy         *policy.Policy
	lockAfterClose bool
	logger         *zap.Logger
	now            func() time.Time
}

func NewMatchService(
	matchRepo repository.MatchRepository,
	groupRepo repository.GroupRepository,
	playerRepo repository.PlayerRepository,
	prizeRepo repository.PrizeRepository,
	pol *policy.Policy,
	lockAfterClose bool,
	logger *zap.Logger,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		groupRepo:      groupRepo,
		playerRepo:     playerRepo,
		prizeRepo:      prizeRepo,
		policy:         pol,
		lockAfterClose: lockAfterClose,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *matchService) Create(ctx context.Context, actor uuid.UUID, input CreateMatchInput) (*model.Match, error) {
	if _, err := s.groupRepo.GetByID(ctx, input.GroupID); err != nil {
		return nil, notFound(err, ErrGroupNotFound)
	}
	if err := s.policy.RequireAdmin(ctx, actor, input.GroupID); err != nil {
		return nil, err
	}

	start := input.StartTime
	if start == nil {
		now := s.now()
		start = &now
	}
	match := &model.Match{
		GroupID:   input.GroupID,
		StartTime: start,
		Status:    model.MatchStatusOpen,
		Location:  strings.TrimSpace(input.Location),
		TimeLabel: strings.TrimSpace(input.TimeLabel),
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context, actor uuid.UUID) ([]model.Match, error) {
	return s.matchRepo.ListForPlayer(ctx, actor)
}

func (s *matchService) Get(ctx context.Context, actor, matchID uuid.UUID) (*MatchView, error) {
	match, err := s.matchRepo.GetDetail(ctx, matchID)
	if err != nil {
		return nil, notFound(err, ErrMatchNotFound)
	}
	return s.readView(ctx, actor, match)
}

func (s *matchService) Members(ctx context.Context, actor, matchID uuid.UUID) ([]model.Attendance, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, notFound(err, ErrMatchNotFound)
	}
	if err := s.policy.RequireReader(ctx, actor, match.GroupID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListPresent(ctx, matchID)
}

// AddPlayer marks an active member of the match's group as present.
func (s *matchService) AddPlayer(ctx context.Context, actor, matchID, playerID uuid.UUID) (*model.Attendance, error) {
	match, err := s.editable(ctx, actor, matchID)
	if err != nil {
		return nil, err
	}
	player, err := s.player(ctx, playerID)
	if err != nil {
		return nil, err
	}

	member, err := s.policy.IsActiveMember(ctx, playerID, match.GroupID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, ErrNotGroupMember
	}
	return s.upsertAttendance(ctx, match, player, true)
}

func (s *matchService) RecordAttendance(ctx context.Context, actor, matchID, playerID uuid.UUID, present bool) (*model.Attendance, error) {
	match, err := s.editable(ctx, actor, matchID)
	if err != nil {
		return nil, err
	}
	player, err := s.player(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return s.upsertAttendance(ctx, match, player, present)
}

func (s *matchService) upsertAttendance(ctx context.Context, match *model.Match, player *model.Player, present bool) (*model.Attendance, error) {
	a := &model.Attendance{MatchID: match.ID, PlayerID: player.ID, Present: present}
	if err := s.matchRepo.UpsertAttendance(ctx, a); err != nil {
		return nil, fmt.Errorf("record attendance: %w", err)
	}
	a.Player = *player
	return a, nil
}

// RecordGoal is open to admins and to active members logging their own goal.
func (s *matchService) RecordGoal(ctx context.Context, actor, matchID, scorerID uuid.UUID, assisterID *uuid.UUID) (*model.GoalEvent, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGoalOwner(ctx, actor, scorerID, match.GroupID); err != nil {
		return nil, err
	}
	if err := s.checkLock(match); err != nil {
		return nil, err
	}
	if _, err := s.player(ctx, scorerID); err != nil {
		return nil, err
	}
	if assisterID != nil {
		if _, err := s.player(ctx, *assisterID); err != nil {
			return nil, err
		}
	}

	goal := &model.GoalEvent{MatchID: match.ID, ScorerID: scorerID, AssisterID: assisterID}
	if err := s.matchRepo.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("record goal: %w", err)
	}
	return s.matchRepo.GetGoal(ctx, match.ID, goal.ID)
}

func (s *matchService) UpdateGoal(ctx context.Context, actor, matchID, goalID uuid.UUID, input UpdateGoalInput) (*model.GoalEvent, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	goal, err := s.matchRepo.GetGoal(ctx, matchID, goalID)
	if err != nil {
		return nil, notFound(err, ErrGoalNotFound)
	}
	if err := s.requireGoalOwner(ctx, actor, goal.ScorerID, match.GroupID); err != nil {
		return nil, err
	}
	if err := s.checkLock(match); err != nil {
		return nil, err
	}

	if input.ScorerID != nil {
		if _, err := s.player(ctx, *input.ScorerID); err != nil {
			return nil, err
		}
		goal.ScorerID = *input.ScorerID
	}
	if input.SetAssister {
		if input.AssisterID != nil {
			if _, err := s.player(ctx, *input.AssisterID); err != nil {
				return nil, err
			}
		}
		goal.AssisterID = input.AssisterID
	}

	if err := s.matchRepo.UpdateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return s.matchRepo.GetGoal(ctx, matchID, goalID)
}

func (s *matchService) DeleteGoal(ctx context.Context, actor, matchID, goalID uuid.UUID) error {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return err
	}
	goal, err := s.matchRepo.GetGoal(ctx, matchID, goalID)
	if err != nil {
		return notFound(err, ErrGoalNotFound)
	}
	if err := s.requireGoalOwner(ctx, actor, goal.ScorerID, match.GroupID); err != nil {
		return err
	}
	if err := s.checkLock(match); err != nil {
		return err
	}
	if err := s.matchRepo.DeleteGoal(ctx, matchID, goalID); err != nil {
		return notFound(err, ErrGoalNotFound)
	}
	return nil
}

func (s *matchService) AwardPrize(ctx context.Context, actor, matchID, prizeID, playerID uuid.UUID) (*model.PrizeAward, error) {
	match, err := s.editable(ctx, actor, matchID)
	if err != nil {
		return nil, err
	}
	prize, err := s.prizeRepo.GetByID(ctx, prizeID)
	if err != nil {
		return nil, notFound(err, ErrPrizeNotFound)
	}
	if prize.GroupID != match.GroupID {
		return nil, ErrPrizeGroupMismatch
	}
	player, err := s.player(ctx, playerID)
	if err != nil {
		return nil, err
	}

	award := &model.PrizeAward{MatchID: match.ID, PrizeID: prize.ID, PlayerID: player.ID}
	if err := s.prizeRepo.CreateAward(ctx, award); err != nil {
		return nil, fmt.Errorf("award prize: %w", err)
	}
	award.Prize = *prize
	award.Player = *player
	return award, nil
}

func (s *matchService) Finalize(ctx context.Context, actor, matchID uuid.UUID) (*MatchView, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, notFound(err, ErrMatchNotFound)
	}
	if err := s.policy.RequireAdmin(ctx, actor, match.GroupID); err != nil {
		return nil, err
	}
	if match.Closed() {
		return nil, ErrMatchAlreadyClosed
	}

	end := s.now()
	if match.StartTime != nil && end.Before(*match.StartTime) {
		end = *match.StartTime
	}
	match.EndTime = &end
	match.Status = model.MatchStatusClosed
	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, fmt.Errorf("finalize match: %w", err)
	}

	s.logger.Info("match finalized",
		zap.String("match_id", match.ID.String()),
		zap.String("group_id", match.GroupID.String()),
	)

	detail, err := s.matchRepo.GetDetail(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("reload match: %w", err)
	}
	return &MatchView{Match: detail, GroupIsAdmin: true}, nil
}

func (s *matchService) readView(ctx context.Context, actor uuid.UUID, match *model.Match) (*MatchView, error) {
	isAdmin, err := s.policy.IsGroupAdmin(ctx, actor, match.GroupID)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}
	if !isAdmin {
		if err := s.policy.RequireMember(ctx, actor, match.GroupID); err != nil {
			return nil, err
		}
	}
	return &MatchView{Match: match, GroupIsAdmin: isAdmin}, nil
}

func (s *matchService) getMatch(ctx context.Context, matchID uuid.UUID) (*model.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, notFound(err, ErrMatchNotFound)
	}
	return match, nil
}

// checkLock applies the post-close lock when enabled. Callers run it after
// their permission check.
func (s *matchService) checkLock(match *model.Match) error {
	if s.lockAfterClose && match.Closed() {
		return ErrMatchClosed
	}
	return nil
}

// editable loads a match the actor administers, then applies the post-close
// lock.
func (s *matchService) editable(ctx context.Context, actor, matchID uuid.UUID) (*model.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireAdmin(ctx, actor, match.GroupID); err != nil {
		return nil, err
	}
	if err := s.checkLock(match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) requireGoalOwner(ctx context.Context, actor, scorer, groupID uuid.UUID) error {
	if err := s.policy.RequireReader(ctx, actor, groupID); err != nil {
		return err
	}
	ok, err := s.policy.IsSelfOrGroupAdmin(ctx, actor, scorer, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *matchService) player(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	p, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPlayerNotFound)
	}
	return p, nil
}

var _ MatchService = (*matchService)(nil)
