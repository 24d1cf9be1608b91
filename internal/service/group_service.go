package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
	"rachas/hub/internal/policy"
	"rachas/hub/internal/repository"
	"rachas/hub/pkg/crypto"
)

const inviteCodeAttempts = 10

type CreateGroupInput struct {
	Name          string
	Description   string
	StartDate     *time.Time
	EndDate       *time.Time
	PointGoal     int
	PointAssist   int
	PointPresence int
}

type UpdateGroupInput struct {
	Name          *string
	Description   *string
	StartDate     *time.Time
	EndDate       *time.Time
	PointGoal     *int
	PointAssist   *int
	PointPresence *int
}

// GroupView is a group as seen by one player.
type GroupView struct {
	Group        *model.Group
	TotalPlayers int64
	IsAdmin      bool
}

type GroupService interface {
	Create(ctx context.Context, actor uuid.UUID, input CreateGroupInput) (*GroupView, error)
	ListMine(ctx context.Context, actor uuid.UUID) ([]GroupView, error)
	// Get returns the group with its prizes. Admins and active members only.
	Get(ctx context.Context, actor, groupID uuid.UUID) (*GroupView, error)
	Update(ctx context.Context, actor, groupID uuid.UUID, input UpdateGroupInput) (*GroupView, error)
	Members(ctx context.Context, actor, groupID uuid.UUID) ([]model.Membership, error)
	RemoveMember(ctx context.Context, actor, groupID, playerID uuid.UUID) error
}

type groupService struct {
	groupRepo      repository.GroupRepository
	membershipRepo repository.MembershipRepository
	tx             repository.TxManager
	policy         *policy.Policy
	logger         *zap.Logger
}

func NewGroupService(
	groupRepo repository.GroupRepository,
	membershipRepo repository.MembershipRepository,
	tx repository.TxManager,
	pol *policy.Policy,
	logger *zap.Logger,
) GroupService {
	return &groupService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		tx:             tx,
		policy:         pol,
		logger:         logger,
	}
}

func (s *groupService) Create(ctx context.Context, actor uuid.UUID, input CreateGroupInput) (*GroupView, error) {
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := checkDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	group := &model.Group{
		Name:          name,
		Description:   input.Description,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		PointGoal:     input.PointGoal,
		PointAssist:   input.PointAssist,
		PointPresence: input.PointPresence,
	}

	for attempt := 1; ; attempt++ {
		code, err := s.freshInviteCode(ctx)
		if err != nil {
			return nil, err
		}
		group.ID = uuid.Nil
		group.InviteCode = code

		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.groupRepo.Create(ctx, group); err != nil {
				return err
			}
			if err := s.groupRepo.AddAdmin(ctx, group.ID, actor); err != nil {
				return fmt.Errorf("add admin: %w", err)
			}
			return s.membershipRepo.Create(ctx, &model.Membership{
				GroupID:  group.ID,
				PlayerID: actor,
				Active:   true,
			})
		})
		if err == nil {
			break
		}
		// Lost a race on the invite code between the existence check and insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < inviteCodeAttempts {
			continue
		}
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info("group created",
		zap.String("group_id", group.ID.String()),
		zap.String("admin_id", actor.String()),
	)
	return &GroupView{Group: group, TotalPlayers: 1, IsAdmin: true}, nil
}

func (s *groupService) freshInviteCode(ctx context.Context) (string, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		code, err := crypto.GenerateInviteCode(model.InviteCodeLength)
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		exists, err := s.groupRepo.InviteCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check invite code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique invite code")
}

func (s *groupService) ListMine(ctx context.Context, actor uuid.UUID) ([]GroupView, error) {
	groups, err := s.groupRepo.ListForPlayer(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	views := make([]GroupView, 0, len(groups))
	for i := range groups {
		view, err := s.view(ctx, actor, &groups[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *groupService) Get(ctx context.Context, actor, groupID uuid.UUID) (*GroupView, error) {
	group, err := s.groupRepo.GetDetail(ctx, groupID)
	if err != nil {
		return nil, notFound(err, ErrGroupNotFound)
	}
	if err := s.policy.RequireReader(ctx, actor, groupID); err != nil {
		return nil, err
	}
	return s.view(ctx, actor, group)
}

func (s *groupService) Update(ctx context.Context, actor, groupID uuid.UUID, input UpdateGroupInput) (*GroupView, error) {
	group, err := s.groupRepo.GetDetail(ctx, groupID)
	if err != nil {
		return nil, notFound(err, ErrGroupNotFound)
	}
	if err := s.policy.RequireAdmin(ctx, actor, groupID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := requiredName(*input.Name)
		if err != nil {
			return nil, err
		}
		group.Name = name
	}
	if input.Description != nil {
		group.Description = *input.Description
	}
	if input.StartDate != nil {
		group.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		group.EndDate = input.EndDate
	}
	if input.PointGoal != nil {
		group.PointGoal = *input.PointGoal
	}
	if input.PointAssist != nil {
		group.PointAssist = *input.PointAssist
	}
	if input.PointPresence != nil {
		group.PointPresence = *input.PointPresence
	}
	if err := checkDateRange(group.StartDate, group.EndDate); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return s.view(ctx, actor, group)
}

func (s *groupService) Members(ctx context.Context, actor, groupID uuid.UUID) ([]model.Membership, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, notFound(err, ErrGroupNotFound)
	}
	if err := s.policy.RequireReader(ctx, actor, groupID); err != nil {
		return nil, err
	}
	return s.membershipRepo.ListActive(ctx, groupID)
}

// RemoveMember deactivates the membership; the row is kept.
func (s *groupService) RemoveMember(ctx context.Context, actor, groupID, playerID uuid.UUID) error {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return notFound(err, ErrGroupNotFound)
	}
	if err := s.policy.RequireAdmin(ctx, actor, groupID); err != nil {
		return err
	}

	m, err := s.membershipRepo.Get(ctx, groupID, playerID)
	if err != nil {
		return notFound(err, ErrMembershipNotFound)
	}
	if !m.Active {
		return nil
	}
	m.Active = false
	if err := s.membershipRepo.Update(ctx, m); err != nil {
		return fmt.Errorf("deactivate membership: %w", err)
	}

	s.logger.Info("member removed",
		zap.String("group_id", groupID.String()),
		zap.String("player_id", playerID.String()),
	)
	return nil
}

func (s *groupService) view(ctx context.Context, actor uuid.UUID, group *model.Group) (*GroupView, error) {
	total, err := s.membershipRepo.CountActive(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	isAdmin, err := s.policy.IsGroupAdmin(ctx, actor, group.ID)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}
	return &GroupView{Group: group, TotalPlayers: total, IsAdmin: isAdmin}, nil
}

// requiredName trims name and rejects what is left blank.
func requiredName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDateRange
	}
	return nil
}

var _ GroupService = (*groupService)(nil)
