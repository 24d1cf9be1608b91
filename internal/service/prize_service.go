package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
	"rachas/hub/internal/policy"
	"rachas/hub/internal/repository"
)

type CreatePrizeInput struct {
	GroupID    uuid.UUID
	Name       string
	PointValue int
	Active     *bool
}

type UpdatePrizeInput struct {
	Name       *string
	PointValue *int
	Active     *bool
}

// PrizeService manages prizes. Every operation is limited to groups the
// actor administers.
type PrizeService interface {
	Create(ctx context.Context, actor uuid.UUID, input CreatePrizeInput) (*model.Prize, error)
	List(ctx context.Context, actor uuid.UUID, groupID *uuid.UUID) ([]model.Prize, error)
	Update(ctx context.Context, actor, prizeID uuid.UUID, input UpdatePrizeInput) (*model.Prize, error)
	Delete(ctx context.Context, actor, prizeID uuid.UUID) error
}

type prizeService struct {
	prizeRepo repository.PrizeRepository
	groupRepo repository.GroupRepository
	policy    *policy.Policy
}

func NewPrizeService(
	prizeRepo repository.PrizeRepository,
	groupRepo repository.GroupRepository,
	pol *policy.Policy,
) PrizeService {
	return &prizeService{prizeRepo: prizeRepo, groupRepo: groupRepo, policy: pol}
}

func (s *prizeService) Create(ctx context.Context, actor uuid.UUID, input CreatePrizeInput) (*model.Prize, error) {
	if _, err := s.groupRepo.GetByID(ctx, input.GroupID); err != nil {
		return nil, notFound(err, ErrGroupNotFound)
	}
	if err := s.policy.RequireAdmin(ctx, actor, input.GroupID); err != nil {
		return nil, err
	}
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}

	prize := &model.Prize{
		GroupID:    input.GroupID,
		Name:       name,
		PointValue: input.PointValue,
		Active:     true,
	}
	if input.Active != nil {
		prize.Active = *input.Active
	}
	if err := s.prizeRepo.Create(ctx, prize); err != nil {
		return nil, fmt.Errorf("create prize: %w", err)
	}
	return prize, nil
}

func (s *prizeService) List(ctx context.Context, actor uuid.UUID, groupID *uuid.UUID) ([]model.Prize, error) {
	return s.prizeRepo.ListAdministeredBy(ctx, actor, groupID)
}

func (s *prizeService) Update(ctx context.Context, actor, prizeID uuid.UUID, input UpdatePrizeInput) (*model.Prize, error) {
	prize, err := s.administered(ctx, actor, prizeID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := requiredName(*input.Name)
		if err != nil {
			return nil, err
		}
		prize.Name = name
	}
	if input.PointValue != nil {
		prize.PointValue = *input.PointValue
	}
	if input.Active != nil {
		prize.Active = *input.Active
	}
	if err := s.prizeRepo.Update(ctx, prize); err != nil {
		return nil, fmt.Errorf("update prize: %w", err)
	}
	return prize, nil
}

func (s *prizeService) Delete(ctx context.Context, actor, prizeID uuid.UUID) error {
	if _, err := s.administered(ctx, actor, prizeID); err != nil {
		return err
	}
	if err := s.prizeRepo.Delete(ctx, prizeID); err != nil {
		return fmt.Errorf("delete prize: %w", err)
	}
	return nil
}

func (s *prizeService) administered(ctx context.Context, actor, prizeID uuid.UUID) (*model.Prize, error) {
	prize, err := s.prizeRepo.GetByID(ctx, prizeID)
	if err != nil {
		return nil, notFound(err, ErrPrizeNotFound)
	}
	if err := s.policy.RequireAdmin(ctx, actor, prize.GroupID); err != nil {
		return nil, err
	}
	return prize, nil
}

var _ PrizeService = (*prizeService)(nil)
