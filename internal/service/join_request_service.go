package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
	"rachas/hub/internal/policy"
	"rachas/hub/internal/repository"
)

// ReactivationPolicy decides what approving a request does to a deactivated membership.
type ReactivationPolicy string

const (
	// ReactivationKeep leaves an existing membership row untouched, and any
	// existing row, active or not, blocks new requests.
	ReactivationKeep ReactivationPolicy = "keep"
	// ReactivationReactivate sets an inactive row active again on approval.
	// Only an active membership blocks new requests.
	ReactivationReactivate ReactivationPolicy = "reactivate"
)

type JoinRequestService interface {
	// Submit files a PENDING request for the group owning code.
	Submit(ctx context.Context, actor uuid.UUID, code string) (*model.JoinRequest, error)
	// SubmitToGroup is Submit where code must belong to groupID.
	SubmitToGroup(ctx context.Context, actor, groupID uuid.UUID, code string) (*model.JoinRequest, error)
	List(ctx context.Context, actor uuid.UUID, status *model.JoinRequestStatus) ([]model.JoinRequest, error)
	Approve(ctx context.Context, actor, requestID uuid.UUID) (*model.JoinRequest, error)
	Deny(ctx context.Context, actor, requestID uuid.UUID) (*model.JoinRequest, error)
}

type joinRequestService struct {
	requestRepo    repository.JoinRequestRepository
	groupRepo      repository.GroupRepository
	membershipRepo repository.MembershipRepository
	tx             repository.TxManager
	policy         *policy.Policy
	reactivation   ReactivationPolicy
	logger         *zap.Logger
}

func NewJoinRequestService(
	requestRepo repository.JoinRequestRepository,
	groupRepo repository.GroupRepository,
	membershipRepo repository.MembershipRepository,
	tx repository.TxManager,
	pol *policy.Policy,
	reactivation ReactivationPolicy,
	logger *zap.Logger,
) JoinRequestService {
	if reactivation == "" {
		reactivation = ReactivationKeep
	}
	return &joinRequestService{
		requestRepo:    requestRepo,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		tx:             tx,
		policy:         pol,
		reactivation:   reactivation,
		logger:         logger,
	}
}

func (s *joinRequestService) Submit(ctx context.Context, actor uuid.UUID, code string) (*model.JoinRequest, error) {
	group, err := s.groupRepo.GetByInviteCode(ctx, normalizeInviteCode(code))
	if err != nil {
		return nil, notFound(err, ErrInviteCodeInvalid)
	}
	return s.submit(ctx, actor, group)
}

func (s *joinRequestService) SubmitToGroup(ctx context.Context, actor, groupID uuid.UUID, code string) (*model.JoinRequest, error) {
	group, err := s.groupRepo.GetByInviteCode(ctx, normalizeInviteCode(code))
	if err != nil {
		return nil, notFound(err, ErrInviteCodeInvalid)
	}
	if group.ID != groupID {
		return nil, ErrGroupNotFound
	}
	return s.submit(ctx, actor, group)
}

func (s *joinRequestService) submit(ctx context.Context, actor uuid.UUID, group *model.Group) (*model.JoinRequest, error) {
	m, err := s.membershipRepo.Get(ctx, group.ID, actor)
	switch {
	case err == nil:
		if m.Active || s.reactivation == ReactivationKeep {
			return nil, ErrAlreadyMember
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("lookup membership: %w", err)
	}

	pending, err := s.requestRepo.Exists(ctx, group.ID, actor, model.JoinRequestPending)
	if err != nil {
		return nil, fmt.Errorf("lookup pending request: %w", err)
	}
	if pending {
		return nil, ErrDuplicateRequest
	}

	req := &model.JoinRequest{GroupID: group.ID, PlayerID: actor, Status: model.JoinRequestPending}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRequest
		}
		return nil, fmt.Errorf("create join request: %w", err)
	}
	return s.requestRepo.GetByID(ctx, req.ID)
}

func (s *joinRequestService) List(ctx context.Context, actor uuid.UUID, status *model.JoinRequestStatus) ([]model.JoinRequest, error) {
	return s.requestRepo.ListForAdmin(ctx, actor, status)
}

// Approve accepts a pending request and makes sure an active membership
// exists, both in one transaction.
func (s *joinRequestService) Approve(ctx context.Context, actor, requestID uuid.UUID) (*model.JoinRequest, error) {
	req, err := s.decidable(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureMembership(ctx, req.GroupID, req.PlayerID); err != nil {
			return err
		}
		return s.requestRepo.SetStatus(ctx, req, model.JoinRequestAccepted)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRequestNotPending
		}
		return nil, fmt.Errorf("approve join request: %w", err)
	}

	s.logger.Info("join request approved",
		zap.String("request_id", req.ID.String()),
		zap.String("group_id", req.GroupID.String()),
		zap.String("player_id", req.PlayerID.String()),
	)
	return req, nil
}

func (s *joinRequestService) ensureMembership(ctx context.Context, groupID, playerID uuid.UUID) error {
	m, err := s.membershipRepo.Get(ctx, groupID, playerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.membershipRepo.Create(ctx, &model.Membership{GroupID: groupID, PlayerID: playerID, Active: true})
	}
	if err != nil {
		return err
	}
	if !m.Active && s.reactivation == ReactivationReactivate {
		m.Active = true
		return s.membershipRepo.Update(ctx, m)
	}
	return nil
}

func (s *joinRequestService) Deny(ctx context.Context, actor, requestID uuid.UUID) (*model.JoinRequest, error) {
	req, err := s.decidable(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.requestRepo.SetStatus(ctx, req, model.JoinRequestDenied)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRequestNotPending
		}
		return nil, fmt.Errorf("deny join request: %w", err)
	}

	s.logger.Info("join request denied",
		zap.String("request_id", req.ID.String()),
		zap.String("group_id", req.GroupID.String()),
	)
	return req, nil
}

// decidable loads a request the actor may approve or deny.
func (s *joinRequestService) decidable(ctx context.Context, actor, requestID uuid.UUID) (*model.JoinRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err, ErrJoinRequestNotFound)
	}
	if err := s.policy.RequireAdmin(ctx, actor, req.GroupID); err != nil {
		return nil, err
	}
	if req.Status != model.JoinRequestPending {
		return nil, ErrRequestNotPending
	}
	return req, nil
}

func normalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var _ JoinRequestService = (*joinRequestService)(nil)
