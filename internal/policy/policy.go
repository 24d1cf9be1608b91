// Package policy holds the row-level authorization predicates. Every check
// receives the acting player explicitly and only reads store state.
package policy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
)

var ErrForbidden = errors.New("permission denied")

type AdminReader interface {
	IsAdmin(ctx context.Context, groupID, playerID uuid.UUID) (bool, error)
}

type MembershipReader interface {
	Get(ctx context.Context, groupID, playerID uuid.UUID) (*model.Membership, error)
}

type Policy struct {
	admins      AdminReader
	memberships MembershipReader
}

func New(admins AdminReader, memberships MembershipReader) *Policy {
	return &Policy{admins: admins, memberships: memberships}
}

func (p *Policy) IsGroupAdmin(ctx context.Context, actor, groupID uuid.UUID) (bool, error) {
	return p.admins.IsAdmin(ctx, groupID, actor)
}

func (p *Policy) IsActiveMember(ctx context.Context, actor, groupID uuid.UUID) (bool, error) {
	m, err := p.memberships.Get(ctx, groupID, actor)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.Active, nil
}

// AdminOrMemberReadOnly lets admins write and lets admins or active members read.
func (p *Policy) AdminOrMemberReadOnly(ctx context.Context, actor, groupID uuid.UUID, isWrite bool) (bool, error) {
	admin, err := p.IsGroupAdmin(ctx, actor, groupID)
	if err != nil || admin {
		return admin, err
	}
	if isWrite {
		return false, nil
	}
	return p.IsActiveMember(ctx, actor, groupID)
}

// IsSelfOrGroupAdmin passes when owner is the actor or the actor administers groupID.
func (p *Policy) IsSelfOrGroupAdmin(ctx context.Context, actor, owner, groupID uuid.UUID) (bool, error) {
	if actor == owner {
		return true, nil
	}
	return p.IsGroupAdmin(ctx, actor, groupID)
}

func (p *Policy) RequireAdmin(ctx context.Context, actor, groupID uuid.UUID) error {
	return allowed(p.IsGroupAdmin(ctx, actor, groupID))
}

func (p *Policy) RequireReader(ctx context.Context, actor, groupID uuid.UUID) error {
	return allowed(p.AdminOrMemberReadOnly(ctx, actor, groupID, false))
}

func (p *Policy) RequireMember(ctx context.Context, actor, groupID uuid.UUID) error {
	return allowed(p.IsActiveMember(ctx, actor, groupID))
}

func allowed(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
