package repository

import (
	"context"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
)

type MembershipRepository interface {
	Create(ctx context.Context, m *model.Membership) error
	// Get returns the (group, player) row whatever its active flag.
	Get(ctx context.Context, groupID, playerID uuid.UUID) (*model.Membership, error)
	Update(ctx context.Context, m *model.Membership) error
	// ListActive preloads the player of each active membership.
	ListActive(ctx context.Context, groupID uuid.UUID) ([]model.Membership, error)
	CountActive(ctx context.Context, groupID uuid.UUID) (int64, error)
}
