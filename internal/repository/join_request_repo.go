package repository

import (
	"context"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
)

type JoinRequestRepository interface {
	Create(ctx context.Context, req *model.JoinRequest) error
	// GetByID preloads the group (with admins) and the player.
	GetByID(ctx context.Context, id uuid.UUID) (*model.JoinRequest, error)
	Exists(ctx context.Context, groupID, playerID uuid.UUID, status model.JoinRequestStatus) (bool, error)
	// SetStatus moves req to status. An older request of the same
	// (group, player, status) is removed first so the unique key holds.
	SetStatus(ctx context.Context, req *model.JoinRequest, status model.JoinRequestStatus) error
	// ListForAdmin returns requests of groups adminID administers, newest first.
	ListForAdmin(ctx context.Context, adminID uuid.UUID, status *model.JoinRequestStatus) ([]model.JoinRequest, error)
}
