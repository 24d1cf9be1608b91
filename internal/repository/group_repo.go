package repository

import (
	"context"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
)

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	AddAdmin(ctx context.Context, groupID, playerID uuid.UUID) error
	// GetByID preloads the admin set.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Group, error)
	// GetDetail preloads admins and prizes.
	GetDetail(ctx context.Context, id uuid.UUID) (*model.Group, error)
	GetByInviteCode(ctx context.Context, code string) (*model.Group, error)
	InviteCodeExists(ctx context.Context, code string) (bool, error)
	IsAdmin(ctx context.Context, groupID, playerID uuid.UUID) (bool, error)
	// ListForPlayer returns groups the player administers or actively belongs to.
	ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]model.Group, error)
	Update(ctx context.Context, group *model.Group) error
}
