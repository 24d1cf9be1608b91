package repository

import (
	"context"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *model.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Player, error)
	GetByUsername(ctx context.Context, username string) (*model.Player, error)
	Update(ctx context.Context, player *model.Player) error
}
