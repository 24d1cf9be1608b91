package repository

import (
	"context"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
)

type PrizeRepository interface {
	Create(ctx context.Context, prize *model.Prize) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Prize, error)
	Update(ctx context.Context, prize *model.Prize) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListAdministeredBy returns prizes of groups adminID administers,
	// optionally narrowed to one group.
	ListAdministeredBy(ctx context.Context, adminID uuid.UUID, groupID *uuid.UUID) ([]model.Prize, error)
	CreateAward(ctx context.Context, award *model.PrizeAward) error
}
