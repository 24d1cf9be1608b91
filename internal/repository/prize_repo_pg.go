package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
)

type pgPrizeRepository struct {
	db *gorm.DB
}

func NewPGPrizeRepository(db *gorm.DB) PrizeRepository {
	return &pgPrizeRepository{db: db}
}

func (r *pgPrizeRepository) Create(ctx context.Context, prize *model.Prize) error {
	return conn(ctx, r.db).Create(prize).Error
}

func (r *pgPrizeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Prize, error) {
	var prize model.Prize
	if err := conn(ctx, r.db).First(&prize, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &prize, nil
}

func (r *pgPrizeRepository) Update(ctx context.Context, prize *model.Prize) error {
	return conn(ctx, r.db).Save(prize).Error
}

func (r *pgPrizeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&model.Prize{}, "id = ?", id).Error
}

func (r *pgPrizeRepository) ListAdministeredBy(ctx context.Context, adminID uuid.UUID, groupID *uuid.UUID) ([]model.Prize, error) {
	q := conn(ctx, r.db).
		Where("group_id IN (?)", conn(ctx, r.db).Table("group_admins").Select("group_id").Where("player_id = ?", adminID))
	if groupID != nil {
		q = q.Where("group_id = ?", *groupID)
	}

	var prizes []model.Prize
	err := q.Order("created_at DESC").Find(&prizes).Error
	return prizes, err
}

func (r *pgPrizeRepository) CreateAward(ctx context.Context, award *model.PrizeAward) error {
	return conn(ctx, r.db).Omit("Match", "Prize", "Player").Create(award).Error
}
