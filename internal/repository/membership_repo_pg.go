package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
)

type pgMembershipRepository struct {
	db *gorm.DB
}

func NewPGMembershipRepository(db *gorm.DB) MembershipRepository {
	return &pgMembershipRepository{db: db}
}

func (r *pgMembershipRepository) Create(ctx context.Context, m *model.Membership) error {
	return conn(ctx, r.db).Omit("Group", "Player").Create(m).Error
}

func (r *pgMembershipRepository) Get(ctx context.Context, groupID, playerID uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := conn(ctx, r.db).
		Where("group_id = ? AND player_id = ?", groupID, playerID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *pgMembershipRepository) Update(ctx context.Context, m *model.Membership) error {
	return conn(ctx, r.db).Omit("Group", "Player").Save(m).Error
}

func (r *pgMembershipRepository) ListActive(ctx context.Context, groupID uuid.UUID) ([]model.Membership, error) {
	var members []model.Membership
	err := conn(ctx, r.db).
		Preload("Player").
		Where("group_id = ? AND active", groupID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (r *pgMembershipRepository) CountActive(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&model.Membership{}).Where("group_id = ? AND active", groupID).Count(&count).Error
	return count, err
}
