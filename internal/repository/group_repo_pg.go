package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
)

type pgGroupRepository struct {
	db *gorm.DB
}

func NewPGGroupRepository(db *gorm.DB) GroupRepository {
	return &pgGroupRepository{db: db}
}

func (r *pgGroupRepository) Create(ctx context.Context, group *model.Group) error {
	return conn(ctx, r.db).Omit("Admins", "Prizes").Create(group).Error
}

func (r *pgGroupRepository) AddAdmin(ctx context.Context, groupID, playerID uuid.UUID) error {
	return conn(ctx, r.db).Exec(
		"INSERT INTO group_admins (group_id, player_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		groupID, playerID,
	).Error
}

func (r *pgGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var group model.Group
	if err := conn(ctx, r.db).Preload("Admins").First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *pgGroupRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var group model.Group
	err := conn(ctx, r.db).
		Preload("Admins").
		Preload("Prizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *pgGroupRepository) GetByInviteCode(ctx context.Context, code string) (*model.Group, error) {
	var group model.Group
	if err := conn(ctx, r.db).Preload("Admins").Where("invite_code = ?", code).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *pgGroupRepository) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&model.Group{}).Where("invite_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *pgGroupRepository) IsAdmin(ctx context.Context, groupID, playerID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Table("group_admins").
		Where("group_id = ? AND player_id = ?", groupID, playerID).
		Count(&count).Error
	return count > 0, err
}

func (r *pgGroupRepository) ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]model.Group, error) {
	var groups []model.Group
	err := conn(ctx, r.db).
		Preload("Admins").
		Where("id IN (?) OR id IN (?)",
			conn(ctx, r.db).Table("group_admins").Select("group_id").Where("player_id = ?", playerID),
			conn(ctx, r.db).Model(&model.Membership{}).Select("group_id").Where("player_id = ? AND active", playerID),
		).
		Order("created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *pgGroupRepository) Update(ctx context.Context, group *model.Group) error {
	return conn(ctx, r.db).Omit("Admins", "Prizes").Save(group).Error
}
