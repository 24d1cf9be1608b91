package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
)

type pgPlayerRepository struct {
	db *gorm.DB
}

func NewPGPlayerRepository(db *gorm.DB) PlayerRepository {
	return &pgPlayerRepository{db: db}
}

func (r *pgPlayerRepository) Create(ctx context.Context, player *model.Player) error {
	return conn(ctx, r.db).Create(player).Error
}

func (r *pgPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	var player model.Player
	if err := conn(ctx, r.db).First(&player, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *pgPlayerRepository) GetByUsername(ctx context.Context, username string) (*model.Player, error) {
	var player model.Player
	err := conn(ctx, r.db).
		Where("lower(username) = ?", strings.ToLower(username)).
		First(&player).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *pgPlayerRepository) Update(ctx context.Context, player *model.Player) error {
	return conn(ctx, r.db).Save(player).Error
}
