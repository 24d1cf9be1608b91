package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
)

type pgJoinRequestRepository struct {
	db *gorm.DB
}

func NewPGJoinRequestRepository(db *gorm.DB) JoinRequestRepository {
	return &pgJoinRequestRepository{db: db}
}

func (r *pgJoinRequestRepository) Create(ctx context.Context, req *model.JoinRequest) error {
	return conn(ctx, r.db).Omit("Group", "Player").Create(req).Error
}

func (r *pgJoinRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.JoinRequest, error) {
	var req model.JoinRequest
	err := conn(ctx, r.db).
		Preload("Group.Admins").
		Preload("Player").
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *pgJoinRequestRepository) Exists(ctx context.Context, groupID, playerID uuid.UUID, status model.JoinRequestStatus) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&model.JoinRequest{}).
		Where("group_id = ? AND player_id = ? AND status = ?", groupID, playerID, status).
		Count(&count).Error
	return count > 0, err
}

func (r *pgJoinRequestRepository) SetStatus(ctx context.Context, req *model.JoinRequest, status model.JoinRequestStatus) error {
	db := conn(ctx, r.db)
	if err := db.
		Where("group_id = ? AND player_id = ? AND status = ? AND id <> ?", req.GroupID, req.PlayerID, status, req.ID).
		Delete(&model.JoinRequest{}).Error; err != nil {
		return err
	}
	if err := db.Model(req).Update("status", status).Error; err != nil {
		return err
	}
	req.Status = status
	return nil
}

func (r *pgJoinRequestRepository) ListForAdmin(ctx context.Context, adminID uuid.UUID, status *model.JoinRequestStatus) ([]model.JoinRequest, error) {
	q := conn(ctx, r.db).
		Preload("Group.Admins").
		Preload("Player").
		Where("group_id IN (?)", conn(ctx, r.db).Table("group_admins").Select("group_id").Where("player_id = ?", adminID))
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var reqs []model.JoinRequest
	err := q.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}
