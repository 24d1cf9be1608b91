package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rachas/hub/internal/model"
)

type pgMatchRepository struct {
	db *gorm.DB
}

func NewPGMatchRepository(db *gorm.DB) MatchRepository {
	return &pgMatchRepository{db: db}
}

func (r *pgMatchRepository) Create(ctx context.Context, match *model.Match) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(match).Error
}

func (r *pgMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Match, error) {
	var match model.Match
	if err := conn(ctx, r.db).First(&match, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *pgMatchRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.Match, error) {
	var match model.Match
	err := conn(ctx, r.db).
		Preload("Attendances.Player").
		Preload("Goals", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Goals.Scorer").
		Preload("Goals.Assister").
		Preload("Awards", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Awards.Prize").
		Preload("Awards.Player").
		First(&match, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *pgMatchRepository) Update(ctx context.Context, match *model.Match) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(match).Error
}

func (r *pgMatchRepository) ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]model.Match, error) {
	var matches []model.Match
	err := conn(ctx, r.db).
		Where("group_id IN (?) OR group_id IN (?)",
			conn(ctx, r.db).Table("group_admins").Select("group_id").Where("player_id = ?", playerID),
			conn(ctx, r.db).Model(&model.Membership{}).Select("group_id").Where("player_id = ? AND active", playerID),
		).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

func (r *pgMatchRepository) UpsertAttendance(ctx context.Context, a *model.Attendance) error {
	return conn(ctx, r.db).
		Omit("Match", "Player").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"present"}),
		}).
		Create(a).Error
}

func (r *pgMatchRepository) ListPresent(ctx context.Context, matchID uuid.UUID) ([]model.Attendance, error) {
	var attendances []model.Attendance
	err := conn(ctx, r.db).
		Preload("Player").
		Where("match_id = ? AND present", matchID).
		Find(&attendances).Error
	return attendances, err
}

func (r *pgMatchRepository) CreateGoal(ctx context.Context, goal *model.GoalEvent) error {
	return conn(ctx, r.db).Omit("Match", "Scorer", "Assister").Create(goal).Error
}

func (r *pgMatchRepository) GetGoal(ctx context.Context, matchID, goalID uuid.UUID) (*model.GoalEvent, error) {
	var goal model.GoalEvent
	err := conn(ctx, r.db).
		Preload("Scorer").
		Preload("Assister").
		Where("id = ? AND match_id = ?", goalID, matchID).
		First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *pgMatchRepository) UpdateGoal(ctx context.Context, goal *model.GoalEvent) error {
	return conn(ctx, r.db).
		Model(&model.GoalEvent{}).
		Where("id = ?", goal.ID).
		Updates(map[string]interface{}{
			"scorer_id":   goal.ScorerID,
			"assister_id": goal.AssisterID,
		}).Error
}

func (r *pgMatchRepository) DeleteGoal(ctx context.Context, matchID, goalID uuid.UUID) error {
	res := conn(ctx, r.db).Where("id = ? AND match_id = ?", goalID, matchID).Delete(&model.GoalEvent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
