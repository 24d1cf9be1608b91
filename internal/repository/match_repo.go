package repository

import (
	"context"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
)

type MatchRepository interface {
	Create(ctx context.Context, match *model.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Match, error)
	// GetDetail preloads attendances, goals and prize awards with their players.
	GetDetail(ctx context.Context, id uuid.UUID) (*model.Match, error)
	Update(ctx context.Context, match *model.Match) error
	// ListForPlayer returns matches of groups the player administers or actively belongs to.
	ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]model.Match, error)

	UpsertAttendance(ctx context.Context, a *model.Attendance) error
	ListPresent(ctx context.Context, matchID uuid.UUID) ([]model.Attendance, error)

	CreateGoal(ctx context.Context, goal *model.GoalEvent) error
	GetGoal(ctx context.Context, matchID, goalID uuid.UUID) (*model.GoalEvent, error)
	UpdateGoal(ctx context.Context, goal *model.GoalEvent) error
	DeleteGoal(ctx context.Context, matchID, goalID uuid.UUID) error
}
