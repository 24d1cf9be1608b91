package repository

import (
	"context"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
)

// StatsRepository runs the aggregate queries behind rankings and dashboards.
type StatsRepository interface {
	// GroupStats returns one row per active member of the group, zeros included.
	GroupStats(ctx context.Context, groupID uuid.UUID) ([]model.PlayerStats, error)
	// GlobalStats returns goals and assists across all groups for every player
	// with at least one of either.
	GlobalStats(ctx context.Context) ([]model.PlayerStats, error)
	PlayerTotals(ctx context.Context, playerID uuid.UUID) (*model.PlayerTotals, error)
	// BestAssister returns the player who assisted playerID's goals most,
	// with the count in Assists, or nil when nobody has.
	BestAssister(ctx context.Context, playerID uuid.UUID) (*model.PlayerStats, error)
}
