package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rachas/hub/internal/model"
)

const groupStatsQuery = `
SELECT p.id AS player_id, p.username, p.first_name, p.last_name, p.profile_image, p.position,
       COALESCE(g.goals, 0)        AS goals,
       COALESCE(a.assists, 0)      AS assists,
       COALESCE(pr.presences, 0)   AS presences,
       COALESCE(pz.prize_points, 0) AS prize_points
FROM memberships m
JOIN players p ON p.id = m.player_id
LEFT JOIN (
    SELECT ge.scorer_id AS player_id, COUNT(*) AS goals
    FROM goal_events ge JOIN matches mt ON mt.id = ge.match_id
    WHERE mt.group_id = $1
    GROUP BY ge.scorer_id
) g ON g.player_id = m.player_id
LEFT JOIN (
    SELECT ge.assister_id AS player_id, COUNT(*) AS assists
    FROM goal_events ge JOIN matches mt ON mt.id = ge.match_id
    WHERE mt.group_id = $1 AND ge.assister_id IS NOT NULL
    GROUP BY ge.assister_id
) a ON a.player_id = m.player_id
LEFT JOIN (
    SELECT at.player_id, COUNT(*) AS presences
    FROM attendances at JOIN matches mt ON mt.id = at.match_id
    WHERE mt.group_id = $1 AND at.present
    GROUP BY at.player_id
) pr ON pr.player_id = m.player_id
LEFT JOIN (
    SELECT pa.player_id, SUM(z.point_value) AS prize_points
    FROM prize_awards pa
    JOIN matches mt ON mt.id = pa.match_id
    JOIN prizes z ON z.id = pa.prize_id
    WHERE mt.group_id = $1
    GROUP BY pa.player_id
) pz ON pz.player_id = m.player_id
WHERE m.group_id = $1 AND m.active`

const globalStatsQuery = `
SELECT p.id AS player_id, p.username, p.first_name, p.last_name, p.profile_image, p.position,
       COALESCE(g.goals, 0)   AS goals,
       COALESCE(a.assists, 0) AS assists,
       0 AS presences,
       0 AS prize_points
FROM players p
LEFT JOIN (
    SELECT scorer_id AS player_id, COUNT(*) AS goals FROM goal_events GROUP BY scorer_id
) g ON g.player_id = p.id
LEFT JOIN (
    SELECT assister_id AS player_id, COUNT(*) AS assists
    FROM goal_events WHERE assister_id IS NOT NULL GROUP BY assister_id
) a ON a.player_id = p.id
WHERE COALESCE(g.goals, 0) + COALESCE(a.assists, 0) > 0`

const playerTotalsQuery = `
SELECT
    (SELECT COUNT(*) FROM groups gr
      WHERE gr.id IN (SELECT group_id FROM group_admins WHERE player_id = $1)
         OR gr.id IN (SELECT group_id FROM memberships WHERE player_id = $1 AND active)) AS group_count,
    (SELECT COUNT(*) FROM attendances WHERE player_id = $1 AND present) AS match_count,
    (SELECT COUNT(*) FROM goal_events WHERE scorer_id = $1) AS goals,
    (SELECT COUNT(*) FROM goal_events WHERE assister_id = $1) AS assists`

const bestAssisterQuery = `
SELECT p.id AS player_id, p.username, p.first_name, p.last_name, p.profile_image, p.position,
       0 AS goals, COUNT(*) AS assists, 0 AS presences, 0 AS prize_points
FROM goal_events ge
JOIN players p ON p.id = ge.assister_id
WHERE ge.scorer_id = $1
GROUP BY p.id, p.username, p.first_name, p.last_name, p.profile_image, p.position
ORDER BY assists DESC, p.id ASC
LIMIT 1`

type pgStatsRepository struct {
	db *sqlx.DB
}

// NewPGStatsRepository takes an sqlx handle, usually wrapping the *sql.DB
// behind the gorm connection so both share one pool.
func NewPGStatsRepository(db *sqlx.DB) StatsRepository {
	return &pgStatsRepository{db: db}
}

func (r *pgStatsRepository) GroupStats(ctx context.Context, groupID uuid.UUID) ([]model.PlayerStats, error) {
	rows := []model.PlayerStats{}
	if err := r.db.SelectContext(ctx, &rows, groupStatsQuery, groupID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pgStatsRepository) GlobalStats(ctx context.Context) ([]model.PlayerStats, error) {
	rows := []model.PlayerStats{}
	if err := r.db.SelectContext(ctx, &rows, globalStatsQuery); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pgStatsRepository) PlayerTotals(ctx context.Context, playerID uuid.UUID) (*model.PlayerTotals, error) {
	var totals model.PlayerTotals
	if err := r.db.GetContext(ctx, &totals, playerTotalsQuery, playerID); err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *pgStatsRepository) BestAssister(ctx context.Context, playerID uuid.UUID) (*model.PlayerStats, error) {
	var row model.PlayerStats
	err := r.db.GetContext(ctx, &row, bestAssisterQuery, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
