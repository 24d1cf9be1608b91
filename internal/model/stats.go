package model

import "github.com/google/uuid"

// PlayerStats is one row of raw per-player counts produced by the aggregate
// queries. It is not a table.
type PlayerStats struct {
	PlayerID     uuid.UUID `db:"player_id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	ProfileImage string    `db:"profile_image"`
	Position     Position  `db:"position"`
	Goals        int       `db:"goals"`
	Assists      int       `db:"assists"`
	Presences    int       `db:"presences"`
	PrizePoints  int       `db:"prize_points"`
}

func (s *PlayerStats) FullName() string {
	p := Player{Username: s.Username, FirstName: s.FirstName, LastName: s.LastName}
	return p.FullName()
}

// PlayerTotals are lifetime numbers for one player across every group.
type PlayerTotals struct {
	GroupCount int `db:"group_count"`
	MatchCount int `db:"match_count"`
	Goals      int `db:"goals"`
	Assists    int `db:"assists"`
}
