// Package ranking turns raw per-player counts into scored, ordered rankings.
package ranking

import (
	"rachas/hub/internal/model"
)

// Weights are a group's points per goal, assist and presence.
type Weights struct {
	Goal     int
	Assist   int
	Presence int
}

func WeightsOf(g *model.Group) Weights {
	return Weights{Goal: g.PointGoal, Assist: g.PointAssist, Presence: g.PointPresence}
}

// WeightedTotal is goals×Goal + assists×Assist + presences×Presence + prize points.
func (w Weights) WeightedTotal(s model.PlayerStats) int {
	return s.Goals*w.Goal + s.Assists*w.Assist + s.Presences*w.Presence + s.PrizePoints
}

// GlobalScore weighs goals and assists 1:1 regardless of any group's weights.
func GlobalScore(s model.PlayerStats) int {
	return s.Goals + s.Assists
}

// Entry is one ranked player. Score holds whatever the ranking is ordered by:
// the weighted total, the global score, or a single count for top lists.
type Entry struct {
	model.PlayerStats
	Score    int
	Position int
}

// AggregateGroup scores every row with the group's weights. Rows with a zero
// total are kept.
func AggregateGroup(stats []model.PlayerStats, w Weights) []Entry {
	entries := make([]Entry, 0, len(stats))
	for _, s := range stats {
		entries = append(entries, Entry{PlayerStats: s, Score: w.WeightedTotal(s)})
	}
	return entries
}

// AggregateGlobal scores rows by GlobalScore and drops players at zero.
func AggregateGlobal(stats []model.PlayerStats) []Entry {
	entries := make([]Entry, 0, len(stats))
	for _, s := range stats {
		score := GlobalScore(s)
		if score <= 0 {
			continue
		}
		entries = append(entries, Entry{PlayerStats: s, Score: score})
	}
	return entries
}

func aggregateCount(stats []model.PlayerStats, count func(model.PlayerStats) int) []Entry {
	entries := make([]Entry, 0, len(stats))
	for _, s := range stats {
		if n := count(s); n > 0 {
			entries = append(entries, Entry{PlayerStats: s, Score: n})
		}
	}
	return entries
}
