package ranking

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"rachas/hub/internal/model"
)

// TieMode decides the position given to entries that compare equal.
type TieMode string

const (
	// TieOrdinal numbers entries 1,2,3,4 even when tied.
	TieOrdinal TieMode = "ordinal"
	// TieStandard shares a position and skips the next ones: 1,2,2,4.
	TieStandard TieMode = "standard"
	// TieDense shares a position without gaps: 1,2,2,3.
	TieDense TieMode = "dense"
)

func ParseTieMode(s string) (TieMode, error) {
	switch m := TieMode(s); m {
	case TieOrdinal, TieStandard, TieDense:
		return m, nil
	case "":
		return TieOrdinal, nil
	}
	return "", fmt.Errorf("unknown tie mode %q", s)
}

type Ranker struct {
	mode TieMode
}

func NewRanker(mode TieMode) *Ranker {
	if mode == "" {
		mode = TieOrdinal
	}
	return &Ranker{mode: mode}
}

// Group ranks every row by weighted total, highest first.
func (r *Ranker) Group(stats []model.PlayerStats, w Weights) []Entry {
	entries := AggregateGroup(stats, w)
	r.rank(entries, byScore)
	return entries
}

// Global ranks players with a non-zero global score, breaking ties on goals.
func (r *Ranker) Global(stats []model.PlayerStats) []Entry {
	entries := AggregateGlobal(stats)
	r.rank(entries, byScoreThenGoals)
	return entries
}

func (r *Ranker) TopScorers(stats []model.PlayerStats) []Entry {
	entries := aggregateCount(stats, func(s model.PlayerStats) int { return s.Goals })
	r.rank(entries, byScore)
	return entries
}

func (r *Ranker) TopAssists(stats []model.PlayerStats) []Entry {
	entries := aggregateCount(stats, func(s model.PlayerStats) int { return s.Assists })
	r.rank(entries, byScore)
	return entries
}

// keyFunc compares the ranking keys of two entries, higher first. Entries
// for which it returns 0 are tied.
type keyFunc func(a, b Entry) int

func byScore(a, b Entry) int {
	return cmp.Compare(b.Score, a.Score)
}

func byScoreThenGoals(a, b Entry) int {
	if c := byScore(a, b); c != 0 {
		return c
	}
	return cmp.Compare(b.Goals, a.Goals)
}

// rank sorts by key, then player id ascending, and assigns positions.
func (r *Ranker) rank(entries []Entry, key keyFunc) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := key(a, b); c != 0 {
			return c
		}
		return bytes.Compare(a.PlayerID[:], b.PlayerID[:])
	})

	for i := range entries {
		switch {
		case i == 0:
			entries[i].Position = 1
		case r.mode == TieOrdinal || key(entries[i-1], entries[i]) != 0:
			if r.mode == TieDense {
				entries[i].Position = entries[i-1].Position + 1
			} else {
				entries[i].Position = i + 1
			}
		default:
			entries[i].Position = entries[i-1].Position
		}
	}
}
