package model

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchStatusOpen   MatchStatus = "OPEN"
	MatchStatusClosed MatchStatus = "CLOSED"
)

type Match struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"group_id"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	Status    MatchStatus `gorm:"type:varchar(10);not null;default:'OPEN'" json:"status"`
	Location  string      `gorm:"type:varchar(255);not null;default:''" json:"location"`
	TimeLabel string      `gorm:"type:varchar(50);not null;default:''" json:"time_label"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	Group       Group        `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Attendances []Attendance `gorm:"foreignKey:MatchID" json:"-"`
	Goals       []GoalEvent  `gorm:"foreignKey:MatchID" json:"-"`
	Awards      []PrizeAward `gorm:"foreignKey:MatchID" json:"-"`
}

func (Match) TableName() string { return "matches" }

func (m *Match) Closed() bool { return m.Status == MatchStatusClosed }

type Attendance struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MatchID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_match_player" json:"match_id"`
	PlayerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_match_player;index" json:"player_id"`
	Present  bool      `gorm:"not null" json:"present"`

	Match  Match  `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"-"`
	Player Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Attendance) TableName() string { return "attendances" }

// GoalEvent is one goal, optionally crediting an assist. The assister is not
// required to be an attendee of the match.
type GoalEvent struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MatchID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"match_id"`
	ScorerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"scorer_id"`
	AssisterID *uuid.UUID `gorm:"type:uuid;index" json:"assister_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	Match    Match   `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"-"`
	Scorer   Player  `gorm:"foreignKey:ScorerID;constraint:OnDelete:CASCADE" json:"-"`
	Assister *Player `gorm:"foreignKey:AssisterID;constraint:OnDelete:SET NULL" json:"-"`
}

func (GoalEvent) TableName() string { return "goal_events" }
