package model

import (
	"time"

	"github.com/google/uuid"
)

type Position string

const (
	PositionGoalkeeper Position = "GOLEIRO"
	PositionCenterBack Position = "ZAGUEIRO"
	PositionFullBack   Position = "LATERAL"
	PositionDefMid     Position = "VOLANTE"
	PositionMidfielder Position = "MEIA"
	PositionForward    Position = "ATACANTE"
	// PositionDefender is kept for rows created before the split into ZAGUEIRO/LATERAL.
	PositionDefender Position = "DEFENSOR"
)

func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionCenterBack, PositionFullBack, PositionDefMid,
		PositionMidfielder, PositionForward, PositionDefender:
		return true
	}
	return false
}

type Player struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string     `gorm:"type:varchar(150);not null" json:"username"`
	Email        string     `gorm:"type:varchar(254);not null;default:''" json:"email"`
	FirstName    string     `gorm:"type:varchar(150);not null;default:''" json:"first_name"`
	LastName     string     `gorm:"type:varchar(150);not null;default:''" json:"last_name"`
	Phone        string     `gorm:"type:varchar(20);not null;default:''" json:"phone"`
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Position     Position   `gorm:"type:varchar(20);not null;default:''" json:"position"`
	ProfileImage string     `gorm:"type:varchar(512);not null;default:''" json:"profile_image"`
	PasswordHash string     `gorm:"type:varchar(255);not null;default:''" json:"-"`
	AuthUID      string     `gorm:"type:varchar(255);not null;default:''" json:"auth_uid"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Player) TableName() string { return "players" }

// FullName falls back to the username when no name parts are set.
func (p *Player) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.LastName != "":
		return p.LastName
	}
	return p.Username
}
