package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership links a player to a group. Rows are deactivated, never deleted.
type Membership struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_group_player" json:"group_id"`
	PlayerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_group_player;index" json:"player_id"`
	JoinedAt time.Time `gorm:"not null;autoCreateTime" json:"joined_at"`
	Active   bool      `gorm:"not null" json:"active"`

	Group  Group  `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Player Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Membership) TableName() string { return "memberships" }
