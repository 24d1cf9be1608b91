package model

import (
	"time"

	"github.com/google/uuid"
)

type Prize struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID    uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	PointValue int       `gorm:"not null;check:point_value >= 0" json:"point_value"`
	Active     bool      `gorm:"not null" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Prize) TableName() string { return "prizes" }

type PrizeAward struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MatchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"match_id"`
	PrizeID   uuid.UUID `gorm:"type:uuid;not null;index" json:"prize_id"`
	PlayerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"player_id"`
	CreatedAt time.Time `json:"created_at"`

	Match  Match  `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"-"`
	Prize  Prize  `gorm:"foreignKey:PrizeID;constraint:OnDelete:CASCADE" json:"-"`
	Player Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PrizeAward) TableName() string { return "prize_awards" }
