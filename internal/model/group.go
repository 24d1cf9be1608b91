package model

import (
	"time"

	"github.com/google/uuid"
)

const InviteCodeLength = 5

// Group is a racha: a recurring pickup-game organization with its own point weights.
type Group struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Description   string     `gorm:"type:text;not null;default:''" json:"description"`
	ProfileImage  string     `gorm:"type:varchar(512);not null;default:''" json:"profile_image"`
	StartDate     *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate       *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	InviteCode    string     `gorm:"type:varchar(5);uniqueIndex;not null" json:"invite_code"`
	PointGoal     int        `gorm:"not null;default:0;check:point_goal >= 0" json:"point_goal"`
	PointAssist   int        `gorm:"not null;default:0;check:point_assist >= 0" json:"point_assist"`
	PointPresence int        `gorm:"not null;default:0;check:point_presence >= 0" json:"point_presence"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Admins []Player `gorm:"many2many:group_admins;joinForeignKey:GroupID;joinReferences:PlayerID" json:"-"`
	Prizes []Prize  `gorm:"foreignKey:GroupID" json:"-"`
}

func (Group) TableName() string { return "groups" }

// HasAdmin reports whether playerID is in the preloaded admin set.
func (g *Group) HasAdmin(playerID uuid.UUID) bool {
	for _, a := range g.Admins {
		if a.ID == playerID {
			return true
		}
	}
	return false
}
