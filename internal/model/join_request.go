package model

import (
	"time"

	"github.com/google/uuid"
)

type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "PENDING"
	JoinRequestAccepted JoinRequestStatus = "ACCEPTED"
	JoinRequestDenied   JoinRequestStatus = "DENIED"
)

func (s JoinRequestStatus) Valid() bool {
	switch s {
	case JoinRequestPending, JoinRequestAccepted, JoinRequestDenied:
		return true
	}
	return false
}

// JoinRequest is an application to join a group. A player holds at most one
// request per status per group.
type JoinRequest struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_join_request_group_player_status" json:"group_id"`
	PlayerID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_join_request_group_player_status;index" json:"player_id"`
	Status    JoinRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';uniqueIndex:idx_join_request_group_player_status" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Group  Group  `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Player Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (JoinRequest) TableName() string { return "join_requests" }
