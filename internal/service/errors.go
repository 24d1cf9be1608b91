package service

import (
	"errors"

	"gorm.io/gorm"

	"rachas/hub/internal/policy"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or revoked")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrForbidden           = policy.ErrForbidden

	ErrPlayerNotFound      = errors.New("player not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrInviteCodeInvalid   = errors.New("invite code not found")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrGoalNotFound        = errors.New("goal record not found")
	ErrPrizeNotFound       = errors.New("prize not found")
	ErrJoinRequestNotFound = errors.New("join request not found")

	ErrAlreadyMember      = errors.New("player is already a member of this group")
	ErrDuplicateRequest   = errors.New("a pending join request for this group already exists")
	ErrRequestNotPending  = errors.New("join request has already been decided")
	ErrMatchClosed        = errors.New("match is closed")
	ErrMatchAlreadyClosed = errors.New("match is already closed")

	ErrPrizeGroupMismatch = errors.New("prize does not belong to the match's group")
	ErrNotGroupMember     = errors.New("player is not an active member of this group")
	ErrInvalidDateRange   = errors.New("end date is before start date")
	ErrInvalidPosition    = errors.New("unknown position")
	ErrNameRequired       = errors.New("name must not be blank")
)

// notFound maps a missing row to sentinel and leaves other errors untouched.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
