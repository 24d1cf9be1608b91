package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"rachas/hub/internal/handler/middleware"
	"rachas/hub/internal/service"
	"rachas/hub/pkg/response"
	"rachas/hub/pkg/validator"
)

const dateLayout = "2006-01-02"

var ErrNoActor = errors.New("actor not found in context")

func getActorID(c *gin.Context) (uuid.UUID, error) {
	v, exists := c.Get(middleware.ContextKeyActorID)
	if !exists {
		return uuid.Nil, ErrNoActor
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoActor
	}
	return id, nil
}

// actor writes a 401 and returns false when the request carries no actor.
func actor(c *gin.Context) (uuid.UUID, bool) {
	id, err := getActorID(c)
	if err != nil {
		response.Unauthorized(c, "unauthenticated")
		return uuid.Nil, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.ValidationError(c, "invalid "+name, map[string]string{name: "must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ValidationError(c, "invalid request", validator.ParseError(err))
		return false
	}
	return true
}

func parseDate(field string, s *string) (*time.Time, map[string]string) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, map[string]string{field: "must be a date formatted YYYY-MM-DD"}
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// writeError maps service errors onto the response envelope. Anything not
// recognised is attached to the gin context for the request logger and
// reported as a 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrRefreshTokenInvalid):
		response.Unauthorized(c, err.Error())

	case errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrInviteCodeInvalid),
		errors.Is(err, service.ErrMembershipNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrGoalNotFound),
		errors.Is(err, service.ErrPrizeNotFound),
		errors.Is(err, service.ErrJoinRequestNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrRequestNotPending),
		errors.Is(err, service.ErrMatchClosed),
		errors.Is(err, service.ErrMatchAlreadyClosed):
		response.Conflict(c, err.Error())

	case errors.Is(err, service.ErrNameRequired):
		response.ValidationError(c, err.Error(), map[string]string{"name": "must not be blank"})

	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		response.ValidationError(c, "invalid request", map[string]string{"error": "a value is out of the allowed range"})

	case errors.Is(err, service.ErrPrizeGroupMismatch),
		errors.Is(err, service.ErrNotGroupMember),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidPosition):
		response.BadRequest(c, err.Error())

	default:
		_ = c.Error(err)
		response.InternalError(c, "internal error")
	}
}
