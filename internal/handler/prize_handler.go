package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rachas/hub/internal/service"
	"rachas/hub/pkg/media"
	"rachas/hub/pkg/response"
)

type PrizeHandler struct {
	prizeService service.PrizeService
	present      presenter
}

func NewPrizeHandler(prizeService service.PrizeService, urls *media.URLResolver) *PrizeHandler {
	return &PrizeHandler{prizeService: prizeService, present: presenter{urls: urls}}
}

type CreatePrizeRequest struct {
	GroupID    uuid.UUID `json:"group_id" binding:"required"`
	Name       string    `json:"name" binding:"required,max=255"`
	PointValue int       `json:"point_value" binding:"min=0"`
	Active     *bool     `json:"active"`
}

type UpdatePrizeRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=255"`
	PointValue *int    `json:"point_value" binding:"omitempty,min=0"`
	Active     *bool   `json:"active"`
}

func (h *PrizeHandler) Create(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	var req CreatePrizeRequest
	if !bindJSON(c, &req) {
		return
	}

	prize, err := h.prizeService.Create(c.Request.Context(), actorID, service.CreatePrizeInput{
		GroupID:    req.GroupID,
		Name:       req.Name,
		PointValue: req.PointValue,
		Active:     req.Active,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, h.present.prize(prize))
}

// List returns prizes of the groups the caller administers, optionally
// narrowed with ?group=<id>.
func (h *PrizeHandler) List(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	var groupID *uuid.UUID
	if raw := c.Query("group"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.ValidationError(c, "invalid group", map[string]string{"group": "must be a UUID"})
			return
		}
		groupID = &id
	}

	prizes, err := h.prizeService.List(c.Request.Context(), actorID, groupID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]PrizeResponse, 0, len(prizes))
	for i := range prizes {
		out = append(out, h.present.prize(&prizes[i]))
	}
	response.Success(c, out)
}

func (h *PrizeHandler) Update(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	prizeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePrizeRequest
	if !bindJSON(c, &req) {
		return
	}

	prize, err := h.prizeService.Update(c.Request.Context(), actorID, prizeID, service.UpdatePrizeInput{
		Name:       req.Name,
		PointValue: req.PointValue,
		Active:     req.Active,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.prize(prize))
}

func (h *PrizeHandler) Delete(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	prizeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.prizeService.Delete(c.Request.Context(), actorID, prizeID); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, nil)
}
