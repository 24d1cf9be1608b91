package handler

import (
	"github.com/gin-gonic/gin"

	"rachas/hub/internal/model"
	"rachas/hub/internal/service"
	"rachas/hub/pkg/media"
	"rachas/hub/pkg/response"
)

type JoinRequestHandler struct {
	joinRequestService service.JoinRequestService
	present            presenter
}

func NewJoinRequestHandler(joinRequestService service.JoinRequestService, urls *media.URLResolver) *JoinRequestHandler {
	return &JoinRequestHandler{joinRequestService: joinRequestService, present: presenter{urls: urls}}
}

func (h *JoinRequestHandler) Create(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	var req InviteCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	jr, err := h.joinRequestService.Submit(c.Request.Context(), actorID, req.InviteCode)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, h.present.joinRequest(jr))
}

// List returns requests for groups the caller administers, optionally
// filtered with ?status=PENDING|ACCEPTED|DENIED.
func (h *JoinRequestHandler) List(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	var status *model.JoinRequestStatus
	if raw := c.Query("status"); raw != "" {
		s := model.JoinRequestStatus(raw)
		if !s.Valid() {
			response.ValidationError(c, "invalid status", map[string]string{"status": "must be PENDING, ACCEPTED or DENIED"})
			return
		}
		status = &s
	}

	requests, err := h.joinRequestService.List(c.Request.Context(), actorID, status)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]JoinRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, h.present.joinRequest(&requests[i]))
	}
	response.Success(c, out)
}

func (h *JoinRequestHandler) Approve(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	jr, err := h.joinRequestService.Approve(c.Request.Context(), actorID, requestID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.joinRequest(jr))
}

func (h *JoinRequestHandler) Deny(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	jr, err := h.joinRequestService.Deny(c.Request.Context(), actorID, requestID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.joinRequest(jr))
}
