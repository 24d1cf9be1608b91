package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rachas/hub/internal/service"
	"rachas/hub/pkg/media"
	"rachas/hub/pkg/response"
)

type MatchHandler struct {
	matchService service.MatchService
	present      presenter
}

func NewMatchHandler(matchService service.MatchService, urls *media.URLResolver) *MatchHandler {
	return &MatchHandler{matchService: matchService, present: presenter{urls: urls}}
}

type CreateMatchRequest struct {
	GroupID   uuid.UUID  `json:"group_id" binding:"required"`
	StartTime *time.Time `json:"start_time"`
	Location  string     `json:"location" binding:"max=255"`
	TimeLabel string     `json:"time_label" binding:"max=50"`
}

type PlayerRequest struct {
	PlayerID uuid.UUID `json:"player_id" binding:"required"`
}

type AttendanceRequest struct {
	PlayerID uuid.UUID `json:"player_id" binding:"required"`
	Present  *bool     `json:"present"`
}

type RecordGoalRequest struct {
	ScorerID   uuid.UUID  `json:"scorer_id" binding:"required"`
	AssisterID *uuid.UUID `json:"assister_id"`
}

// UpdateGoalRequest keeps assister_id raw so an explicit null (clear the
// assist) can be told apart from an absent key (leave it alone).
type UpdateGoalRequest struct {
	ScorerID   *uuid.UUID      `json:"scorer_id"`
	AssisterID json.RawMessage `json:"assister_id"`
}

type AwardPrizeRequest struct {
	PrizeID  uuid.UUID `json:"prize_id" binding:"required"`
	PlayerID uuid.UUID `json:"player_id" binding:"required"`
}

func (h *MatchHandler) Create(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	var req CreateMatchRequest
	if !bindJSON(c, &req) {
		return
	}

	match, err := h.matchService.Create(c.Request.Context(), actorID, service.CreateMatchInput{
		GroupID:   req.GroupID,
		StartTime: req.StartTime,
		Location:  req.Location,
		TimeLabel: req.TimeLabel,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, h.present.matchSummary(match))
}

func (h *MatchHandler) List(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	matches, err := h.matchService.List(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]MatchSummary, 0, len(matches))
	for i := range matches {
		out = append(out, h.present.matchSummary(&matches[i]))
	}
	response.Success(c, out)
}

func (h *MatchHandler) Get(c *gin.Context) {
	actorID, matchID, ok := h.target(c)
	if !ok {
		return
	}

	view, err := h.matchService.Get(c.Request.Context(), actorID, matchID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.matchDetail(view))
}

func (h *MatchHandler) Members(c *gin.Context) {
	actorID, matchID, ok := h.target(c)
	if !ok {
		return
	}

	attendances, err := h.matchService.Members(c.Request.Context(), actorID, matchID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]PlayerSummary, 0, len(attendances))
	for i := range attendances {
		out = append(out, h.present.player(&attendances[i].Player))
	}
	response.Success(c, out)
}

func (h *MatchHandler) AddPlayer(c *gin.Context) {
	actorID, matchID, ok := h.target(c)
	if !ok {
		return
	}
	var req PlayerRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.matchService.AddPlayer(c.Request.Context(), actorID, matchID, req.PlayerID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.attendance(a))
}

// RecordAttendance upserts the present flag; it defaults to true.
func (h *MatchHandler) RecordAttendance(c *gin.Context) {
	actorID, matchID, ok := h.target(c)
	if !ok {
		return
	}
	var req AttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	present := true
	if req.Present != nil {
		present = *req.Present
	}

	a, err := h.matchService.RecordAttendance(c.Request.Context(), actorID, matchID, req.PlayerID, present)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.attendance(a))
}

func (h *MatchHandler) RecordGoal(c *gin.Context) {
	actorID, matchID, ok := h.target(c)
	if !ok {
		return
	}
	var req RecordGoalRequest
	if !bindJSON(c, &req) {
		return
	}

	goal, err := h.matchService.RecordGoal(c.Request.Context(), actorID, matchID, req.ScorerID, req.AssisterID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, h.present.goal(goal))
}

func (h *MatchHandler) UpdateGoal(c *gin.Context) {
	actorID, matchID, ok := h.target(c)
	if !ok {
		return
	}
	goalID, ok := uuidParam(c, "record_id")
	if !ok {
		return
	}
	var req UpdateGoalRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.UpdateGoalInput{ScorerID: req.ScorerID}
	if len(req.AssisterID) > 0 {
		input.SetAssister = true
		if err := json.Unmarshal(req.AssisterID, &input.AssisterID); err != nil {
			response.ValidationError(c, "invalid request", map[string]string{"assister_id": "must be a UUID or null"})
			return
		}
	}

	goal, err := h.matchService.UpdateGoal(c.Request.Context(), actorID, matchID, goalID, input)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.goal(goal))
}

func (h *MatchHandler) DeleteGoal(c *gin.Context) {
	actorID, matchID, ok := h.target(c)
	if !ok {
		return
	}
	goalID, ok := uuidParam(c, "record_id")
	if !ok {
		return
	}

	if err := h.matchService.DeleteGoal(c.Request.Context(), actorID, matchID, goalID); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, nil)
}

func (h *MatchHandler) AwardPrize(c *gin.Context) {
	actorID, matchID, ok := h.target(c)
	if !ok {
		return
	}
	var req AwardPrizeRequest
	if !bindJSON(c, &req) {
		return
	}

	award, err := h.matchService.AwardPrize(c.Request.Context(), actorID, matchID, req.PrizeID, req.PlayerID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, h.present.award(award))
}

func (h *MatchHandler) Finalize(c *gin.Context) {
	actorID, matchID, ok := h.target(c)
	if !ok {
		return
	}

	view, err := h.matchService.Finalize(c.Request.Context(), actorID, matchID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.matchDetail(view))
}

func (h *MatchHandler) target(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	actorID, ok := actor(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	matchID, ok := uuidParam(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return actorID, matchID, true
}
