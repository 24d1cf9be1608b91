package handler

import (
	"github.com/gin-gonic/gin"

	"rachas/hub/internal/service"
	"rachas/hub/pkg/media"
	"rachas/hub/pkg/response"
)

type GroupHandler struct {
	groupService       service.GroupService
	joinRequestService service.JoinRequestService
	rankingService     service.RankingService
	present            presenter
}

func NewGroupHandler(
	groupService service.GroupService,
	joinRequestService service.JoinRequestService,
	rankingService service.RankingService,
	urls *media.URLResolver,
) *GroupHandler {
	return &GroupHandler{
		groupService:       groupService,
		joinRequestService: joinRequestService,
		rankingService:     rankingService,
		present:            presenter{urls: urls},
	}
}

type CreateGroupRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	Description   string  `json:"description"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	PointGoal     int     `json:"point_goal" binding:"min=0"`
	PointAssist   int     `json:"point_assist" binding:"min=0"`
	PointPresence int     `json:"point_presence" binding:"min=0"`
}

type UpdateGroupRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description   *string `json:"description"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	PointGoal     *int    `json:"point_goal" binding:"omitempty,min=0"`
	PointAssist   *int    `json:"point_assist" binding:"omitempty,min=0"`
	PointPresence *int    `json:"point_presence" binding:"omitempty,min=0"`
}

type InviteCodeRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	var req CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	start, fields := parseDate("start_date", req.StartDate)
	if fields != nil {
		response.ValidationError(c, "invalid request", fields)
		return
	}
	end, fields := parseDate("end_date", req.EndDate)
	if fields != nil {
		response.ValidationError(c, "invalid request", fields)
		return
	}

	view, err := h.groupService.Create(c.Request.Context(), actorID, service.CreateGroupInput{
		Name:          req.Name,
		Description:   req.Description,
		StartDate:     start,
		EndDate:       end,
		PointGoal:     req.PointGoal,
		PointAssist:   req.PointAssist,
		PointPresence: req.PointPresence,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, h.present.groupSummary(view))
}

func (h *GroupHandler) ListMine(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	views, err := h.groupService.ListMine(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]GroupSummary, 0, len(views))
	for i := range views {
		out = append(out, h.present.groupSummary(&views[i]))
	}
	response.Success(c, out)
}

func (h *GroupHandler) Get(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	view, err := h.groupService.Get(c.Request.Context(), actorID, groupID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.groupDetail(view))
}

func (h *GroupHandler) Update(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	start, fields := parseDate("start_date", req.StartDate)
	if fields != nil {
		response.ValidationError(c, "invalid request", fields)
		return
	}
	end, fields := parseDate("end_date", req.EndDate)
	if fields != nil {
		response.ValidationError(c, "invalid request", fields)
		return
	}

	view, err := h.groupService.Update(c.Request.Context(), actorID, groupID, service.UpdateGroupInput{
		Name:          req.Name,
		Description:   req.Description,
		StartDate:     start,
		EndDate:       end,
		PointGoal:     req.PointGoal,
		PointAssist:   req.PointAssist,
		PointPresence: req.PointPresence,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.groupDetail(view))
}

// JoinByCode files a join request for the group in the path.
func (h *GroupHandler) JoinByCode(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req InviteCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	jr, err := h.joinRequestService.SubmitToGroup(c.Request.Context(), actorID, groupID, req.InviteCode)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, h.present.joinRequest(jr))
}

func (h *GroupHandler) Members(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	members, err := h.groupService.Members(c.Request.Context(), actorID, groupID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]MembershipResponse, 0, len(members))
	for i := range members {
		out = append(out, h.present.membership(&members[i]))
	}
	response.Success(c, out)
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	playerID, ok := uuidParam(c, "player_id")
	if !ok {
		return
	}

	if err := h.groupService.RemoveMember(c.Request.Context(), actorID, groupID, playerID); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, nil)
}

func (h *GroupHandler) Ranking(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.rankingService.GroupRanking(c.Request.Context(), actorID, groupID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.ranking(entries))
}

func (h *GroupHandler) TopScorers(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.rankingService.TopScorers(c.Request.Context(), actorID, groupID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.topScorers(entries))
}

func (h *GroupHandler) TopAssists(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.rankingService.TopAssists(c.Request.Context(), actorID, groupID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.topAssists(entries))
}
