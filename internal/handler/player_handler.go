package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rachas/hub/internal/model"
	"rachas/hub/internal/service"
	"rachas/hub/pkg/media"
	"rachas/hub/pkg/response"
	"rachas/hub/pkg/validator"
)

type PlayerHandler struct {
	playerService    service.PlayerService
	dashboardService service.DashboardService
	rankingService   service.RankingService
	present          presenter
	maxUploadBytes   int64
}

func NewPlayerHandler(
	playerService service.PlayerService,
	dashboardService service.DashboardService,
	rankingService service.RankingService,
	urls *media.URLResolver,
	maxUploadBytes int64,
) *PlayerHandler {
	return &PlayerHandler{
		playerService:    playerService,
		dashboardService: dashboardService,
		rankingService:   rankingService,
		present:          presenter{urls: urls},
		maxUploadBytes:   maxUploadBytes,
	}
}

type RegisterPlayerRequest struct {
	Username  string  `json:"username" binding:"required,max=150"`
	Email     string  `json:"email" binding:"omitempty,email"`
	FirstName string  `json:"first_name" binding:"max=150"`
	LastName  string  `json:"last_name" binding:"max=150"`
	Phone     string  `json:"phone" binding:"max=20"`
	BirthDate *string `json:"birth_date"`
	Position  string  `json:"position"`
	Password  string  `json:"password" binding:"omitempty,min=8"`
}

// UpdatePlayerRequest is bound from JSON or from multipart form fields.
type UpdatePlayerRequest struct {
	Email     *string `json:"email" form:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name" form:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" form:"last_name" binding:"omitempty,max=150"`
	Phone     *string `json:"phone" form:"phone" binding:"omitempty,max=20"`
	BirthDate *string `json:"birth_date" form:"birth_date"`
	Position  *string `json:"position" form:"position"`
	RemoveBG  bool    `json:"remove_bg" form:"remove_bg"`
}

func (h *PlayerHandler) Register(c *gin.Context) {
	var req RegisterPlayerRequest
	if !bindJSON(c, &req) {
		return
	}
	birthDate, fields := parseDate("birth_date", req.BirthDate)
	if fields != nil {
		response.ValidationError(c, "invalid request", fields)
		return
	}

	player, err := h.playerService.Register(c.Request.Context(), service.RegisterPlayerInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		BirthDate: birthDate,
		Position:  model.Position(req.Position),
		Password:  req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, h.present.playerDetail(player))
}

func (h *PlayerHandler) Me(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	player, err := h.playerService.Get(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.playerDetail(player))
}

// UpdateMe accepts either a JSON body or a multipart form carrying an
// optional "profile_image" file.
func (h *PlayerHandler) UpdateMe(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	var req UpdatePlayerRequest
	var image *service.ImageUpload
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
		if err := c.ShouldBind(&req); err != nil {
			h.bindFailed(c, err)
			return
		}
		var err error
		if image, err = h.readImage(c, req.RemoveBG); err != nil {
			h.bindFailed(c, err)
			return
		}
	} else if !bindJSON(c, &req) {
		return
	}

	input, fields := req.toInput()
	if fields != nil {
		response.ValidationError(c, "invalid request", fields)
		return
	}

	player, err := h.playerService.UpdateMe(c.Request.Context(), actorID, input, image)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.playerDetail(player))
}

func (h *PlayerHandler) readImage(c *gin.Context, removeBG bool) (*service.ImageUpload, error) {
	fh, err := c.FormFile("profile_image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.ImageUpload{Filename: fh.Filename, Data: data, RemoveBackground: removeBG}, nil
}

func (h *PlayerHandler) bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge,
			"upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
		return
	}
	response.ValidationError(c, "invalid request", validator.ParseError(err))
}

func (r *UpdatePlayerRequest) toInput() (service.UpdatePlayerInput, map[string]string) {
	in := service.UpdatePlayerInput{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
	}
	birthDate, fields := parseDate("birth_date", r.BirthDate)
	if fields != nil {
		return in, fields
	}
	in.BirthDate = birthDate
	if r.Position != nil {
		p := model.Position(*r.Position)
		in.Position = &p
	}
	return in, nil
}

func (h *PlayerHandler) Dashboard(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	d, err := h.dashboardService.Get(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.dashboard(d))
}

func (h *PlayerHandler) GlobalRanking(c *gin.Context) {
	entries, err := h.rankingService.GlobalRanking(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.globalRanking(entries))
}

func (h *PlayerHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	player, err := h.playerService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, h.present.player(player))
}
