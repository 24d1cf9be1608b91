package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rachas/hub/internal/config"
	"rachas/hub/internal/handler/middleware"
	jwtpkg "rachas/hub/pkg/jwt"
	"rachas/hub/pkg/validator"
)

type Handlers struct {
	Auth        *AuthHandler
	Player      *PlayerHandler
	Group       *GroupHandler
	Prize       *PrizeHandler
	Match       *MatchHandler
	JoinRequest *JoinRequestHandler
}

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	h Handlers,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.UseJSONNames()

	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Uploaded images written by the local media store.
	if cfg.Media.Root != "" {
		r.Static("/media", cfg.Media.Root)
	}

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/players", h.Player.Register)
		public.POST("/auth/login", h.Auth.Login)
		public.POST("/auth/refresh", h.Auth.Refresh)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		protected.POST("/auth/logout", h.Auth.Logout)

		players := protected.Group("/players")
		players.GET("/me", h.Player.Me)
		players.PUT("/me", h.Player.UpdateMe)
		players.PATCH("/me", h.Player.UpdateMe)
		players.GET("/me/dashboard", h.Player.Dashboard)
		players.GET("/ranking_global", h.Player.GlobalRanking)
		players.GET("/:id", h.Player.Get)

		groups := protected.Group("/groups")
		groups.POST("", h.Group.Create)
		groups.GET("/mine", h.Group.ListMine)
		groups.GET("/:id", h.Group.Get)
		groups.PUT("/:id", h.Group.Update)
		groups.POST("/:id/join_by_code", h.Group.JoinByCode)
		groups.GET("/:id/members", h.Group.Members)
		groups.DELETE("/:id/members/:player_id", h.Group.RemoveMember)
		groups.GET("/:id/ranking", h.Group.Ranking)
		groups.GET("/:id/top_scorers", h.Group.TopScorers)
		groups.GET("/:id/top_assists", h.Group.TopAssists)

		prizes := protected.Group("/prizes")
		prizes.POST("", h.Prize.Create)
		prizes.GET("", h.Prize.List)
		prizes.PUT("/:id", h.Prize.Update)
		prizes.DELETE("/:id", h.Prize.Delete)

		matches := protected.Group("/matches")
		matches.POST("", h.Match.Create)
		matches.GET("", h.Match.List)
		matches.GET("/:id", h.Match.Get)
		matches.GET("/:id/members", h.Match.Members)
		matches.POST("/:id/add_player", h.Match.AddPlayer)
		matches.POST("/:id/record_attendance", h.Match.RecordAttendance)
		matches.POST("/:id/record_goal", h.Match.RecordGoal)
		matches.PUT("/:id/records/:record_id", h.Match.UpdateGoal)
		matches.DELETE("/:id/records/:record_id", h.Match.DeleteGoal)
		matches.POST("/:id/award_prize", h.Match.AwardPrize)
		matches.POST("/:id/finalize", h.Match.Finalize)

		joinRequests := protected.Group("/join_requests")
		joinRequests.POST("", h.JoinRequest.Create)
		joinRequests.GET("", h.JoinRequest.List)
		joinRequests.POST("/:id/approve", h.JoinRequest.Approve)
		joinRequests.POST("/:id/deny", h.JoinRequest.Deny)
	}

	return r
}
