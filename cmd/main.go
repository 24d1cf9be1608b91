package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"rachas/hub/internal/config"
	"rachas/hub/internal/handler"
	"rachas/hub/internal/model"
	"rachas/hub/internal/policy"
	"rachas/hub/internal/ranking"
	"rachas/hub/internal/repository"
	"rachas/hub/internal/service"
	jwtpkg "rachas/hub/pkg/jwt"
	"rachas/hub/pkg/media"
)

func main() {
	// 1. Load configuration
	cfgPath := "config.yaml"
	if p := os.Getenv("RACHAS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Connect to PostgreSQL
	db, err := config.NewPostgresDB(cfg.Database.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// Aggregate queries share gorm's pool through sqlx.
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB", zap.Error(err))
	}
	statsDB := sqlx.NewDb(sqlDB, "pgx")

	// 5. Initialize token store (Redis or in-memory)
	var tokenStore repository.TokenStore
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		tokenStore = repository.NewRedisTokenStore(redisClient)
		logger.Info("using Redis token store")
	case "memory":
		tokenStore = repository.NewMemoryTokenStore()
		logger.Info("using in-memory token store")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	// 6. Initialize repositories
	playerRepo := repository.NewPGPlayerRepository(db)
	groupRepo := repository.NewPGGroupRepository(db)
	membershipRepo := repository.NewPGMembershipRepository(db)
	prizeRepo := repository.NewPGPrizeRepository(db)
	matchRepo := repository.NewPGMatchRepository(db)
	joinRequestRepo := repository.NewPGJoinRequestRepository(db)
	statsRepo := repository.NewPGStatsRepository(statsDB)
	txManager := repository.NewGormTxManager(db)

	// 7. Initialize JWT manager
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.SigningKey,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)

	// 8. Media
	mediaStore := media.NewLocalStore(cfg.Media.Root)
	urls := media.NewURLResolver(cfg.Media.BaseURL)
	var remover media.BackgroundRemover
	if cfg.Media.BackgroundRemovalURL != "" {
		remover = media.NewHTTPBackgroundRemover(cfg.Media.BackgroundRemovalURL, cfg.Media.BackgroundRemovalTimeout)
		logger.Info("background removal enabled", zap.String("endpoint", cfg.Media.BackgroundRemovalURL))
	}

	// 9. Initialize services
	tieMode, err := ranking.ParseTieMode(cfg.Ranking.TieMode)
	if err != nil {
		logger.Fatal("invalid ranking config", zap.Error(err))
	}
	pol := policy.New(groupRepo, membershipRepo)

	playerService := service.NewPlayerService(playerRepo, mediaStore, remover, logger)
	authService := service.NewAuthService(playerRepo, tokenStore, jwtManager)
	groupService := service.NewGroupService(groupRepo, membershipRepo, txManager, pol, logger)
	prizeService := service.NewPrizeService(prizeRepo, groupRepo, pol)
	matchService := service.NewMatchService(
		matchRepo, groupRepo, playerRepo, prizeRepo, pol,
		cfg.Match.LockAfterClose, logger,
	)
	joinRequestService := service.NewJoinRequestService(
		joinRequestRepo, groupRepo, membershipRepo, txManager, pol,
		service.ReactivationPolicy(cfg.Membership.Reactivation), logger,
	)
	rankingService := service.NewRankingService(statsRepo, groupRepo, pol, ranking.NewRanker(tieMode))
	dashboardService := service.NewDashboardService(playerRepo, statsRepo)

	// 10. Initialize handlers
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Player:      handler.NewPlayerHandler(playerService, dashboardService, rankingService, urls, cfg.Server.MaxUploadBytes),
		Group:       handler.NewGroupHandler(groupService, joinRequestService, rankingService, urls),
		Prize:       handler.NewPrizeHandler(prizeService, urls),
		Match:       handler.NewMatchHandler(matchService, urls),
		JoinRequest: handler.NewJoinRequestHandler(joinRequestService, urls),
	}

	// 11. Setup router
	router := handler.SetupRouter(cfg, logger, jwtManager, handlers)

	// 12. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 13. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("closing postgres", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
