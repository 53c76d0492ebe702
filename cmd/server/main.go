package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ludus-server/internal/auth"
	"ludus-server/internal/config"
	apphttp "ludus-server/internal/http"
	"ludus-server/internal/repository/sqlite"
	"ludus-server/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	gameRepo := sqlite.NewGameRepository(db)
	purchaseRepo := sqlite.NewPurchaseRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := gameRepo.Init(ctx); err != nil {
		logger.Fatalf("init game repository: %v", err)
	}
	if err := purchaseRepo.Init(ctx); err != nil {
		logger.Fatalf("init purchase repository: %v", err)
	}

	codec, err := auth.NewCodec(&auth.Config{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
	})
	if err != nil {
		logger.Fatalf("setup token codec: %v", err)
	}

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userService, codec)
	gameService := service.NewGameService(gameRepo)
	purchaseService := service.NewPurchaseService(purchaseRepo, userRepo, gameRepo)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			logger.Fatalf("seed admin user: %v", err)
		}
		if created {
			logger.Info("ADMIN user created")
		}
	} else {
		logger.Warn("admin seed credentials not configured, skipping")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		authService,
		userService,
		gameService,
		purchaseService,
		codec,
		cfg.API.BaseURL,
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
