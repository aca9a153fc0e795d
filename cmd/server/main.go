package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/config"
	"github.com/qs3c/sports_content_server/internal/api"
	"github.com/qs3c/sports_content_server/internal/api/handler"
	"github.com/qs3c/sports_content_server/internal/api/middleware"
	"github.com/qs3c/sports_content_server/internal/database"
	"github.com/qs3c/sports_content_server/internal/pkg/llm"
	"github.com/qs3c/sports_content_server/internal/pkg/logger"
	"github.com/qs3c/sports_content_server/internal/pkg/oauth"
	"github.com/qs3c/sports_content_server/internal/pkg/session"
	"github.com/qs3c/sports_content_server/internal/repository"
	"github.com/qs3c/sports_content_server/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	zl.Info("database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()
	zl.Info("redis connected", zap.String("addr", cfg.Redis.Addr))

	// 初始化补全客户端
	completer, err := llm.NewOpenAI(cfg.OpenAI)
	if err != nil {
		return err
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)

	// 初始化 Service
	sessions := session.NewStore(rdb, cfg.Session.Secret, cfg.Session.MaxAge)
	authService := service.NewAuthService(userRepo, sessions, oauth.NewStateStore(rdb), zl)
	if github := service.NewGithubFromConfig(cfg.OAuth.Github); github != nil {
		authService.WithGithub(github)
		zl.Info("github login enabled")
	}
	quotaService := service.NewQuotaService(userRepo, contentRepo, cfg)
	contentService := service.NewContentService(contentRepo, userRepo, quotaService, completer, zl)
	topicService := service.NewTopicService(completer, zl)

	// 初始化 Handler
	cookie := middleware.NewSessionCookie(cfg.Session)
	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(db) },
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	router := api.NewRouter(
		handler.NewAuthHandler(authService, cookie, zl),
		handler.NewContentHandler(contentService, zl),
		handler.NewTopicHandler(topicService, zl),
		handler.NewPlanHandler(quotaService, zl),
		handler.NewHealthHandler(cfg.OpenAI.APIKey, checks, zl),
		authService,
		cookie,
		cfg,
		zl,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.Setup(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
