package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/config"
	"github.com/qs3c/sports_content_server/internal/api/handler"
	"github.com/qs3c/sports_content_server/internal/api/middleware"
	"github.com/qs3c/sports_content_server/internal/pkg/response"
)

type Router struct {
	authHandler    *handler.AuthHandler
	contentHandler *handler.ContentHandler
	topicHandler   *handler.TopicHandler
	planHandler    *handler.PlanHandler
	healthHandler  *handler.HealthHandler
	authenticator  middleware.Authenticator
	cookie         *middleware.SessionCookie
	cfg            *config.Config
	logger         *zap.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	contentHandler *handler.ContentHandler,
	topicHandler *handler.TopicHandler,
	planHandler *handler.PlanHandler,
	healthHandler *handler.HealthHandler,
	authenticator middleware.Authenticator,
	cookie *middleware.SessionCookie,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		contentHandler: contentHandler,
		topicHandler:   topicHandler,
		planHandler:    planHandler,
		healthHandler:  healthHandler,
		authenticator:  authenticator,
		cookie:         cookie,
		cfg:            cfg,
		logger:         logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Metrics())
	engine.Use(middleware.Recovery(r.logger))
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.NoRoute(func(c *gin.Context) {
		response.NotFoundError(c, "")
	})

	engine.GET("/healthz", r.healthHandler.Healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.Use(middleware.Logger(r.logger))
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", r.authHandler.Logout)
			auth.GET("/github", r.authHandler.GithubLogin)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 公开接口 - 套餐
		api.GET("/plans", r.planHandler.Plans)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.authenticator, r.cookie, r.logger))
		{
			authenticated.GET("/auth/me", r.authHandler.Me)
			authenticated.GET("/user/quota", r.planHandler.Quota)
			authenticated.GET("/health/openai", r.healthHandler.OpenAI)

			// 内容生成与历史
			authenticated.POST("/generate", r.contentHandler.Generate)
			authenticated.GET("/content", r.contentHandler.List)
			authenticated.GET("/content/:id", r.contentHandler.Get)

			// 选题
			authenticated.GET("/suggestions/:sport", r.topicHandler.Suggestions)
			authenticated.POST("/analyze", r.topicHandler.Analyze)
			authenticated.GET("/topic-analysis", r.topicHandler.Summary)
		}
	}

	return engine
}
