package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/internal/model/dto"
	"github.com/qs3c/sports_content_server/internal/pkg/response"
)

// Pinger 依赖的存活检查
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	apiKey  string
	checks  map[string]Pinger
	logger  *zap.Logger
	timeout time.Duration
}

func NewHealthHandler(apiKey string, checks map[string]Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		apiKey:  apiKey,
		checks:  checks,
		logger:  logger,
		timeout: 2 * time.Second,
	}
}

// Healthz 存活与依赖检查
// GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := gin.H{"status": "ok"}
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "dependency": name})
			return
		}
	}

	response.Success(c, status)
}

// OpenAI 补全服务配置状态
// GET /api/health/openai
func (h *HealthHandler) OpenAI(c *gin.Context) {
	configured := h.apiKey != ""
	info := dto.OpenAIHealth{
		Status:           "missing",
		APIKeyConfigured: configured,
	}
	if configured {
		info.Status = "configured"
		info.KeyLength = len(h.apiKey)
	}

	response.Success(c, info)
}
