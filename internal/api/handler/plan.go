package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/internal/api/middleware"
	"github.com/qs3c/sports_content_server/internal/pkg/response"
	"github.com/qs3c/sports_content_server/internal/service"
)

type PlanHandler struct {
	quotaService *service.QuotaService
	logger       *zap.Logger
}

func NewPlanHandler(quotaService *service.QuotaService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		quotaService: quotaService,
		logger:       logger,
	}
}

// Plans 获取套餐列表
// GET /api/plans
func (h *PlanHandler) Plans(c *gin.Context) {
	response.Success(c, h.quotaService.Plans())
}

// Quota 获取当前用户本月用量
// GET /api/user/quota
func (h *PlanHandler) Quota(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	info, err := h.quotaService.Usage(userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, info)
}
