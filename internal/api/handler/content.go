package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/internal/api/middleware"
	"github.com/qs3c/sports_content_server/internal/model/dto"
	"github.com/qs3c/sports_content_server/internal/pkg/response"
	"github.com/qs3c/sports_content_server/internal/service"
)

type ContentHandler struct {
	contentService *service.ContentService
	logger         *zap.Logger
}

func NewContentHandler(contentService *service.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		logger:         logger,
	}
}

// Generate 生成文章或视频脚本
// POST /api/generate
func (h *ContentHandler) Generate(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.contentService.Generate(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, item)
}

// List 获取生成历史
// GET /api/content
func (h *ContentHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := h.contentService.List(userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, items)
}

// Get 获取单条内容
// GET /api/content/:id
func (h *ContentHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "Invalid content id")
		return
	}

	item, err := h.contentService.Get(userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, item)
}
