package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/internal/model/dto"
	"github.com/qs3c/sports_content_server/internal/pkg/response"
	"github.com/qs3c/sports_content_server/internal/service"
)

type TopicHandler struct {
	topicService *service.TopicService
	logger       *zap.Logger
}

func NewTopicHandler(topicService *service.TopicService, logger *zap.Logger) *TopicHandler {
	return &TopicHandler{
		topicService: topicService,
		logger:       logger,
	}
}

// Suggestions 获取热门选题
// GET /api/suggestions/:sport
func (h *TopicHandler) Suggestions(c *gin.Context) {
	topics, err := h.topicService.Suggest(c.Request.Context(), c.Param("sport"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, dto.SuggestionsResponse{Topics: topics})
}

// Analyze 话题深度分析
// POST /api/analyze
func (h *TopicHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Topic == "" || req.SportType == "" {
		response.ParamError(c, "Topic and sport type are required")
		return
	}

	analysis, err := h.topicService.Analyze(c.Request.Context(), req.Topic, req.SportType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, analysis)
}

// Summary 话题分析摘要
// GET /api/topic-analysis?topic=&sportType=
func (h *TopicHandler) Summary(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		response.ParamError(c, "Topic is required")
		return
	}

	summary, err := h.topicService.Summary(c.Request.Context(), topic, c.Query("sportType"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, summary)
}
