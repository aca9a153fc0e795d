package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/sports_content_server/internal/model"
	"github.com/qs3c/sports_content_server/internal/model/dto"
	"github.com/qs3c/sports_content_server/internal/pkg/metrics"
	"github.com/qs3c/sports_content_server/internal/repository"
)

var (
	ErrContentNotFound  = errors.New("content not found")
	ErrContentForbidden = errors.New("forbidden")
)

type ContentService struct {
	contentRepo *repository.ContentRepository
	userRepo    *repository.UserRepository
	quota       *QuotaService
	llm         Completer
	logger      *zap.Logger
}

func NewContentService(
	contentRepo *repository.ContentRepository,
	userRepo *repository.UserRepository,
	quota *QuotaService,
	llm Completer,
	logger *zap.Logger,
) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		userRepo:    userRepo,
		quota:       quota,
		llm:         llm,
		logger:      logger,
	}
}

// generatedContent 补全接口返回的内容结构
type generatedContent struct {
	Content  string `json:"content"`
	Metadata *struct {
		WordCount     json.RawMessage `json:"wordCount"`
		SuggestedTags json.RawMessage `json:"suggestedTags"`
	} `json:"metadata"`
}

func (g *generatedContent) Validate() error {
	if strings.TrimSpace(g.Content) == "" {
		return errors.New("missing content")
	}
	if g.Metadata == nil {
		return errors.New("missing metadata")
	}
	return nil
}

// Generate 生成内容并保存到用户历史
func (s *ContentService) Generate(ctx context.Context, userID int64, req *dto.GenerateRequest) (*model.ContentItem, error) {
	if err := validateGenerate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	// 开启额度限制时，检查在调用补全接口之前
	if err := s.quota.CheckQuota(user); err != nil {
		return nil, err
	}

	var out generatedContent
	if err := s.llm.CompleteJSON(ctx, opGenerateContent, contentSystemPrompt(req.Type), contentPrompt(req), &out); err != nil {
		s.logger.Warn("content generation failed",
			zap.Int64("user_id", userID),
			zap.String("type", req.Type),
			zap.Error(err))
		return nil, err
	}

	params, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	item := &model.ContentItem{
		UserID:    userID,
		Topic:     req.Topic,
		Type:      req.Type,
		SportType: req.SportType,
		Prompt:    string(params),
		Content:   out.Content,
		Metadata: model.ContentMetadata{
			WordCount:     resolveWordCount(out.Metadata.WordCount, out.Content),
			SuggestedTags: parseTags(out.Metadata.SuggestedTags),
			Created:       time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := s.contentRepo.Create(item); err != nil {
		return nil, fmt.Errorf("save content: %w", err)
	}

	metrics.ContentGeneratedTotal.WithLabelValues(item.Type).Inc()
	s.logger.Info("content generated",
		zap.Int64("user_id", userID),
		zap.Int64("content_id", item.ID),
		zap.String("type", item.Type),
		zap.Int("word_count", item.Metadata.WordCount))

	return item, nil
}

// List 获取用户全部内容，最新的在前
func (s *ContentService) List(userID int64) ([]*model.ContentItem, error) {
	items, err := s.contentRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.ContentItem{}
	}
	return items, nil
}

// Get 获取单条内容，只有所有者可见
func (s *ContentService) Get(userID, id int64) (*model.ContentItem, error) {
	item, err := s.contentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrContentForbidden
	}
	return item, nil
}

func validateGenerate(req *dto.GenerateRequest) error {
	req.Topic = strings.TrimSpace(req.Topic)
	req.SportType = strings.TrimSpace(req.SportType)
	req.Tone = strings.TrimSpace(req.Tone)

	switch {
	case req.Topic == "":
		return fmt.Errorf("%w: topic is required", ErrValidation)
	case req.SportType == "":
		return fmt.Errorf("%w: sportType is required", ErrValidation)
	case req.Type != model.ContentTypeArticle && req.Type != model.ContentTypeScript:
		return fmt.Errorf("%w: type must be article or script", ErrValidation)
	case req.Length < dto.MinLength || req.Length > dto.MaxLength:
		return fmt.Errorf("%w: length must be between %d and %d", ErrValidation, dto.MinLength, dto.MaxLength)
	}
	return nil
}

// resolveWordCount 优先使用模型给出的非负整数，否则按正文统计
func resolveWordCount(reported json.RawMessage, content string) int {
	var n float64
	if err := json.Unmarshal(reported, &n); err == nil {
		if n >= 0 && n == math.Trunc(n) && n <= math.MaxInt32 {
			return int(n)
		}
	}
	return len(strings.Fields(content))
}

// parseTags 只保留非空字符串标签
func parseTags(raw json.RawMessage) []string {
	tags := []string{}
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return tags
	}
	for _, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			tags = append(tags, strings.TrimSpace(s))
		}
	}
	return tags
}
