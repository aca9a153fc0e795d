package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/internal/model/dto"
)

// DefaultSport 话题摘要未指定运动时使用
const DefaultSport = "general"

type TopicService struct {
	llm    Completer
	logger *zap.Logger
}

func NewTopicService(llm Completer, logger *zap.Logger) *TopicService {
	return &TopicService{llm: llm, logger: logger}
}

type suggestionsPayload struct {
	Topics *[]any `json:"topics"`
}

func (p *suggestionsPayload) Validate() error {
	if p.Topics == nil {
		return errors.New("missing topics array")
	}
	return nil
}

type analysisPayload struct {
	dto.TopicAnalysis
}

func (p *analysisPayload) Validate() error {
	if p.Relevance == 0 || strings.TrimSpace(p.Analysis) == "" {
		return errors.New("missing relevance or analysis")
	}
	return nil
}

// Suggest 获取某项运动的热门选题
func (s *TopicService) Suggest(ctx context.Context, sport string) ([]string, error) {
	sport = strings.TrimSpace(sport)
	if sport == "" {
		return nil, fmt.Errorf("%w: sport is required", ErrValidation)
	}

	var out suggestionsPayload
	if err := s.llm.CompleteJSON(ctx, opSuggestTopics, strategistPrompt, suggestionsPrompt(sport), &out); err != nil {
		s.logger.Warn("topic suggestions failed", zap.String("sport", sport), zap.Error(err))
		return nil, err
	}

	topics := make([]string, 0, len(*out.Topics))
	for _, v := range *out.Topics {
		if t, ok := v.(string); ok && strings.TrimSpace(t) != "" {
			topics = append(topics, strings.TrimSpace(t))
		}
	}
	return topics, nil
}

// Analyze 深度分析话题
func (s *TopicService) Analyze(ctx context.Context, topic, sport string) (*dto.TopicAnalysis, error) {
	topic = strings.TrimSpace(topic)
	sport = strings.TrimSpace(sport)
	if topic == "" || sport == "" {
		return nil, fmt.Errorf("%w: topic and sport type are required", ErrValidation)
	}

	var out analysisPayload
	if err := s.llm.CompleteJSON(ctx, opAnalyzeTopic, analystPrompt, analysisPrompt(topic, sport), &out); err != nil {
		s.logger.Warn("topic analysis failed", zap.String("topic", topic), zap.Error(err))
		return nil, err
	}

	analysis := out.TopicAnalysis
	analysis.KeyAspects = nonNil(analysis.KeyAspects)
	analysis.RelatedSubtopics = nonNil(analysis.RelatedSubtopics)
	analysis.TrendingAngles = nonNil(analysis.TrendingAngles)
	if analysis.ContentSuggestions == nil {
		analysis.ContentSuggestions = []dto.ContentSuggestion{}
	}
	return &analysis, nil
}

// Summary 话题分析的精简视图，sport 为空时按 general 处理
func (s *TopicService) Summary(ctx context.Context, topic, sport string) (*dto.TopicSummary, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrValidation)
	}
	if strings.TrimSpace(sport) == "" {
		sport = DefaultSport
	}

	analysis, err := s.Analyze(ctx, topic, sport)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("topic analysis summarized",
		zap.String("topic", topic),
		zap.Float64("relevance", analysis.Relevance),
		zap.Float64("timeliness", analysis.Timeliness))

	return &dto.TopicSummary{
		Popularity:    analysis.Relevance,
		Trending:      analysis.Timeliness,
		RelatedTopics: analysis.RelatedSubtopics,
		KeyInsights:   analysis.KeyAspects,
		Summary:       analysis.Analysis,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
