package dto

// AnalyzeRequest 话题分析请求
type AnalyzeRequest struct {
	Topic     string `json:"topic"`
	SportType string `json:"sportType"`
}

// SuggestionsResponse 话题建议
type SuggestionsResponse struct {
	Topics []string `json:"topics"`
}

// ContentSuggestion 分析中给出的选题建议
type ContentSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// TopicAnalysis 完整的话题分析
type TopicAnalysis struct {
	Relevance          float64             `json:"relevance"`
	Timeliness         float64             `json:"timeliness"`
	KeyAspects         []string            `json:"keyAspects"`
	RelatedSubtopics   []string            `json:"relatedSubtopics"`
	TrendingAngles     []string            `json:"trendingAngles"`
	ContentSuggestions []ContentSuggestion `json:"contentSuggestions"`
	Analysis           string              `json:"analysis"`
}

// TopicSummary 话题分析的精简视图
type TopicSummary struct {
	Popularity    float64  `json:"popularity"`
	Trending      float64  `json:"trending"`
	RelatedTopics []string `json:"relatedTopics"`
	KeyInsights   []string `json:"keyInsights"`
	Summary       string   `json:"summary"`
}

// OpenAIHealth 补全服务配置状态
type OpenAIHealth struct {
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"apiKeyConfigured"`
	KeyLength        int    `json:"keyLength"`
}
