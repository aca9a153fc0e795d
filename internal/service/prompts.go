package service

import (
	"fmt"
	"strings"

	"github.com/qs3c/sports_content_server/internal/model"
	"github.com/qs3c/sports_content_server/internal/model/dto"
)

// 补全操作名，用于指标标签
const (
	opGenerateContent = "generate_content"
	opSuggestTopics   = "suggest_topics"
	opAnalyzeTopic    = "analyze_topic"
)

const (
	articleSystemPrompt = "You are a professional sports writer creating engaging articles. Return responses in JSON format."
	scriptSystemPrompt  = "You are a professional video script writer creating engaging sports content. Return responses in JSON format."
	strategistPrompt    = "You are a sports content strategist. Return responses in JSON format."
	analystPrompt       = "You are an expert sports analyst with deep knowledge of current sports trends and content strategy. Return responses in JSON format."
)

func contentSystemPrompt(contentType string) string {
	if contentType == model.ContentTypeArticle {
		return articleSystemPrompt
	}
	return scriptSystemPrompt
}

func contentPrompt(req *dto.GenerateRequest) string {
	kind := "video script"
	if req.Type == model.ContentTypeArticle {
		kind = "detailed article"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s about %s\n", kind, req.Topic)
	fmt.Fprintf(&b, "in the context of %s.\n", req.SportType)
	if req.Tone != "" {
		fmt.Fprintf(&b, "Use a %s tone.\n", req.Tone)
	}
	fmt.Fprintf(&b, "Target length: %d words.\n\n", req.Length)
	b.WriteString("Return the response as a JSON object with this exact structure:\n")
	fmt.Fprintf(&b, `{
  "content": "The full %s content here",
  "metadata": {
    "wordCount": number,
    "suggestedTags": ["tag1", "tag2", "tag3"]
  }
}`, req.Type)
	return b.String()
}

func suggestionsPrompt(sport string) string {
	return fmt.Sprintf(`Generate 5 trending and engaging sports content topics for %s.
Return the response as a JSON object with exactly this structure:
{
  "topics": [
    "topic1",
    "topic2",
    "topic3",
    "topic4",
    "topic5"
  ]
}`, sport)
}

func analysisPrompt(topic, sport string) string {
	return fmt.Sprintf(`Perform an in-depth analysis of the sports topic: %q in the context of %s.

Return the response as a JSON object with exactly this structure:
{
  "relevance": number between 1-10 indicating topic relevance,
  "timeliness": number between 1-10 indicating how timely/current the topic is,
  "keyAspects": ["main aspect 1", "main aspect 2", etc],
  "relatedSubtopics": ["related topic 1", "related topic 2", etc],
  "trendingAngles": ["trending angle 1", "trending angle 2", etc],
  "contentSuggestions": [
    {
      "title": "suggested content title",
      "description": "brief description of the content angle",
      "type": "article" or "script"
    }
  ],
  "analysis": "detailed analysis paragraph explaining the topic's significance"
}`, topic, sport)
}
