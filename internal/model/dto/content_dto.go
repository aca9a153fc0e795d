package dto

// GenerateRequest 内容生成请求
type GenerateRequest struct {
	Topic     string `json:"topic" binding:"required,max=500"`
	Type      string `json:"type" binding:"required,oneof=article script"`
	SportType string `json:"sportType" binding:"required,max=100"`
	Tone      string `json:"tone,omitempty" binding:"omitempty,max=100"`
	Length    int    `json:"length" binding:"required,min=100,max=2000"`
}

// 生成长度范围（词）
const (
	MinLength = 100
	MaxLength = 2000
)
