package service

import (
	"context"
	"errors"

	"github.com/qs3c/sports_content_server/internal/pkg/llm"
)

var (
	// ErrValidation 请求参数不合法，具体原因包装在错误信息中
	ErrValidation = errors.New("invalid request format")

	// 补全服务的错误直接沿用 llm 包的定义
	ErrUpstream          = llm.ErrUpstream
	ErrInvalidAIResponse = llm.ErrInvalidResponse
)

// Completer 调用补全接口并把 JSON 响应解码到 out
type Completer interface {
	CompleteJSON(ctx context.Context, operation, system, prompt string, out any) error
}
