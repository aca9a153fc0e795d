package testutil

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// FakeCall 记录一次补全调用
type FakeCall struct {
	System   string
	Prompt   string
	JSONMode bool
}

// FakeLLM 可编排响应的 llms.Model 实现
type FakeLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     []FakeCall
}

// NewFakeLLM 按顺序返回给定响应，用完后重复最后一个
func NewFakeLLM(responses ...string) *FakeLLM {
	return &FakeLLM{responses: responses}
}

// NewFailingLLM 每次调用都返回 err
func NewFailingLLM(err error) *FakeLLM {
	return &FakeLLM{err: err}
}

func (f *FakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	call := FakeCall{JSONMode: opts.JSONMode}
	for _, m := range messages {
		text := messageText(m)
		switch m.Role {
		case schema.ChatMessageTypeSystem:
			call.System = text
		case schema.ChatMessageTypeHuman:
			call.Prompt = text
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	idx := len(f.calls)
	f.calls = append(f.calls, call)

	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := ""
	if len(f.responses) > 0 {
		if idx >= len(f.responses) {
			idx = len(f.responses) - 1
		}
		content = f.responses[idx]
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content, StopReason: "stop"}},
	}, nil
}

func (f *FakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

// Calls 返回已记录的调用
func (f *FakeLLM) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount 返回调用次数
func (f *FakeLLM) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func messageText(m llms.MessageContent) string {
	text := ""
	for _, part := range m.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			text += tc.Text
		}
	}
	return text
}

var _ llms.Model = (*FakeLLM)(nil)
