package mocks

import (
	"context"
	"sync"

	"reportgen/internal/llm/client"
	"reportgen/internal/llm/stream"
)

type ChatStreamerMock struct {
	StreamChatFunc func(ctx context.Context, apiKey string, req client.ChatRequest, fn stream.DeltaFunc) error

	mu       sync.Mutex
	Requests []client.ChatRequest
}

func (m *ChatStreamerMock) StreamChat(ctx context.Context, apiKey string, req client.ChatRequest, fn stream.DeltaFunc) error {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	if m.StreamChatFunc != nil {
		return m.StreamChatFunc(ctx, apiKey, req, fn)
	}
	return nil
}

func (m *ChatStreamerMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
