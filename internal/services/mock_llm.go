package services

import (
	"context"
	"sync"

	"gaiaterm/pkg/oracle"
)

// MockLLM is an LLMService used in tests and as the "mock" provider
// for local development. Without an override it returns a small
// deterministic turn.
type MockLLM struct {
	InitModelFunc        func(ctx context.Context, modelName string) error
	GenerateResponseFunc func(ctx context.Context, messages []oracle.Message) (string, error)

	// Recorded calls.
	InitModelCalls        []string
	GenerateResponseCalls [][]oracle.Message

	mu sync.Mutex
}

var _ LLMService = (*MockLLM)(nil)

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockLLM) GenerateResponse(ctx context.Context, messages []oracle.Message) (string, error) {
	m.mu.Lock()
	m.GenerateResponseCalls = append(m.GenerateResponseCalls, messages)
	fn := m.GenerateResponseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return `{"storyText":"The terminal hums. GAIA is listening.","choices":["Look around","Check the console"]}`, nil
}

// CallCount returns how many generate calls were made.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateResponseCalls)
}
