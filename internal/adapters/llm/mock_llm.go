package llm

import (
	"context"
	"fmt"
	"sync"
)

// Call records one GenerateText invocation.
type Call struct {
	Model  string
	Prompt string
}

// MockLLM is a deterministic LLMClient for local mode and tests.
// With no Reply set it echoes the prompt back.
type MockLLM struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls []Call
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// NewScriptedLLM returns a mock that always answers with reply.
func NewScriptedLLM(reply string) *MockLLM {
	return &MockLLM{Reply: reply}
}

// NewFailingLLM returns a mock whose every call fails with err.
func NewFailingLLM(err error) *MockLLM {
	return &MockLLM{Err: err}
}

func (m *MockLLM) GenerateText(_ context.Context, model string, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Model: model, Prompt: prompt})
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	return fmt.Sprintf("You said %q.", prompt), nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockLLM) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}
