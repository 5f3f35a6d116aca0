package llm_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PabloGalante/applyai-api/internal/adapters/llm"
)

func TestMockLLMEchoesByDefault(t *testing.T) {
	m := llm.NewMockLLM()

	out, err := m.GenerateText(context.Background(), "gemini-2.5-flash", "Hello")
	if err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if !strings.Contains(out, "Hello") {
		t.Fatalf("expected echo, got %q", out)
	}

	calls := m.Calls()
	if len(calls) != 1 || calls[0].Model != "gemini-2.5-flash" || calls[0].Prompt != "Hello" {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestScriptedAndFailingLLM(t *testing.T) {
	ctx := context.Background()

	out, err := llm.NewScriptedLLM("fixed").GenerateText(ctx, "m", "anything")
	if err != nil || out != "fixed" {
		t.Fatalf("expected fixed reply, got %q, %v", out, err)
	}

	boom := errors.New("boom")
	if _, err := llm.NewFailingLLM(boom).GenerateText(ctx, "m", "x"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestNewGeminiClientRequiresCredentials(t *testing.T) {
	ctx := context.Background()

	if _, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{}); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{Vertex: true}); err == nil {
		t.Fatalf("expected error without project/location")
	}
}
