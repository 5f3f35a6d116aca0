package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("model returned empty text")

// GeminiConfig selects the Gemini backend. APIKey uses the Gemini Developer
// API; Project+Location with Vertex=true uses Vertex AI.
type GeminiConfig struct {
	APIKey   string
	Vertex   bool
	Project  string
	Location string

	// Timeout bounds every GenerateText call. Zero means no extra bound.
	Timeout time.Duration
}

type GeminiClient struct {
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiClient creates an LLMClient based on google.golang.org/genai.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{}
	if cfg.Vertex {
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("project and location must be set for Vertex AI")
		}
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	} else {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api key must be set for the Gemini API")
		}
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		timeout: cfg.Timeout,
	}, nil
}

// GenerateText implements domain.LLMClient. The prompt is sent as a single
// user turn with the model's default generation config.
func (g *GeminiClient) GenerateText(ctx context.Context, model string, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	res, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	// only the text, never the raw structs
	text := res.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
