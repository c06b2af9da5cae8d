package llm

import (
	"context"
	"fmt"
	"strings"

	"vpaura/backend/internal/model"
)

// ProviderType selects a model-serving backend.
type ProviderType string

const (
	ProviderOllama ProviderType = "ollama"
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
)

// Chat roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerateRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type GenerateResponse struct {
	Model    string       `json:"model"`
	Response string       `json:"response"`
	Done     bool         `json:"done"`
	Usage    *model.Usage `json:"usage,omitempty"`
}

// StreamResponse is one incremental piece of a streamed generation.
type StreamResponse struct {
	Content string
	Done    bool
	Error   string
}

// Provider is a single model-serving client bound to one ClientConfig.
// GenerateStream always closes ch before returning.
type Provider interface {
	Type() ProviderType
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error
}

// ProviderFactory builds a provider for a client configuration.
type ProviderFactory func(ctx context.Context, cfg ClientConfig) (Provider, error)

// NewProvider is the default ProviderFactory.
func NewProvider(ctx context.Context, cfg ClientConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderOllama:
		return NewOllamaProvider(cfg), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg), nil
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// joinContent concatenates message contents the way guardrails see a request.
func joinContent(messages []Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Content != "" {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, " ")
}
