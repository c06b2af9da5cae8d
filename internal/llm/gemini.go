package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"vpaura/backend/internal/model"
)

type geminiProvider struct {
	client   *genai.Client
	model    string
	sampling Sampling
}

func NewGeminiProvider(ctx context.Context, cfg ClientConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini provider requires an API key")
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: cfg.Model, sampling: cfg.Sampling}, nil
}

func (p *geminiProvider) Type() ProviderType { return ProviderGemini }

func f32(v *float64) *float32 {
	if v == nil {
		return nil
	}
	f := float32(*v)
	return &f
}

// contents splits system messages into the system instruction and maps the
// rest onto user/model turns.
func (p *geminiProvider) contents(req *GenerateRequest) (string, []*genai.Content, *genai.GenerateContentConfig) {
	modelName := req.Model
	if modelName == "" {
		modelName = p.model
	}

	var system []string
	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      f32(p.sampling.Temperature),
		TopP:             f32(p.sampling.TopP),
		PresencePenalty:  f32(p.sampling.PresencePenalty),
		FrequencyPenalty: f32(p.sampling.FrequencyPenalty),
		MaxOutputTokens:  int32(p.sampling.MaxTokens),
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	return modelName, contents, cfg
}

func (p *geminiProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if p.sampling.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.sampling.Timeout)
		defer cancel()
	}

	modelName, contents, cfg := p.contents(req)
	res, err := p.client.Models.GenerateContent(ctx, modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	out := &GenerateResponse{Model: modelName, Response: res.Text(), Done: true}
	if u := res.UsageMetadata; u != nil {
		out.Usage = &model.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func (p *geminiProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	modelName, contents, cfg := p.contents(req)
	for res, err := range p.client.Models.GenerateContentStream(ctx, modelName, contents, cfg) {
		if err != nil {
			return fmt.Errorf("gemini stream: %w", err)
		}
		text := res.Text()
		if text == "" {
			continue
		}
		select {
		case ch <- StreamResponse{Content: text}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case ch <- StreamResponse{Done: true}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
