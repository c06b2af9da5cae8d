package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vpaura/backend/internal/model"
)

type ollamaProvider struct {
	client   *http.Client
	url      string
	model    string
	sampling Sampling
}

func NewOllamaProvider(cfg ClientConfig) Provider {
	return &ollamaProvider{
		client:   &http.Client{},
		url:      strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		sampling: cfg.Sampling,
	}
}

func (p *ollamaProvider) Type() ProviderType { return ProviderOllama }

type ollamaOptions struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	NumPredict       int      `json:"num_predict,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []Message     `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options"`
}

type ollamaChatResponse struct {
	Model           string  `json:"model"`
	Message         Message `json:"message"`
	Done            bool    `json:"done"`
	PromptEvalCount int     `json:"prompt_eval_count"`
	EvalCount       int     `json:"eval_count"`
	Error           string  `json:"error"`
}

func (p *ollamaProvider) newRequest(ctx context.Context, req *GenerateRequest, stream bool) (*http.Request, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = p.model
	}
	body, err := json.Marshal(ollamaChatRequest{
		Model:    modelName,
		Messages: req.Messages,
		Stream:   stream,
		Options: ollamaOptions{
			Temperature:      p.sampling.Temperature,
			TopP:             p.sampling.TopP,
			NumPredict:       p.sampling.MaxTokens,
			PresencePenalty:  p.sampling.PresencePenalty,
			FrequencyPenalty: p.sampling.FrequencyPenalty,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/api/chat", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

func (p *ollamaProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if p.sampling.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.sampling.Timeout)
		defer cancel()
	}

	httpReq, err := p.newRequest(ctx, req, false)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	if chatResp.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", chatResp.Error)
	}
	return &GenerateResponse{
		Model:    chatResp.Model,
		Response: chatResp.Message.Content,
		Done:     chatResp.Done,
		Usage: &model.Usage{
			PromptTokens:     chatResp.PromptEvalCount,
			CompletionTokens: chatResp.EvalCount,
			TotalTokens:      chatResp.PromptEvalCount + chatResp.EvalCount,
		},
	}, nil
}

func (p *ollamaProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	httpReq, err := p.newRequest(ctx, req, true)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk ollamaChatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("could not decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama error: %s", chunk.Error)
		}

		select {
		case ch <- StreamResponse{Content: chunk.Message.Content, Done: chunk.Done}:
		case <-ctx.Done():
			return ctx.Err()
		}
		if chunk.Done {
			break
		}
	}
	return scanner.Err()
}
