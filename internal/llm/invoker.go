package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vpaura/backend/internal/config"
	app_errors "vpaura/backend/internal/errors"
	"vpaura/backend/internal/guardrail"
	"vpaura/backend/internal/model"
)

// DegradedResponse replaces the model answer in production once every
// attempt has failed.
const DegradedResponse = "I apologize, but I'm experiencing technical difficulties. Please try again in a moment."

type InvokerConfig struct {
	Provider      ProviderType
	BaseURL       string
	APIKey        string
	Model         string
	FallbackModel string
	Temperature   float64
	MaxTokens     int
	Environment   config.Environment
	// MaxRetries is the number of attempts per call. Zero means the
	// environment default.
	MaxRetries int
	// Sampling holds explicit overrides applied on top of the environment
	// defaults.
	Sampling Sampling
}

// InvokerConfigFromConfig maps application settings onto an invoker config.
func InvokerConfigFromConfig(cfg *config.Config) InvokerConfig {
	return InvokerConfig{
		Provider:      ProviderType(cfg.LLMProvider),
		BaseURL:       cfg.LLMBaseURL,
		APIKey:        cfg.LLMAPIKey,
		Model:         cfg.LLMModel,
		FallbackModel: cfg.LLMFallbackModel,
		Temperature:   cfg.LLMTemperature,
		MaxTokens:     cfg.LLMMaxTokens,
		Environment:   cfg.Environment,
	}
}

func (c InvokerConfig) maxRetries() int {
	if c.MaxRetries > 0 {
		return c.MaxRetries
	}
	return c.Environment.MaxRetries()
}

func (c InvokerConfig) clientConfig(modelName string) ClientConfig {
	explicit := Sampling{Temperature: ptr(c.Temperature), MaxTokens: c.MaxTokens}.Merge(c.Sampling)
	return ClientConfig{
		Provider: c.Provider,
		BaseURL:  c.BaseURL,
		APIKey:   c.APIKey,
		Model:    modelName,
		Sampling: SamplingDefaults(c.Environment).Merge(explicit),
	}
}

// UpdateOptions changes invoker settings; nil fields are left alone.
type UpdateOptions struct {
	Model       *string
	Temperature *float64
	MaxTokens   *int
	Sampling    *Sampling
}

// Result is the outcome of a logical model call.
type Result struct {
	Content  string
	Model    string
	Usage    *model.Usage
	Degraded bool
	Attempts []Attempt
}

type InvokerOption func(*Invoker)

// WithProviderFactory replaces NewProvider, mostly for tests.
func WithProviderFactory(f ProviderFactory) InvokerOption {
	return func(i *Invoker) { i.factory = f }
}

// Invoker performs guarded model calls with bounded retry, a one-time switch
// to the fallback model and, in production, a degraded answer instead of an
// error. It caches one provider client for the model it last used.
type Invoker struct {
	mu          sync.Mutex
	cfg         InvokerConfig
	factory     ProviderFactory
	validator   *guardrail.Validator
	metrics     *Metrics
	client      Provider
	clientModel string
}

func NewInvoker(cfg InvokerConfig, validator *guardrail.Validator, metrics *Metrics, opts ...InvokerOption) *Invoker {
	i := &Invoker{
		cfg:       cfg,
		factory:   NewProvider,
		validator: validator,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Config returns a copy of the current configuration.
func (i *Invoker) Config() InvokerConfig {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cfg
}

// UpdateConfig applies opts and drops the cached client.
func (i *Invoker) UpdateConfig(opts UpdateOptions) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if opts.Model != nil {
		i.cfg.Model = *opts.Model
	}
	if opts.Temperature != nil {
		i.cfg.Temperature = *opts.Temperature
	}
	if opts.MaxTokens != nil {
		i.cfg.MaxTokens = *opts.MaxTokens
	}
	if opts.Sampling != nil {
		i.cfg.Sampling = i.cfg.Sampling.Merge(*opts.Sampling)
	}
	i.client = nil
	i.clientModel = ""
}

func (i *Invoker) resetClient() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.client = nil
	i.clientModel = ""
}

func (i *Invoker) clientFor(ctx context.Context, cfg InvokerConfig, modelName string) (Provider, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.client != nil && i.clientModel == modelName {
		return i.client, nil
	}
	client, err := i.factory(ctx, cfg.clientConfig(modelName))
	if err != nil {
		return nil, err
	}
	i.client = client
	i.clientModel = modelName
	return client, nil
}

// Invoke runs up to MaxRetries attempts of validate input, generate,
// validate output. In production with a fallback model configured, the
// failure of attempt MaxRetries-2 switches the active model for the
// remaining attempt. When the last attempt fails, production returns
// DegradedResponse and every other environment returns an
// *InvocationError.
func (i *Invoker) Invoke(ctx context.Context, messages []Message) (*Result, error) {
	cfg := i.Config()
	maxRetries := cfg.maxRetries()
	active := cfg.Model
	switched := false
	attempts := make([]Attempt, 0, maxRetries)
	logger := slog.With("invocation_id", uuid.NewString())

	for attempt := 0; attempt < maxRetries; attempt++ {
		rec := Attempt{Index: attempt, Model: active}
		resp, err := i.attempt(ctx, cfg, active, messages, &rec)
		if err == nil {
			rec.Outcome = OutcomeSuccess
			attempts = append(attempts, rec)
			i.metrics.recordRequest(active, "success")
			return &Result{
				Content:  resp.Response,
				Model:    active,
				Usage:    resp.Usage,
				Attempts: attempts,
			}, nil
		}
		rec.Err = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			rec.Outcome = OutcomeFatal
			attempts = append(attempts, rec)
			return nil, &InvocationError{Attempts: attempts, Err: ctxErr}
		}

		logger.ErrorContext(ctx, "LLM call failed",
			"model", active,
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"error", err,
		)

		if cfg.Environment.IsProduction() && cfg.FallbackModel != "" && !switched && attempt == maxRetries-2 {
			logger.WarnContext(ctx, "Switching to fallback model", "from_model", active, "to_model", cfg.FallbackModel)
			i.metrics.recordFallback(active, cfg.FallbackModel)
			rec.Outcome = OutcomeFallbackTriggered
			attempts = append(attempts, rec)
			active = cfg.FallbackModel
			switched = true
			i.resetClient()
			continue
		}

		if attempt == maxRetries-1 {
			i.metrics.recordRequest(active, "error")
			if cfg.Environment.IsProduction() {
				logger.ErrorContext(ctx, "All LLM retries failed, returning degraded response", "error", err)
				rec.Outcome = OutcomeDegraded
				attempts = append(attempts, rec)
				return &Result{Content: DegradedResponse, Model: active, Degraded: true, Attempts: attempts}, nil
			}
			rec.Outcome = OutcomeFatal
			attempts = append(attempts, rec)
			return nil, &InvocationError{Attempts: attempts, Err: err}
		}

		rec.Outcome = OutcomeRetryableFailure
		attempts = append(attempts, rec)
	}

	return nil, fmt.Errorf("%w: failed after %d attempts", app_errors.ErrInternal, maxRetries)
}

func (i *Invoker) attempt(ctx context.Context, cfg InvokerConfig, active string, messages []Message, rec *Attempt) (*GenerateResponse, error) {
	rec.Input = i.validator.ValidateInput(ctx, joinContent(messages))
	if !rec.Input.Safe {
		i.metrics.recordBlock(string(guardrail.StageInput))
		return nil, fmt.Errorf("%w: input blocked: %s", app_errors.ErrSafetyBlocked, rec.Input.Reason)
	}

	client, err := i.clientFor(ctx, cfg, active)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", app_errors.ErrInvocation, err)
	}

	start := time.Now()
	resp, err := client.Generate(ctx, &GenerateRequest{Model: active, Messages: messages})
	i.metrics.observeDuration(active, string(cfg.Environment), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", app_errors.ErrInvocation, err)
	}

	rec.Output = i.validator.ValidateOutput(ctx, resp.Response)
	if !rec.Output.Safe {
		i.metrics.recordBlock(string(guardrail.StageOutput))
		return nil, fmt.Errorf("%w: output blocked: %s", app_errors.ErrSafetyBlocked, rec.Output.Reason)
	}
	return resp, nil
}

// Stream makes a single guarded streaming call on the primary model and
// forwards every token to out. Output is validated once the stream has
// finished; an unsafe response fails with ErrSafetyBlocked after its tokens
// were already forwarded. Stream does not close out.
func (i *Invoker) Stream(ctx context.Context, messages []Message, out chan<- string) (*Result, error) {
	cfg := i.Config()
	active := cfg.Model

	input := i.validator.ValidateInput(ctx, joinContent(messages))
	if !input.Safe {
		i.metrics.recordBlock(string(guardrail.StageInput))
		i.metrics.recordRequest(active, "error")
		return nil, fmt.Errorf("%w: input blocked: %s", app_errors.ErrSafetyBlocked, input.Reason)
	}

	client, err := i.clientFor(ctx, cfg, active)
	if err != nil {
		i.metrics.recordRequest(active, "error")
		return nil, fmt.Errorf("%w: %w", app_errors.ErrInvocation, err)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	ch := make(chan StreamResponse)
	errCh := make(chan error, 1)
	start := time.Now()
	go func() {
		errCh <- client.GenerateStream(streamCtx, &GenerateRequest{Model: active, Messages: messages, Stream: true}, ch)
	}()
	defer func() {
		cancel()
		for range ch {
		}
	}()

	var sb strings.Builder
	for chunk := range ch {
		if chunk.Error != "" {
			i.metrics.recordRequest(active, "error")
			return nil, fmt.Errorf("%w: %s", app_errors.ErrInvocation, chunk.Error)
		}
		if chunk.Content != "" {
			sb.WriteString(chunk.Content)
			select {
			case out <- chunk.Content:
			case <-ctx.Done():
				i.metrics.recordRequest(active, "error")
				return nil, ctx.Err()
			}
		}
	}
	i.metrics.observeDuration(active, string(cfg.Environment), time.Since(start).Seconds())

	if err := <-errCh; err != nil {
		i.metrics.recordRequest(active, "error")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", app_errors.ErrInvocation, err)
	}

	content := sb.String()
	output := i.validator.ValidateOutput(ctx, content)
	if !output.Safe {
		i.metrics.recordBlock(string(guardrail.StageOutput))
		i.metrics.recordRequest(active, "error")
		return nil, fmt.Errorf("%w: output blocked: %s", app_errors.ErrSafetyBlocked, output.Reason)
	}

	i.metrics.recordRequest(active, "success")
	return &Result{Content: content, Model: active}, nil
}
