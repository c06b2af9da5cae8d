package service

import (
	"context"

	"vpaura/backend/internal/model"
)

// ModelInfo describes the model setup requests are currently served with.
type ModelInfo struct {
	Provider      string               `json:"provider"`
	Model         string               `json:"model"`
	FallbackModel string               `json:"fallback_model,omitempty"`
	Environment   string               `json:"environment"`
	MaxRetries    int                  `json:"max_retries"`
	Temperature   float64              `json:"temperature"`
	MaxTokens     int                  `json:"max_tokens"`
	Workflows     []model.WorkflowType `json:"workflows"`
	Guardrail     bool                 `json:"guardrail_enabled"`
}

// WorkflowLister reports the registered workflow types.
// *workflow.Registry implements it.
type WorkflowLister interface {
	Types() []model.WorkflowType
}

// ModelService reports the active model configuration.
type ModelService struct {
	invoker   InvokerSettings
	workflows WorkflowLister
	guardrail bool
}

func NewModelService(invoker InvokerSettings, workflows WorkflowLister, guardrailEnabled bool) *ModelService {
	return &ModelService{invoker: invoker, workflows: workflows, guardrail: guardrailEnabled}
}

// Info returns the invoker configuration in effect.
func (s *ModelService) Info(_ context.Context) *ModelInfo {
	cfg := s.invoker.Config()
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = cfg.Environment.MaxRetries()
	}
	info := &ModelInfo{
		Provider:      string(cfg.Provider),
		Model:         cfg.Model,
		FallbackModel: cfg.FallbackModel,
		Environment:   string(cfg.Environment),
		MaxRetries:    maxRetries,
		Temperature:   cfg.Temperature,
		MaxTokens:     cfg.MaxTokens,
		Workflows:     []model.WorkflowType{},
		Guardrail:     s.guardrail,
	}
	if s.workflows != nil {
		info.Workflows = s.workflows.Types()
	}
	return info
}
