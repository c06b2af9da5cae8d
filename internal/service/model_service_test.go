package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"vpaura/backend/internal/config"
	"vpaura/backend/internal/llm"
	"vpaura/backend/internal/model"
	"vpaura/backend/internal/service"
	"vpaura/backend/internal/workflow"
)

func TestModelService_Info(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name           string
		cfg            llm.InvokerConfig
		expectedRetry  int
		expectFallback string
	}{
		{
			name:          "Success - Environment default retries",
			cfg:           llm.InvokerConfig{Provider: llm.ProviderOllama, Model: "qwen3:8b", Environment: config.EnvProduction},
			expectedRetry: 3,
		},
		{
			name:           "Success - Explicit retries and fallback",
			cfg:            llm.InvokerConfig{Provider: llm.ProviderOpenAI, Model: "gpt-4o", FallbackModel: "gpt-4o-mini", Environment: config.EnvStaging, MaxRetries: 5},
			expectedRetry:  5,
			expectFallback: "gpt-4o-mini",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			registry := workflow.NewRegistry(workflow.NewChatWorkflow(nil, nil, ""))
			modelService := service.NewModelService(&fakeInvokerSettings{cfg: tc.cfg}, registry, true)

			info := modelService.Info(ctx)

			assert.Equal(t, tc.cfg.Model, info.Model)
			assert.Equal(t, tc.expectedRetry, info.MaxRetries)
			assert.Equal(t, tc.expectFallback, info.FallbackModel)
			assert.Equal(t, []model.WorkflowType{model.WorkflowChat}, info.Workflows)
			assert.True(t, info.Guardrail)
		})
	}
}
