package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	app_errors "vpaura/backend/internal/errors"
	"vpaura/backend/internal/llm"
)

const settingsKey = "settings"

// Settings holds the runtime model settings stored in Redis.
type Settings struct {
	SystemPrompt string  `json:"system_prompt" validate:"max=8000"`
	Model        string  `json:"model" validate:"required"`
	Temperature  float64 `json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens    int     `json:"max_tokens" validate:"gt=0"`
}

// InvokerSettings is the part of the invoker the settings service adjusts.
// *llm.Invoker implements it.
type InvokerSettings interface {
	Config() llm.InvokerConfig
	UpdateConfig(opts llm.UpdateOptions)
}

type SettingsService struct {
	rdb     *redis.Client
	invoker InvokerSettings

	mu      sync.RWMutex
	current Settings
}

func NewSettingsService(rdb *redis.Client, invoker InvokerSettings) *SettingsService {
	return &SettingsService{rdb: rdb, invoker: invoker}
}

// InitAndGet loads stored settings, or seeds Redis from the invoker's
// configuration and defaultSystemPrompt when none exist. The result is
// applied to the invoker either way.
func (s *SettingsService) InitAndGet(ctx context.Context, defaultSystemPrompt string) (*Settings, error) {
	stored, err := s.load(ctx)
	if err == nil {
		slog.InfoContext(ctx, "Found existing settings in Redis", "model", stored.Model)
		s.apply(*stored)
		return stored, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get settings from redis: %w", err)
	}

	slog.InfoContext(ctx, "No settings found in Redis, seeding from configuration")
	cfg := s.invoker.Config()
	initial := &Settings{
		SystemPrompt: defaultSystemPrompt,
		Model:        cfg.Model,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
	}
	if err := s.saveToRedis(ctx, initial); err != nil {
		return nil, fmt.Errorf("failed to save initial settings: %w", err)
	}
	s.apply(*initial)
	return initial, nil
}

// Get returns the settings currently in effect.
func (s *SettingsService) Get(_ context.Context) *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cur := s.current
	return &cur
}

// Save stores settings and applies them to the invoker.
func (s *SettingsService) Save(ctx context.Context, settings *Settings) error {
	if settings.Model == "" {
		return fmt.Errorf("%w: model cannot be empty", app_errors.ErrValidation)
	}
	if settings.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive", app_errors.ErrValidation)
	}
	if err := s.saveToRedis(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.apply(*settings)
	slog.InfoContext(ctx, "Saved settings", "model", settings.Model)
	return nil
}

// SystemPrompt returns the prompt of the settings in effect.
func (s *SettingsService) SystemPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.SystemPrompt
}

func (s *SettingsService) apply(settings Settings) {
	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
	s.invoker.UpdateConfig(llm.UpdateOptions{
		Model:       &settings.Model,
		Temperature: &settings.Temperature,
		MaxTokens:   &settings.MaxTokens,
	})
}

func (s *SettingsService) load(ctx context.Context) (*Settings, error) {
	val, err := s.rdb.Get(ctx, settingsKey).Result()
	if err != nil {
		return nil, err
	}
	var settings Settings
	if err := json.Unmarshal([]byte(val), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal existing settings: %w", err)
	}
	return &settings, nil
}

// saveToRedis is a private helper to just save the data.
func (s *SettingsService) saveToRedis(ctx context.Context, settings *Settings) error {
	val, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return s.rdb.Set(ctx, settingsKey, val, 0).Err()
}
