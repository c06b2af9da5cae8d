package llm

import (
	"time"

	"vpaura/backend/internal/config"
)

// Sampling holds generation parameters. Nil pointers mean "provider default".
type Sampling struct {
	Temperature      *float64
	MaxTokens        int
	TopP             *float64
	PresencePenalty  *float64
	FrequencyPenalty *float64
	Timeout          time.Duration
}

// ClientConfig is everything needed to construct a provider for one model.
type ClientConfig struct {
	Provider ProviderType
	BaseURL  string
	APIKey   string
	Model    string
	Sampling Sampling
}

func ptr[T any](v T) *T { return &v }

// SamplingDefaults returns the environment-specific parameters that sit under
// any explicit configuration.
func SamplingDefaults(env config.Environment) Sampling {
	switch env {
	case config.EnvDevelopment:
		return Sampling{TopP: ptr(0.8), Timeout: 30 * time.Second}
	case config.EnvProduction:
		return Sampling{
			TopP:             ptr(0.95),
			PresencePenalty:  ptr(0.1),
			FrequencyPenalty: ptr(0.1),
			Timeout:          60 * time.Second,
		}
	default:
		return Sampling{}
	}
}

// Merge layers o on top of s: every field set in o wins.
func (s Sampling) Merge(o Sampling) Sampling {
	if o.Temperature != nil {
		s.Temperature = o.Temperature
	}
	if o.MaxTokens > 0 {
		s.MaxTokens = o.MaxTokens
	}
	if o.TopP != nil {
		s.TopP = o.TopP
	}
	if o.PresencePenalty != nil {
		s.PresencePenalty = o.PresencePenalty
	}
	if o.FrequencyPenalty != nil {
		s.FrequencyPenalty = o.FrequencyPenalty
	}
	if o.Timeout > 0 {
		s.Timeout = o.Timeout
	}
	return s
}
