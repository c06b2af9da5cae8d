package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Environment classifies the deployment the process runs in. Retry counts,
// sampling defaults and the degrade-instead-of-fail policy all key off it.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTest        Environment = "test"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// IsProduction reports whether the environment is production-classified.
func (e Environment) IsProduction() bool {
	return e == EnvProduction
}

// MaxRetries returns the number of model invocation attempts for the environment.
func (e Environment) MaxRetries() int {
	switch e {
	case EnvDevelopment, EnvTest:
		return 1
	case EnvStaging:
		return 2
	case EnvProduction:
		return 3
	default:
		return 2
	}
}

func (e Environment) valid() bool {
	switch e {
	case EnvDevelopment, EnvTest, EnvStaging, EnvProduction:
		return true
	}
	return false
}

type Config struct {
	AppPort        int         `mapstructure:"APP_PORT"`
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	DatabasePath   string      `mapstructure:"DATABASE_PATH"`
	RedisAddr      string      `mapstructure:"REDIS_ADDR"`
	LogLevel       string      `mapstructure:"LOG_LEVEL"`
	AllowedOrigins string      `mapstructure:"ALLOWED_ORIGINS"`

	EnableGuardrail bool `mapstructure:"ENABLE_GUARDRAIL"`

	LLMProvider      string  `mapstructure:"LLM_PROVIDER"`
	LLMBaseURL       string  `mapstructure:"LLM_BASE_URL"`
	LLMAPIKey        string  `mapstructure:"LLM_API_KEY"`
	LLMModel         string  `mapstructure:"LLM_MODEL"`
	LLMFallbackModel string  `mapstructure:"LLM_FALLBACK_MODEL"`
	LLMTemperature   float64 `mapstructure:"LLM_TEMPERATURE"`
	LLMMaxTokens     int     `mapstructure:"LLM_MAX_TOKENS"`

	ConfidenceThreshold float64 `mapstructure:"AGENT_CONFIDENCE_THRESHOLD"`
	HistoryLimit        int     `mapstructure:"CHAT_HISTORY_LIMIT"`
	IntentRulesPath     string  `mapstructure:"INTENT_RULES_PATH"`
	SystemPrompt        string  `mapstructure:"SYSTEM_PROMPT"`
}

// Origins splits ALLOWED_ORIGINS into a list for the CORS middleware.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks the values viper cannot type-check on its own.
func (c *Config) Validate() error {
	if !c.Environment.valid() {
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	switch c.LLMProvider {
	case "ollama", "openai", "gemini":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}
	if c.LLMModel == "" {
		return fmt.Errorf("LLM_MODEL must be set")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("AGENT_CONFIDENCE_THRESHOLD must be within [0, 1], got %v", c.ConfidenceThreshold)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("CHAT_HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	return nil
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("ENVIRONMENT", string(EnvDevelopment))
	viper.SetDefault("DATABASE_PATH", "/data/vpaura.db")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("ENABLE_GUARDRAIL", true)
	viper.SetDefault("LLM_PROVIDER", "ollama")
	viper.SetDefault("LLM_BASE_URL", "http://ollama:11434")
	viper.SetDefault("LLM_API_KEY", "")
	viper.SetDefault("LLM_MODEL", "qwen3:8b")
	viper.SetDefault("LLM_FALLBACK_MODEL", "")
	viper.SetDefault("LLM_TEMPERATURE", 0.7)
	viper.SetDefault("LLM_MAX_TOKENS", 2000)
	viper.SetDefault("AGENT_CONFIDENCE_THRESHOLD", 0.6)
	viper.SetDefault("CHAT_HISTORY_LIMIT", 20)
	viper.SetDefault("INTENT_RULES_PATH", "")
	viper.SetDefault("SYSTEM_PROMPT", "You are a helpful assistant.")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Environment = Environment(strings.ToLower(string(cfg.Environment)))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
