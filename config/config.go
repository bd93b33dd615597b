package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

type AppConfig struct {
	Port        string        `env:"PORT" env-default:"8080"`
	DBPath      string        `env:"DB_PATH" env-default:"feedback.db"`
	StaticDir   string        `env:"STATIC_DIR" env-default:"static"`
	LLMProvider string        `env:"LLM_PROVIDER" env-default:"gemini"`
	APIKey      string        `env:"API_KEY"`
	LLMEndpoint string        `env:"LLM_ENDPOINT" env-default:"https://api.openai.com"`
	LLMAPIKey   string        `env:"LLM_API_KEY"`
	LLMModel    string        `env:"LLM_MODEL"`
	GenTimeout  time.Duration `env:"GENERATION_TIMEOUT" env-default:"60s"`
	BandsFile   string        `env:"GRADE_BANDS_FILE"`
	LogLevel    string        `env:"LOG_LEVEL" env-default:"info"`
	LogFormat   string        `env:"LOG_FORMAT" env-default:"console"`
}

// Load reads .env (when present) into the environment and then fills AppConfig.
// The returned warning is non-empty when .env could not be read.
func Load() (AppConfig, string, error) {
	warn := ""
	if err := godotenv.Load(); err != nil {
		warn = fmt.Sprintf("no .env file loaded: %v", err)
	}

	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return AppConfig{}, warn, fmt.Errorf("read env: %w", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultModel(cfg.LLMProvider)
	}
	return cfg, warn, nil
}

// Credential returns the API key used by the selected provider.
func (c AppConfig) Credential() string {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return c.LLMAPIKey
	case ProviderMock:
		return "mock"
	default:
		return c.APIKey
	}
}

// Redacted is the config as it is safe to log.
func (c AppConfig) Redacted() AppConfig {
	out := c
	out.APIKey = redact(c.APIKey)
	out.LLMAPIKey = redact(c.LLMAPIKey)
	return out
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderMock:
		return "mock"
	default:
		return "gemini-2.5-pro"
	}
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
