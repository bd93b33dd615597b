package ai

import (
	"context"
	"fmt"

	"feedbackgen/config"
	"feedbackgen/pkg/errdefs"
)

// FromConfig builds the client for the configured provider. A missing credential
// yields errdefs.ErrMissingCredential so callers can keep running without generation.
func FromConfig(ctx context.Context, cfg config.AppConfig) (Client, error) {
	switch cfg.LLMProvider {
	case config.ProviderMock:
		return NewMock(), nil
	case config.ProviderOpenAI:
		if cfg.LLMAPIKey == "" {
			return nil, fmt.Errorf("%w: LLM_API_KEY", errdefs.ErrMissingCredential)
		}
		return NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel), nil
	case config.ProviderGemini, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: API_KEY", errdefs.ErrMissingCredential)
		}
		return NewGemini(ctx, cfg.APIKey, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
