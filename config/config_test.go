package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")

	cfg, warn, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, warn)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "feedback.db", cfg.DBPath)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLMModel)
	assert.Equal(t, 60*time.Second, cfg.GenTimeout)
	assert.Empty(t, cfg.Credential())
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("LLM_PROVIDER", "Gemini")

	cfg, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Credential())
	assert.Equal(t, "***", cfg.Redacted().APIKey)
	assert.Equal(t, "secret", cfg.APIKey)
}

func TestCredential_PerProvider(t *testing.T) {
	cfg := AppConfig{LLMProvider: ProviderOpenAI, APIKey: "g", LLMAPIKey: "o"}
	assert.Equal(t, "o", cfg.Credential())
	cfg.LLMProvider = ProviderMock
	assert.Equal(t, "mock", cfg.Credential())
}
