package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbackgen/config"
	"feedbackgen/pkg/feedback/service"
	"feedbackgen/pkg/logger"
	kv "feedbackgen/pkg/storage/repository"
	kvImp "feedbackgen/pkg/storage/repositoryImp"
)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	return config.AppConfig{
		DBPath:      filepath.Join(t.TempDir(), "app.db"),
		LLMProvider: config.ProviderMock,
		LLMModel:    "mock",
	}
}

func TestBootstrap_MockRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	a, err := Bootstrap(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.Empty(t, a.Warnings)
	assert.True(t, a.Feedback.Status().Ready)

	_, err = a.Feedback.Submit(context.Background(), service.FormInput{
		StudentName: "Ana", UC: "Matemática", Grade: "9", Source: service.SourceText,
		ActivityTitle: "Prova 1", ActivityContent: "Resolva.",
	})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	again, err := Bootstrap(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, 1, again.History.Len())
	assert.Equal(t, 1, again.Catalog.Len())
}

func TestBootstrap_Degraded(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMProvider = config.ProviderGemini
	cfg.APIKey = ""
	cfg.BandsFile = filepath.Join(t.TempDir(), "bands.csv")
	require.NoError(t, os.WriteFile(cfg.BandsFile, []byte("min,max,description\n5,1,invertida\n"), 0o644))

	// corrupt the stored history of the database the degraded app will open
	a0, err := Bootstrap(context.Background(), config.AppConfig{DBPath: cfg.DBPath, LLMProvider: config.ProviderMock}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, kvImp.New(a0.DB).Set(kv.KeyFeedbackHistory, "not json"))
	require.NoError(t, a0.Close())

	a, err := Bootstrap(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Len(t, a.Warnings, 3)
	assert.False(t, a.Feedback.Status().Ready)
	assert.Equal(t, 0, a.History.Len())
}

func TestBootstrap_UnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMProvider = "claude-9000"
	_, err := Bootstrap(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
