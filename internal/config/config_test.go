package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quizbooth/backend/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, 120, cfg.Server.WriteTimeout)
		require.Equal(t, "localhost:6379", cfg.Redis.Addr)
		require.Equal(t, "https://api.deepseek.com/v1", cfg.DeepSeek.BaseURL)
		require.Equal(t, "deepseek-chat", cfg.DeepSeek.Model)
		require.Equal(t, 1, cfg.DeepSeek.Priority)
		require.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
		require.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
		require.Equal(t, 2, cfg.OpenAI.Priority)
		require.False(t, cfg.Echo.Enabled)
		require.Equal(t, 5, cfg.Generation.BatchSize)
		require.Equal(t, 1000, cfg.Generation.BatchDelayMS)
		require.Equal(t, 30, cfg.Generation.CleanupGraceSeconds)
		require.Empty(t, cfg.DeepSeek.APIKey)
		require.Empty(t, cfg.OpenAI.APIKey)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("REDIS_ADDR", "redis:6380")
		t.Setenv("DEEPSEEK_API_KEY", "sk-ds-test")
		t.Setenv("DEEPSEEK_MODEL", "deepseek-reasoner")
		t.Setenv("OPENAI_API_KEY", "sk-oa-test")
		t.Setenv("OPENAI_PRIORITY", "1")
		t.Setenv("ECHO_PROVIDER_ENABLED", "true")
		t.Setenv("GENERATION_BATCH_SIZE", "10")
		t.Setenv("GENERATION_BATCH_DELAY_MS", "250")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, "redis:6380", cfg.Redis.Addr)
		require.Equal(t, "sk-ds-test", cfg.DeepSeek.APIKey)
		require.Equal(t, "deepseek-reasoner", cfg.DeepSeek.Model)
		require.Equal(t, "sk-oa-test", cfg.OpenAI.APIKey)
		require.Equal(t, 1, cfg.OpenAI.Priority)
		require.True(t, cfg.Echo.Enabled)
		require.Equal(t, 10, cfg.Generation.BatchSize)
		require.Equal(t, 250, cfg.Generation.BatchDelayMS)
	})

	t.Run("should expose sub-configs for injection", func(t *testing.T) {
		os.Clearenv()

		cfg := config.Load()
		deps := config.ParseDependenciesConfig(cfg)

		require.Same(t, &cfg.Server, deps.Server)
		require.Same(t, &cfg.Generation, deps.Generation)
	})
}
