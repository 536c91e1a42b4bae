package generation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/generation"
)

func TestBuildQuestionPrompt(t *testing.T) {
	t.Run("should interpolate the game context", func(t *testing.T) {
		gctx := domain.GenerationContext{
			CompanyName: "Acme",
			Industry:    "Robotics",
			ProductInfo: "Industrial robot arms.",
			Difficulty:  "hard",
			Categories:  []string{"history", "products"},
		}

		prompt := generation.BuildQuestionPrompt(gctx, 5, 1, 1)

		require.Contains(t, prompt, "exactly 5 multiple-choice")
		require.Contains(t, prompt, "Acme")
		require.Contains(t, prompt, "Robotics industry")
		require.Contains(t, prompt, "Industrial robot arms.")
		require.Contains(t, prompt, "history, products")
		require.Contains(t, prompt, "Difficulty level: hard")
	})

	t.Run("should omit empty context fields", func(t *testing.T) {
		prompt := generation.BuildQuestionPrompt(domain.GenerationContext{}, 3, 1, 1)

		require.NotContains(t, prompt, "industry")
		require.NotContains(t, prompt, "Difficulty")
		require.NotContains(t, prompt, "categories")
	})

	t.Run("should mention the batch position only for multi-batch jobs", func(t *testing.T) {
		single := generation.BuildQuestionPrompt(domain.GenerationContext{}, 5, 1, 1)
		multi := generation.BuildQuestionPrompt(domain.GenerationContext{}, 5, 2, 3)

		require.NotContains(t, single, "batch")
		require.Contains(t, multi, "batch 2 of 3")
	})

	t.Run("should always state the output contract", func(t *testing.T) {
		prompt := generation.BuildQuestionPrompt(domain.GenerationContext{}, 5, 1, 1)

		require.Contains(t, prompt, `"questions"`)
		require.Contains(t, prompt, "exactly 4 options")
		require.Contains(t, prompt, "0-based index")
	})
}

func TestFallbackTitle(t *testing.T) {
	t.Run("should prefer the provided game title", func(t *testing.T) {
		title := generation.FallbackTitle(domain.GenerationContext{GameTitle: "Robot Rumble", CompanyName: "Acme"})
		require.Equal(t, "Robot Rumble", title)
	})

	t.Run("should derive a title from the company name", func(t *testing.T) {
		title := generation.FallbackTitle(domain.GenerationContext{CompanyName: "Acme"})
		require.Equal(t, "Acme Trivia", title)
	})

	t.Run("should fall back to a generic title", func(t *testing.T) {
		title := generation.FallbackTitle(domain.GenerationContext{})
		require.Equal(t, "Booth Trivia", title)
	})
}
