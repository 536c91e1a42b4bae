package generation

import (
	"fmt"
	"strings"

	"github.com/quizbooth/backend/internal/domain"
)

// BuildQuestionPrompt renders the question-generation prompt for one batch.
// The game context is interpolated verbatim; the core never inspects it.
func BuildQuestionPrompt(gctx domain.GenerationContext, count, batch, totalBatches int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert trivia writer for trade-show booth games. ")
	fmt.Fprintf(&b, "Generate exactly %d multiple-choice trivia questions", count)

	if gctx.CompanyName != "" {
		fmt.Fprintf(&b, " for %s", gctx.CompanyName)
	}
	if gctx.Industry != "" {
		fmt.Fprintf(&b, ", a company in the %s industry", gctx.Industry)
	}
	b.WriteString(".\n")

	if gctx.ProductInfo != "" {
		fmt.Fprintf(&b, "Company and product background: %s\n", gctx.ProductInfo)
	}
	if len(gctx.Categories) > 0 {
		fmt.Fprintf(&b, "Draw questions from these categories: %s.\n", strings.Join(gctx.Categories, ", "))
	}
	if gctx.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty level: %s.\n", gctx.Difficulty)
	}

	if totalBatches > 1 {
		fmt.Fprintf(&b, "This is batch %d of %d for the same game; avoid repeating themes likely covered by other batches.\n", batch, totalBatches)
	}

	b.WriteString(`
Respond with a JSON object of the form:
{"questions":[{"questionText":"...","options":["...","...","...","..."],"correctAnswer":0,"explanation":"..."}]}

Rules:
- Each question has exactly 4 options.
- "correctAnswer" is the 0-based index of the correct option.
- Keep each explanation to one or two sentences.
- Return only the JSON object, no surrounding text.`)

	return b.String()
}

// BuildTitlePrompt renders the prompt for a short game title.
func BuildTitlePrompt(gctx domain.GenerationContext) string {
	var b strings.Builder

	b.WriteString("Suggest a catchy title, at most six words, for a trade-show trivia game")
	if gctx.CompanyName != "" {
		fmt.Fprintf(&b, " hosted by %s", gctx.CompanyName)
	}
	if gctx.Industry != "" {
		fmt.Fprintf(&b, " in the %s industry", gctx.Industry)
	}
	b.WriteString(". Respond with the title only, no quotes or punctuation around it.")

	return b.String()
}

// FallbackTitle is used when title generation fails; title failure never
// fails the job.
func FallbackTitle(gctx domain.GenerationContext) string {
	if gctx.GameTitle != "" {
		return gctx.GameTitle
	}
	if gctx.CompanyName != "" {
		return gctx.CompanyName + " Trivia"
	}
	return "Booth Trivia"
}
