package chat

import (
	"bytes"
	"encoding/json"

	"github.com/quizbooth/backend/internal/domain"
)

const snippetLimit = 120

// NormalizeQuestions parses a vendor response body into a question list.
// Exactly three shapes are accepted: a bare JSON array, an object with a
// "questions" array field, and a single bare question object (normalized to
// a one-element list). Anything else is an UnexpectedShapeError.
func NormalizeQuestions(provider string, raw []byte) ([]domain.Question, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &domain.UnexpectedShapeError{Provider: provider, Snippet: "empty response body"}
	}

	switch trimmed[0] {
	case '[':
		var questions []domain.Question
		if err := json.Unmarshal(trimmed, &questions); err != nil {
			return nil, &domain.UnexpectedShapeError{Provider: provider, Snippet: snippet(trimmed)}
		}
		return questions, nil

	case '{':
		var envelope struct {
			Questions json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, &domain.UnexpectedShapeError{Provider: provider, Snippet: snippet(trimmed)}
		}

		if envelope.Questions != nil {
			var questions []domain.Question
			if err := json.Unmarshal(envelope.Questions, &questions); err != nil {
				return nil, &domain.UnexpectedShapeError{Provider: provider, Snippet: snippet(trimmed)}
			}
			return questions, nil
		}

		var single domain.Question
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, &domain.UnexpectedShapeError{Provider: provider, Snippet: snippet(trimmed)}
		}
		if single.QuestionText == "" {
			return nil, &domain.UnexpectedShapeError{Provider: provider, Snippet: snippet(trimmed)}
		}
		return []domain.Question{single}, nil

	default:
		return nil, &domain.UnexpectedShapeError{Provider: provider, Snippet: snippet(trimmed)}
	}
}

func snippet(raw []byte) string {
	if len(raw) > snippetLimit {
		return string(raw[:snippetLimit]) + "..."
	}
	return string(raw)
}
