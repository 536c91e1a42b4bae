package domain

import (
	"fmt"
	"strings"
)

// OptionCount is the required number of answer options per question.
const OptionCount = 4

// ValidateQuestion checks the structural invariants of a generated question:
// non-empty text, exactly four options, and a correct-answer index in range.
func ValidateQuestion(q *Question) error {
	if q == nil {
		return fmt.Errorf("question cannot be nil")
	}

	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("question text is empty")
	}

	if len(q.Options) != OptionCount {
		return fmt.Errorf("question has %d options, want %d", len(q.Options), OptionCount)
	}

	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		return fmt.Errorf("correct answer index %d out of range [0,%d)", q.CorrectAnswer, OptionCount)
	}

	return nil
}

// ValidateQuestions checks every question in a batch. One malformed item
// fails the whole batch; the caller treats that as a provider failure.
func ValidateQuestions(qs []Question) error {
	for i := range qs {
		if err := ValidateQuestion(&qs[i]); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
