package chat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/provider/chat"
)

const questionJSON = `{
	"questionText": "Which metal is liquid at room temperature?",
	"options": ["Iron", "Mercury", "Zinc", "Tin"],
	"correctAnswer": 1,
	"explanation": "Mercury melts at -38.8C."
}`

func TestNormalizeQuestions(t *testing.T) {
	t.Run("should accept a bare array", func(t *testing.T) {
		questions, err := chat.NormalizeQuestions("deepseek", []byte("["+questionJSON+","+questionJSON+"]"))

		require.NoError(t, err)
		require.Len(t, questions, 2)
		require.Equal(t, 1, questions[0].CorrectAnswer)
	})

	t.Run("should accept a questions envelope", func(t *testing.T) {
		questions, err := chat.NormalizeQuestions("deepseek", []byte(`{"questions":[`+questionJSON+`]}`))

		require.NoError(t, err)
		require.Len(t, questions, 1)
		require.Equal(t, "Which metal is liquid at room temperature?", questions[0].QuestionText)
	})

	t.Run("should normalize a single bare question to one element", func(t *testing.T) {
		questions, err := chat.NormalizeQuestions("openai", []byte(questionJSON))

		require.NoError(t, err)
		require.Len(t, questions, 1)
	})

	t.Run("should tolerate surrounding whitespace", func(t *testing.T) {
		questions, err := chat.NormalizeQuestions("openai", []byte("\n  \t"+questionJSON+"\n"))

		require.NoError(t, err)
		require.Len(t, questions, 1)
	})

	t.Run("should reject an empty body", func(t *testing.T) {
		_, err := chat.NormalizeQuestions("deepseek", []byte("   "))

		var shapeErr *domain.UnexpectedShapeError
		require.ErrorAs(t, err, &shapeErr)
		require.Equal(t, "deepseek", shapeErr.Provider)
	})

	t.Run("should reject non-JSON text", func(t *testing.T) {
		_, err := chat.NormalizeQuestions("deepseek", []byte("Sure! Here are your questions:"))

		var shapeErr *domain.UnexpectedShapeError
		require.ErrorAs(t, err, &shapeErr)
	})

	t.Run("should reject an object that is neither envelope nor question", func(t *testing.T) {
		_, err := chat.NormalizeQuestions("openai", []byte(`{"items":[1,2,3]}`))

		var shapeErr *domain.UnexpectedShapeError
		require.ErrorAs(t, err, &shapeErr)
	})

	t.Run("should reject a malformed questions envelope", func(t *testing.T) {
		_, err := chat.NormalizeQuestions("openai", []byte(`{"questions":"not an array"}`))

		var shapeErr *domain.UnexpectedShapeError
		require.ErrorAs(t, err, &shapeErr)
	})
}
