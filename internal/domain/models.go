package domain

import "time"

// Question is a single generated trivia question.
type Question struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // 0-based index into Options
	Explanation   string   `json:"explanation,omitempty"`
}

// GenerationContext carries the game metadata used to build prompts.
// The generation core never interprets these fields beyond prompt text.
type GenerationContext struct {
	GameTitle   string   `json:"gameTitle,omitempty"`
	CompanyName string   `json:"companyName"`
	Industry    string   `json:"industry,omitempty"`
	ProductInfo string   `json:"productInfo,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

// ProgressStatus is a generation job lifecycle phase.
type ProgressStatus string

const (
	ProgressStarting            ProgressStatus = "starting"
	ProgressGeneratingTitle     ProgressStatus = "generating_title"
	ProgressGeneratingQuestions ProgressStatus = "generating_questions"
	ProgressSavingQuestions     ProgressStatus = "saving_questions"
	ProgressCompleted           ProgressStatus = "completed"
	ProgressError               ProgressStatus = "error"
)

// Terminal reports whether the status ends the job lifecycle.
func (s ProgressStatus) Terminal() bool {
	return s == ProgressCompleted || s == ProgressError
}

// ProgressRecord is the shared status document a polling client reads.
type ProgressRecord struct {
	JobID     string         `json:"jobId"`
	Status    ProgressStatus `json:"status"`
	Progress  int            `json:"progress"` // 0-100
	Message   string         `json:"message"`
	Error     string         `json:"error,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ProviderOverride pins all generation calls to one provider until cleared.
type ProviderOverride struct {
	ProviderName string    `json:"providerName"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
