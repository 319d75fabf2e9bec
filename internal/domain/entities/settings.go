package entities

import "strings"

// DefaultNumQuestions is served when no quiz config has been saved.
const DefaultNumQuestions = 7

// QuizConfig is the administrator's daily quiz configuration.
type QuizConfig struct {
	Chapter      string `json:"chapter"`       // chapter ceiling, empty means no ceiling
	NumQuestions int    `json:"num_questions"` // requested number of questions, positive
}

// DefaultQuizConfig returns the configuration used while none is persisted.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		Chapter:      "",
		NumQuestions: DefaultNumQuestions,
	}
}

// HasCeiling reports whether the config restricts chapters.
func (c QuizConfig) HasCeiling() bool {
	return strings.TrimSpace(c.Chapter) != ""
}

// Validate checks a config before it is persisted.
func (c QuizConfig) Validate() error {
	if c.NumQuestions < 1 {
		return &ValidationError{Field: "num_questions", Reason: "must be positive"}
	}
	if c.HasCeiling() && !IsChapterLabel(strings.TrimSpace(c.Chapter)) {
		return &ValidationError{Field: FieldChapter, Reason: "must be dot-separated numbers, e.g. 6.6"}
	}
	return nil
}
