package service

import (
	"strings"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// AnswerEvaluator grades free-text answers by required keyword or phrase containment.
type AnswerEvaluator struct{}

// NewAnswerEvaluator creates a new AnswerEvaluator.
func NewAnswerEvaluator() *AnswerEvaluator {
	return &AnswerEvaluator{}
}

// Evaluate reports whether answer satisfies every term of the record's criterion.
// Blank answers and records without terms are never correct.
func (e *AnswerEvaluator) Evaluate(answer string, record entities.QuestionRecord) bool {
	if strings.TrimSpace(answer) == "" || len(record.Criterion.Terms) == 0 {
		return false
	}

	switch record.Criterion.Kind {
	case entities.CriterionMustInclude:
		return containsAll(answer, record.Criterion.Terms, identity)
	default:
		return containsAll(e.normalize(answer), record.Criterion.Terms, e.normalize)
	}
}

// normalize folds case for keyword matching.
func (e *AnswerEvaluator) normalize(s string) string {
	return strings.ToLower(s)
}

func containsAll(text string, terms []string, fold func(string) string) bool {
	for _, term := range terms {
		if !strings.Contains(text, fold(term)) {
			return false
		}
	}
	return true
}

func identity(s string) string { return s }
