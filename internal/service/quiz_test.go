package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// scriptedPresenter answers by question text and confirms every slot listed in confirm.
type scriptedPresenter struct {
	answers map[string]string
	confirm map[int]bool
	graded  map[int]entities.GradeState
	seen    []int
}

func (p *scriptedPresenter) RenderQuestion(_ context.Context, index int, record entities.QuestionRecord, _ string) (string, error) {
	p.seen = append(p.seen, index)
	return p.answers[record.Question], nil
}

func (p *scriptedPresenter) RenderConfirmAction(_ context.Context, index int) (bool, error) {
	return p.confirm[index], nil
}

func (p *scriptedPresenter) RenderGrade(_ context.Context, index int, _ entities.QuestionRecord, state entities.GradeState) error {
	if p.graded == nil {
		p.graded = map[int]entities.GradeState{}
	}
	p.graded[index] = state
	return nil
}

func newQuizFixture(bank []entities.QuestionRecord, cfg *entities.QuizConfig) *QuizService {
	sel := seededSelector(DefaultSelectionPolicy())
	configs := NewConfigService(&memConfig{cfg: cfg}, sel, zap.NewNop())
	return NewQuizService(&memBank{records: bank}, configs, sel, NewAnswerEvaluator(), zap.NewNop())
}

func TestStartAttemptUsesConfig(t *testing.T) {
	svc := newQuizFixture(chapterBank("1", "1.1", "2", "2.3", "3"), &entities.QuizConfig{Chapter: "2", NumQuestions: 10})

	attempt, err := svc.StartAttempt(context.Background(), "tester")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if attempt.Tracker.Len() != 3 || attempt.Available != 3 {
		t.Fatalf("served %d of %d, want 3 of 3", attempt.Tracker.Len(), attempt.Available)
	}
	if attempt.Shortfall() != 7 {
		t.Fatalf("Shortfall() = %d, want 7", attempt.Shortfall())
	}
	if attempt.Chapter != "2" || attempt.Taker != "tester" || attempt.ID.String() == "" {
		t.Fatalf("attempt not populated: %+v", attempt)
	}
}

func TestStartAttemptDefaultConfig(t *testing.T) {
	chapters := make([]string, 12)
	for i := range chapters {
		chapters[i] = "1"
	}
	svc := newQuizFixture(chapterBank(chapters...), nil)

	attempt, err := svc.StartAttempt(context.Background(), "tester")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if attempt.Tracker.Len() != entities.DefaultNumQuestions {
		t.Fatalf("served %d, want %d", attempt.Tracker.Len(), entities.DefaultNumQuestions)
	}
}

func TestStartAttemptEmptyPool(t *testing.T) {
	svc := newQuizFixture(chapterBank("5"), &entities.QuizConfig{Chapter: "2", NumQuestions: 3})

	if _, err := svc.StartAttempt(context.Background(), "tester"); !errors.Is(err, ErrNoQuestionsAvailable) {
		t.Fatalf("err = %v, want ErrNoQuestionsAvailable", err)
	}
}

func TestRunAttemptConfirmFlow(t *testing.T) {
	bank := []entities.QuestionRecord{
		{Question: "q1", Chapter: "1", Criterion: entities.Keywords("cache")},
		{Question: "q2", Chapter: "1", Criterion: entities.Keywords("queue")},
		{Question: "q3", Chapter: "1", Criterion: entities.MustInclude("Exact")},
	}
	svc := newQuizFixture(bank, &entities.QuizConfig{Chapter: "1", NumQuestions: 3})
	ctx := context.Background()

	attempt, err := svc.StartAttempt(ctx, "tester")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	p := &scriptedPresenter{
		answers: map[string]string{"q1": "a Cache", "q2": "a stack", "q3": "exact"},
		confirm: map[int]bool{0: true, 1: true},
	}
	tally, err := svc.RunAttempt(ctx, attempt, p)
	if err != nil {
		t.Fatalf("RunAttempt: %v", err)
	}
	if len(p.seen) != 3 || len(p.graded) != 2 {
		t.Fatalf("rendered %d questions, graded %d", len(p.seen), len(p.graded))
	}
	if tally.Graded != 2 {
		t.Fatalf("progress denominator = %d, want 2", tally.Graded)
	}

	final := svc.Submit(attempt)
	if final.Graded != 3 || final.Correct != 1 {
		t.Fatalf("Submit() = %+v, want 1/3", final)
	}
}

func TestQuizServiceConfirm(t *testing.T) {
	svc := newQuizFixture(chapterBank("1"), nil)
	attempt, _ := svc.StartAttempt(context.Background(), "tester")

	if state, err := svc.Confirm(attempt, 0, "the answer"); err != nil || state != entities.Correct {
		t.Fatalf("Confirm = %v, %v", state, err)
	}
	if state, _ := svc.Confirm(attempt, 0, "no idea"); state != entities.Incorrect {
		t.Fatalf("re-confirm = %v, want incorrect", state)
	}
	if got := svc.Progress(attempt); got.Graded != 1 || got.Correct != 0 {
		t.Fatalf("Progress() = %+v", got)
	}
	if err := svc.Respond(attempt, 0, "the answer again"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got := svc.Progress(attempt); got.Correct != 0 {
		t.Fatal("Respond must not grade")
	}
	if state, _ := svc.Grade(attempt, 0); state != entities.Correct {
		t.Fatalf("Grade = %v, want correct", state)
	}
	if _, err := svc.Confirm(attempt, 1, "x"); !errors.Is(err, entities.ErrIndexOutOfRange) {
		t.Fatalf("out of range confirm err = %v", err)
	}
}
