package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// ErrNoQuestionsAvailable is returned when the configured chapter admits no questions.
var ErrNoQuestionsAvailable = errors.New("no questions available")

type BankLoader interface {
	Load(ctx context.Context) ([]entities.QuestionRecord, error)
}

type ConfigLoader interface {
	Effective(ctx context.Context) (entities.QuizConfig, error)
}

// Presenter renders one question at a time and collects the test-taker's input.
type Presenter interface {
	// RenderQuestion shows the question with the current response and returns the edited response.
	RenderQuestion(ctx context.Context, index int, record entities.QuestionRecord, current string) (string, error)
	// RenderConfirmAction reports whether the test-taker asked to grade this question now.
	RenderConfirmAction(ctx context.Context, index int) (bool, error)
}

// GradeRenderer is implemented by presenters that show per-question feedback after a confirm.
type GradeRenderer interface {
	RenderGrade(ctx context.Context, index int, record entities.QuestionRecord, state entities.GradeState) error
}

// Attempt is one test-taker's pass over the day's selected questions.
type Attempt struct {
	ID        uuid.UUID
	Taker     string
	Chapter   string
	Mode      SelectionMode
	Requested int
	Available int
	StartedAt time.Time
	Tracker   *SessionTracker
}

// Shortfall returns how many fewer questions were served than requested.
func (a *Attempt) Shortfall() int {
	return max(0, a.Requested-a.Tracker.Len())
}

type QuizService struct {
	bank      BankLoader
	configs   ConfigLoader
	selector  *QuestionSelector
	evaluator Evaluator
	logger    *zap.Logger
}

func NewQuizService(
	bank BankLoader,
	configs ConfigLoader,
	selector *QuestionSelector,
	evaluator Evaluator,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		bank:      bank,
		configs:   configs,
		selector:  selector,
		evaluator: evaluator,
		logger:    logger,
	}
}

// StartAttempt selects today's questions for taker and seeds a fresh session tracker.
// Storage errors are fatal; an empty pool yields ErrNoQuestionsAvailable.
func (s *QuizService) StartAttempt(ctx context.Context, taker string) (*Attempt, error) {
	cfg, err := s.configs.Effective(ctx)
	if err != nil {
		return nil, err
	}

	bank, err := s.bank.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}

	selected, available := s.selector.SelectWithinCeiling(bank, cfg.Chapter, cfg.NumQuestions)
	if available == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	attempt := &Attempt{
		ID:        uuid.New(),
		Taker:     taker,
		Chapter:   cfg.Chapter,
		Mode:      s.selector.Policy().Mode,
		Requested: cfg.NumQuestions,
		Available: available,
		StartedAt: time.Now(),
		Tracker:   NewSessionTracker(selected, s.evaluator),
	}

	s.logger.Info("quiz attempt started",
		zap.String("attempt_id", attempt.ID.String()),
		zap.String("taker", taker),
		zap.String("chapter", cfg.Chapter),
		zap.Int("requested", cfg.NumQuestions),
		zap.Int("available", available),
		zap.Int("served", len(selected)),
	)
	if attempt.Shortfall() > 0 {
		s.logger.Warn("fewer questions than requested",
			zap.String("attempt_id", attempt.ID.String()),
			zap.Int("shortfall", attempt.Shortfall()),
		)
	}

	return attempt, nil
}

// RunAttempt walks every slot through the presenter: record the response, then
// grade it when the presenter reports a confirm. It returns the incremental tally.
func (s *QuizService) RunAttempt(ctx context.Context, attempt *Attempt, p Presenter) (entities.Tally, error) {
	feedback, _ := p.(GradeRenderer)

	for i, slot := range attempt.Tracker.Slots() {
		if err := ctx.Err(); err != nil {
			return attempt.Tracker.Aggregate(), err
		}

		text, err := p.RenderQuestion(ctx, i, slot.Question, slot.Response)
		if err != nil {
			return attempt.Tracker.Aggregate(), fmt.Errorf("render question %d: %w", i+1, err)
		}
		if err := attempt.Tracker.RecordResponse(i, text); err != nil {
			return attempt.Tracker.Aggregate(), err
		}

		confirm, err := p.RenderConfirmAction(ctx, i)
		if err != nil {
			return attempt.Tracker.Aggregate(), fmt.Errorf("render confirm %d: %w", i+1, err)
		}
		if !confirm {
			continue
		}

		state, err := attempt.Tracker.Confirm(i)
		if err != nil {
			return attempt.Tracker.Aggregate(), err
		}
		if feedback != nil {
			if err := feedback.RenderGrade(ctx, i, slot.Question, state); err != nil {
				return attempt.Tracker.Aggregate(), fmt.Errorf("render grade %d: %w", i+1, err)
			}
		}
	}

	return attempt.Tracker.Aggregate(), nil
}

// Respond records text for slot index without grading it.
func (s *QuizService) Respond(attempt *Attempt, index int, text string) error {
	return attempt.Tracker.RecordResponse(index, text)
}

// Grade grades the response already recorded for slot index.
func (s *QuizService) Grade(attempt *Attempt, index int) (entities.GradeState, error) {
	return attempt.Tracker.Confirm(index)
}

// Confirm records text for slot index and grades it.
func (s *QuizService) Confirm(attempt *Attempt, index int, text string) (entities.GradeState, error) {
	if err := attempt.Tracker.RecordResponse(index, text); err != nil {
		return entities.Ungraded, err
	}
	return attempt.Tracker.Confirm(index)
}

// Progress returns the tally of the questions confirmed so far.
func (s *QuizService) Progress(attempt *Attempt) entities.Tally {
	return attempt.Tracker.Aggregate()
}

// Submit grades every question of the attempt; the denominator is the number served.
func (s *QuizService) Submit(attempt *Attempt) entities.Tally {
	tally := attempt.Tracker.GradeAll()

	pct, _ := tally.Percent()
	s.logger.Info("quiz attempt submitted",
		zap.String("attempt_id", attempt.ID.String()),
		zap.String("taker", attempt.Taker),
		zap.Int("correct", tally.Correct),
		zap.Int("total", tally.Graded),
		zap.Float64("percent", pct),
		zap.Duration("elapsed", time.Since(attempt.StartedAt)),
	)
	return tally
}
