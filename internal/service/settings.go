package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// ErrHistoryUnsupported is returned by History when the config store keeps no history.
var ErrHistoryUnsupported = errors.New("config store keeps no history")

// ConfigHistory is implemented by config stores that keep previously saved configs.
type ConfigHistory interface {
	History(ctx context.Context, limit int) ([]entities.QuizConfig, error)
}

// ConfigService manages the persisted daily quiz configuration.
type ConfigService struct {
	repository ConfigRepository
	selector   *QuestionSelector
	logger     *zap.Logger
}

// NewConfigService creates a new ConfigService.
func NewConfigService(repository ConfigRepository, selector *QuestionSelector, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		repository: repository,
		selector:   selector,
		logger:     logger,
	}
}

// Load returns the persisted config. The second value is false when none is stored,
// in which case the default config is returned.
func (s *ConfigService) Load(ctx context.Context) (entities.QuizConfig, bool, error) {
	cfg, err := s.repository.Load(ctx)
	if err != nil {
		if errors.Is(err, entities.ErrConfigNotFound) {
			return entities.DefaultQuizConfig(), false, nil
		}
		return entities.QuizConfig{}, false, fmt.Errorf("load quiz config: %w", err)
	}
	return *cfg, true, nil
}

// Effective returns the persisted config or the default one.
func (s *ConfigService) Effective(ctx context.Context) (entities.QuizConfig, error) {
	cfg, _, err := s.Load(ctx)
	return cfg, err
}

// Save persists the config with requested clamped to [1, available] for the chapter,
// where available is counted with the selector's filter over bank.
// A chapter with no questions at all is rejected.
func (s *ConfigService) Save(
	ctx context.Context,
	chapter string,
	requested int,
	bank []entities.QuestionRecord,
) (entities.QuizConfig, error) {
	chapter = strings.TrimSpace(chapter)
	if chapter != "" && !entities.IsChapterLabel(chapter) {
		return entities.QuizConfig{}, &entities.ValidationError{
			Field:  entities.FieldChapter,
			Reason: "must be dot-separated numbers, e.g. 6.6",
		}
	}

	available := s.selector.Available(bank, chapter)
	if available == 0 {
		return entities.QuizConfig{}, &entities.ValidationError{
			Field:  entities.FieldChapter,
			Reason: fmt.Sprintf("no questions available for chapter %q", chapter),
		}
	}

	cfg := entities.QuizConfig{
		Chapter:      chapter,
		NumQuestions: clamp(requested, 1, available),
	}
	if cfg.NumQuestions != requested {
		s.logger.Info("requested question count clamped",
			zap.Int("requested", requested),
			zap.Int("saved", cfg.NumQuestions),
			zap.Int("available", available),
		)
	}

	if err := s.repository.Save(ctx, cfg); err != nil {
		return entities.QuizConfig{}, fmt.Errorf("save quiz config: %w", err)
	}

	s.logger.Info("quiz config saved",
		zap.String("chapter", cfg.Chapter),
		zap.Int("num_questions", cfg.NumQuestions),
	)
	return cfg, nil
}

// Reset deletes the persisted config; later loads fall back to the default.
func (s *ConfigService) Reset(ctx context.Context) error {
	if err := s.repository.Delete(ctx); err != nil {
		return fmt.Errorf("reset quiz config: %w", err)
	}
	s.logger.Info("quiz config reset")
	return nil
}

// History returns up to limit previously saved configs, newest first.
func (s *ConfigService) History(ctx context.Context, limit int) ([]entities.QuizConfig, error) {
	h, ok := s.repository.(ConfigHistory)
	if !ok {
		return nil, ErrHistoryUnsupported
	}
	history, err := h.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load quiz config history: %w", err)
	}
	return history, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
