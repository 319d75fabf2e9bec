package service

import (
	"context"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// BankRepository persists the question bank and its rolling backup.
type BankRepository interface {
	Load(ctx context.Context) ([]entities.QuestionRecord, error)
	Save(ctx context.Context, records []entities.QuestionRecord) error
	LoadBackup(ctx context.Context) ([]entities.QuestionRecord, error)
}

// ConfigRepository persists the quiz config.
// Load returns entities.ErrConfigNotFound when nothing is stored.
type ConfigRepository interface {
	Load(ctx context.Context) (*entities.QuizConfig, error)
	Save(ctx context.Context, cfg entities.QuizConfig) error
	Delete(ctx context.Context) error
}
