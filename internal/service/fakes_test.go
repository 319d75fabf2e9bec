package service

import (
	"context"
	"math/rand"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/repository"
)

// memBank is an in-memory BankRepository with a rolling backup like the file store.
type memBank struct {
	records   []entities.QuestionRecord
	backup    []entities.QuestionRecord
	hasBackup bool
	loadErr   error
	saves     int
}

func (m *memBank) Load(context.Context) ([]entities.QuestionRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return entities.CloneRecords(m.records), nil
}

func (m *memBank) Save(_ context.Context, records []entities.QuestionRecord) error {
	m.records = entities.CloneRecords(records)
	m.backup = entities.CloneRecords(records)
	m.hasBackup = true
	m.saves++
	return nil
}

func (m *memBank) LoadBackup(context.Context) ([]entities.QuestionRecord, error) {
	if !m.hasBackup {
		return nil, repository.ErrBackupNotFound
	}
	return entities.CloneRecords(m.backup), nil
}

// memConfig is an in-memory ConfigRepository.
type memConfig struct {
	cfg *entities.QuizConfig
}

func (m *memConfig) Load(context.Context) (*entities.QuizConfig, error) {
	if m.cfg == nil {
		return nil, entities.ErrConfigNotFound
	}
	cfg := *m.cfg
	return &cfg, nil
}

func (m *memConfig) Save(_ context.Context, cfg entities.QuizConfig) error {
	m.cfg = &cfg
	return nil
}

func (m *memConfig) Delete(context.Context) error {
	m.cfg = nil
	return nil
}

func chapterBank(chapters ...string) []entities.QuestionRecord {
	out := make([]entities.QuestionRecord, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, entities.QuestionRecord{
			Question:  "question in chapter " + ch,
			Chapter:   ch,
			Criterion: entities.Keywords("answer"),
		})
	}
	return out
}

func seededSelector(policy SelectionPolicy) *QuestionSelector {
	return NewQuestionSelector(policy, WithRand(rand.New(rand.NewSource(42))))
}
