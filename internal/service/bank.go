package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/repository"
)

// SaveResult reports the outcome of BankService.Save.
type SaveResult struct {
	Records int
	// Drifted is set when the store had been changed by someone else since our last save.
	// The save still went through: last writer wins.
	Drifted bool
}

// BankService owns the in-memory question bank of the administrator workflow.
// Mutations stay in memory until Save is called.
type BankService struct {
	repository BankRepository
	logger     *zap.Logger
	records    []entities.QuestionRecord
}

// NewBankService creates a new BankService.
func NewBankService(repository BankRepository, logger *zap.Logger) *BankService {
	return &BankService{
		repository: repository,
		logger:     logger,
		records:    []entities.QuestionRecord{},
	}
}

// Load replaces the in-memory bank with the store contents.
// On error the bank must be treated as unusable.
func (s *BankService) Load(ctx context.Context) error {
	records, err := s.repository.Load(ctx)
	if err != nil {
		return fmt.Errorf("load bank: %w", err)
	}
	s.records = records
	return nil
}

// Records returns a copy of the in-memory bank.
func (s *BankService) Records() []entities.QuestionRecord {
	return entities.CloneRecords(s.records)
}

// Len returns the number of questions in memory.
func (s *BankService) Len() int {
	return len(s.records)
}

// Get returns the record at index.
func (s *BankService) Get(index int) (entities.QuestionRecord, error) {
	if err := s.check(index); err != nil {
		return entities.QuestionRecord{}, err
	}
	return s.records[index].Clone(), nil
}

// Add validates and appends a record.
func (s *BankService) Add(record entities.QuestionRecord) error {
	rec, err := record.Raw().Normalize()
	if err != nil {
		return err
	}
	s.records = append(s.records, rec)
	return nil
}

// UpdateField replaces one field of the record at index. A rejected value leaves the record unchanged.
func (s *BankService) UpdateField(index int, field, value string) error {
	if err := s.check(index); err != nil {
		return err
	}
	rec, err := s.records[index].WithField(field, value)
	if err != nil {
		return err
	}
	s.records[index] = rec
	return nil
}

// Delete removes the record at index.
func (s *BankService) Delete(index int) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.records = append(s.records[:index], s.records[index+1:]...)
	return nil
}

// Import adds validated records in bulk, or replaces the bank when replace is set.
// Either every record is accepted or none is.
func (s *BankService) Import(records []entities.QuestionRecord, replace bool) error {
	normalized := make([]entities.QuestionRecord, 0, len(records))
	for i, r := range records {
		rec, err := r.Raw().Normalize()
		if err != nil {
			var verr *entities.ValidationError
			if errors.As(err, &verr) {
				return verr.AtRow(i + 1)
			}
			return err
		}
		normalized = append(normalized, rec)
	}

	if replace {
		s.records = normalized
	} else {
		s.records = append(s.records, normalized...)
	}
	return nil
}

// Save persists the in-memory bank. Before writing it checks the store for drift
// and logs a warning when someone else changed it; drift never blocks the save.
// A store that no longer parses counts as drifted.
func (s *BankService) Save(ctx context.Context) (SaveResult, error) {
	res := SaveResult{Records: len(s.records)}

	current, err := s.repository.Load(ctx)
	if err != nil {
		if !errors.Is(err, entities.ErrStorage) {
			return res, fmt.Errorf("load bank for drift check: %w", err)
		}
		// An unreadable store cannot match the last backup.
		s.logger.Warn("bank store unreadable before save", zap.Error(err))
		res.Drifted = true
	} else {
		drifted, err := s.DetectExternalDrift(ctx, current)
		if err != nil {
			s.logger.Warn("drift check failed", zap.Error(err))
		}
		res.Drifted = drifted
	}

	if res.Drifted {
		s.logger.Warn("question bank was modified outside this session; overwriting",
			zap.Int("store_records", len(current)),
			zap.Int("saved_records", len(s.records)),
		)
	}

	if err := s.repository.Save(ctx, s.records); err != nil {
		return res, fmt.Errorf("save bank: %w", err)
	}

	s.logger.Info("question bank saved", zap.Int("records", len(s.records)))
	return res, nil
}

// DetectExternalDrift compares current with the rolling backup of the last save.
// Without a backup there is nothing to compare and no drift is reported.
func (s *BankService) DetectExternalDrift(ctx context.Context, current []entities.QuestionRecord) (bool, error) {
	backup, err := s.repository.LoadBackup(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrBackupNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load backup: %w", err)
	}
	return !entities.RecordsEqual(current, backup), nil
}

// CheckStoreDrift loads the store and compares it with the rolling backup.
func (s *BankService) CheckStoreDrift(ctx context.Context) (bool, error) {
	current, err := s.repository.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load bank: %w", err)
	}
	return s.DetectExternalDrift(ctx, current)
}

func (s *BankService) check(index int) error {
	if index < 0 || index >= len(s.records) {
		return fmt.Errorf("question %d of %d: %w", index+1, len(s.records), entities.ErrIndexOutOfRange)
	}
	return nil
}
