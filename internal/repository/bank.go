package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// ErrBackupNotFound is returned when no rolling backup has been written yet.
var ErrBackupNotFound = errors.New("bank backup not found")

const (
	rollingBackupSuffix = "_backup.json"
	archiveTimeLayout   = "20060102-150405.000000"
)

// BankRepository stores the question bank as a JSON array of records.
// Every save also writes a timestamped archive copy and the rolling backup.
type BankRepository struct {
	path      string
	backupDir string
	now       func() time.Time
}

// NewBankRepository creates a BankRepository for the bank at path.
// Backups go to backupDir, or to a "backup" directory next to the bank when empty.
func NewBankRepository(path, backupDir string) *BankRepository {
	if backupDir == "" {
		backupDir = filepath.Join(filepath.Dir(path), "backup")
	}
	return &BankRepository{
		path:      path,
		backupDir: backupDir,
		now:       time.Now,
	}
}

// Load reads and normalizes the bank. A missing bank file is an empty bank.
func (r *BankRepository) Load(_ context.Context) ([]entities.QuestionRecord, error) {
	records, err := readBank(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []entities.QuestionRecord{}, nil
	}
	return records, err
}

// Save persists the full bank, then writes the archive copy and overwrites the rolling backup.
func (r *BankRepository) Save(_ context.Context, records []entities.QuestionRecord) error {
	data, err := marshalDocument(toRaw(records))
	if err != nil {
		return fmt.Errorf("%w: marshal bank: %w", entities.ErrStorage, err)
	}

	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("%w: write bank: %w", entities.ErrStorage, err)
	}

	archive := filepath.Join(r.backupDir, r.archiveName(r.now()))
	if err := writeFileAtomic(archive, data); err != nil {
		return fmt.Errorf("%w: write archive backup: %w", entities.ErrStorage, err)
	}

	if err := writeFileAtomic(r.RollingBackupPath(), data); err != nil {
		return fmt.Errorf("%w: write rolling backup: %w", entities.ErrStorage, err)
	}

	return nil
}

// LoadBackup reads the rolling backup taken by the last Save.
func (r *BankRepository) LoadBackup(_ context.Context) ([]entities.QuestionRecord, error) {
	records, err := readBank(r.RollingBackupPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBackupNotFound
	}
	return records, err
}

// RollingBackupPath returns the fixed-name backup file path.
func (r *BankRepository) RollingBackupPath() string {
	return filepath.Join(r.backupDir, r.baseName()+rollingBackupSuffix)
}

// Path returns the bank file path.
func (r *BankRepository) Path() string {
	return r.path
}

func (r *BankRepository) archiveName(t time.Time) string {
	return fmt.Sprintf("%s_%s.json", r.baseName(), t.UTC().Format(archiveTimeLayout))
}

func (r *BankRepository) baseName() string {
	return strings.TrimSuffix(filepath.Base(r.path), filepath.Ext(r.path))
}

// readBank decodes a bank document. Missing files surface os.ErrNotExist unwrapped
// by ErrStorage so callers can decide what absence means.
func readBank(path string) ([]entities.QuestionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read %s: %w", entities.ErrStorage, path, err)
	}

	var raw []entities.RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal %s: %w", entities.ErrStorage, path, err)
	}

	records := make([]entities.QuestionRecord, 0, len(raw))
	for i, rr := range raw {
		rec, err := rr.Normalize()
		if err != nil {
			var verr *entities.ValidationError
			if errors.As(err, &verr) {
				err = verr.AtRow(i + 1)
			}
			return nil, fmt.Errorf("%w: %s: %w", entities.ErrStorage, path, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func toRaw(records []entities.QuestionRecord) []entities.RawRecord {
	out := make([]entities.RawRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Raw())
	}
	return out
}
