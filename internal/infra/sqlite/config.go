package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// ConfigRepository keeps the quiz config in a single sqlite row.
type ConfigRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db, now: time.Now}
}

// Load returns the persisted config or entities.ErrConfigNotFound.
func (r *ConfigRepository) Load(ctx context.Context) (*entities.QuizConfig, error) {
	var cfg entities.QuizConfig
	err := r.db.QueryRowContext(ctx,
		`SELECT chapter, num_questions FROM quiz_config WHERE id = 1`,
	).Scan(&cfg.Chapter, &cfg.NumQuestions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrConfigNotFound
		}
		return nil, fmt.Errorf("%w: get quiz config: %w", entities.ErrStorage, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: quiz config: %w", entities.ErrStorage, err)
	}
	return &cfg, nil
}

// Save upserts the config and records it in the history table.
func (r *ConfigRepository) Save(ctx context.Context, cfg entities.QuizConfig) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", entities.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := r.now().Unix()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO quiz_config (id, chapter, num_questions, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET chapter = excluded.chapter,
		    num_questions = excluded.num_questions,
		    updated_at = excluded.updated_at`,
		cfg.Chapter, cfg.NumQuestions, now,
	); err != nil {
		return fmt.Errorf("%w: upsert quiz config: %w", entities.ErrStorage, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quiz_config_history (chapter, num_questions, saved_at) VALUES (?, ?, ?)`,
		cfg.Chapter, cfg.NumQuestions, now,
	); err != nil {
		return fmt.Errorf("%w: insert quiz config history: %w", entities.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", entities.ErrStorage, err)
	}
	return nil
}

// Delete removes the config row; history is kept.
func (r *ConfigRepository) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM quiz_config WHERE id = 1`); err != nil {
		return fmt.Errorf("%w: delete quiz config: %w", entities.ErrStorage, err)
	}
	return nil
}

// History returns saved configs, newest first.
func (r *ConfigRepository) History(ctx context.Context, limit int) ([]entities.QuizConfig, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT chapter, num_questions FROM quiz_config_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list quiz config history: %w", entities.ErrStorage, err)
	}
	defer rows.Close()

	var out []entities.QuizConfig
	for rows.Next() {
		var cfg entities.QuizConfig
		if err := rows.Scan(&cfg.Chapter, &cfg.NumQuestions); err != nil {
			return nil, fmt.Errorf("%w: scan quiz config history: %w", entities.ErrStorage, err)
		}
		out = append(out, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	return out, nil
}
