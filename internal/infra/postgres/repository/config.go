package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/infra/postgres"
)

// ConfigRepository provides access to the quiz config row in PostgreSQL.
type ConfigRepository struct {
	db         postgres.DBTX
	transactor *postgres.Transactor
}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(db postgres.DBTX, transactor *postgres.Transactor) *ConfigRepository {
	return &ConfigRepository{db: db, transactor: transactor}
}

// Load retrieves the quiz config or entities.ErrConfigNotFound.
func (r *ConfigRepository) Load(ctx context.Context) (*entities.QuizConfig, error) {
	query := `
		SELECT chapter, num_questions
		FROM quiz_config
		WHERE id = 1
	`

	var cfg entities.QuizConfig
	err := r.db.QueryRow(ctx, query).Scan(&cfg.Chapter, &cfg.NumQuestions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrConfigNotFound
		}
		return nil, fmt.Errorf("%w: get quiz config: %w", entities.ErrStorage, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: quiz config: %w", entities.ErrStorage, err)
	}

	return &cfg, nil
}

// Save upserts the quiz config and appends it to the history table in one transaction.
func (r *ConfigRepository) Save(ctx context.Context, cfg entities.QuizConfig) error {
	err := r.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		upsert := `
			INSERT INTO quiz_config (id, chapter, num_questions, updated_at)
			VALUES (1, $1, $2, NOW())
			ON CONFLICT (id) DO UPDATE
			SET chapter = EXCLUDED.chapter,
			    num_questions = EXCLUDED.num_questions,
			    updated_at = NOW()
		`
		if _, err := tx.Exec(ctx, upsert, cfg.Chapter, cfg.NumQuestions); err != nil {
			return fmt.Errorf("upsert quiz config: %w", err)
		}

		history := `
			INSERT INTO quiz_config_history (chapter, num_questions)
			VALUES ($1, $2)
		`
		if _, err := tx.Exec(ctx, history, cfg.Chapter, cfg.NumQuestions); err != nil {
			return fmt.Errorf("insert quiz config history: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}

	return nil
}

// Delete removes the quiz config row. History is kept.
func (r *ConfigRepository) Delete(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM quiz_config WHERE id = 1`); err != nil {
		return fmt.Errorf("%w: delete quiz config: %w", entities.ErrStorage, err)
	}
	return nil
}

// History returns saved configs, newest first.
func (r *ConfigRepository) History(ctx context.Context, limit int) ([]entities.QuizConfig, error) {
	query := `
		SELECT chapter, num_questions
		FROM quiz_config_history
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list quiz config history: %w", entities.ErrStorage, err)
	}

	history, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.QuizConfig, error) {
		var cfg entities.QuizConfig
		err := row.Scan(&cfg.Chapter, &cfg.NumQuestions)
		return cfg, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan quiz config history: %w", entities.ErrStorage, err)
	}

	return history, nil
}
