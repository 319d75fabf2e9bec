package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// ConfigRepository stores the quiz config as a single JSON document.
type ConfigRepository struct {
	path string
}

// NewConfigRepository creates a ConfigRepository for the document at path.
func NewConfigRepository(path string) *ConfigRepository {
	return &ConfigRepository{path: path}
}

// Load returns the persisted config or entities.ErrConfigNotFound.
func (r *ConfigRepository) Load(_ context.Context) (*entities.QuizConfig, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, entities.ErrConfigNotFound
		}
		return nil, fmt.Errorf("%w: read config: %w", entities.ErrStorage, err)
	}

	var cfg entities.QuizConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %w", entities.ErrStorage, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: config: %w", entities.ErrStorage, err)
	}

	return &cfg, nil
}

// Save overwrites the persisted config.
func (r *ConfigRepository) Save(_ context.Context, cfg entities.QuizConfig) error {
	data, err := marshalDocument(cfg)
	if err != nil {
		return fmt.Errorf("%w: marshal config: %w", entities.ErrStorage, err)
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("%w: write config: %w", entities.ErrStorage, err)
	}
	return nil
}

// Delete removes the persisted config. Deleting an absent config is not an error.
func (r *ConfigRepository) Delete(_ context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: delete config: %w", entities.ErrStorage, err)
	}
	return nil
}
