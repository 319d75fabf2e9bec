// Package app wires configuration into stores and services shared by the binaries.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/config"
	"github.com/aliskhannn/chapter-quiz-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/chapter-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/chapter-quiz-bot/internal/infra/sqlite"
	"github.com/aliskhannn/chapter-quiz-bot/internal/repository"
	"github.com/aliskhannn/chapter-quiz-bot/internal/service"
)

// Services bundles the services both front ends use.
type Services struct {
	Bank     *service.BankService
	Config   *service.ConfigService
	Quiz     *service.QuizService
	Selector *service.QuestionSelector
	Drift    *service.DriftWatcher

	close func()
}

// Close releases database handles opened for the config store.
func (s *Services) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewServices builds repositories for cfg and the services on top of them.
func NewServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	mode, err := service.ParseSelectionMode(cfg.Quiz.SelectionMode)
	if err != nil {
		return nil, err
	}
	selector := service.NewQuestionSelector(service.SelectionPolicy{
		Mode:                 mode,
		IncludeUncategorized: cfg.Quiz.IncludeUncategorized,
	})

	configRepo, closeStore, err := OpenConfigRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	bankRepo := repository.NewBankRepository(cfg.Bank.Path, cfg.Bank.BackupDir)
	bankService := service.NewBankService(bankRepo, logger)
	configService := service.NewConfigService(configRepo, selector, logger)

	return &Services{
		Bank:     bankService,
		Config:   configService,
		Quiz:     service.NewQuizService(bankRepo, configService, selector, service.NewAnswerEvaluator(), logger),
		Selector: selector,
		Drift:    service.NewDriftWatcher(bankService, cfg.Drift.Schedule, logger),
		close:    closeStore,
	}, nil
}

// OpenConfigRepository opens the quiz config store selected by config_store.driver.
// The returned func closes any database handle and is never nil.
func OpenConfigRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.ConfigRepository, func(), error) {
	switch cfg.ConfigStore.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("quiz config store: postgres")
		return pgrepo.NewConfigRepository(pool, postgres.NewTransactor(pool)), pool.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.ConfigStore.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("quiz config store: sqlite", zap.String("path", cfg.ConfigStore.SQLitePath))
		return sqlite.NewConfigRepository(db), func() { _ = db.Close() }, nil

	default:
		logger.Info("quiz config store: file", zap.String("path", cfg.ConfigStore.Path))
		return repository.NewConfigRepository(cfg.ConfigStore.Path), func() {}, nil
	}
}
