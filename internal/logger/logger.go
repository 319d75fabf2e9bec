package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/config"
)

// New builds the application logger: JSON in production, human-readable elsewhere.
func New(cfg *config.Config) (*zap.Logger, error) {
	switch cfg.Env {
	case "production", "prod":
		return zap.NewProduction()
	case "test":
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}
