package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/app"
	"github.com/aliskhannn/chapter-quiz-bot/internal/config"
	"github.com/aliskhannn/chapter-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/chapter-quiz-bot/internal/logger"
	"github.com/aliskhannn/chapter-quiz-bot/internal/storage"
)

func main() {
	// A missing .env is fine: variables may come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	token, err := cfg.TelegramToken()
	if err != nil {
		lg.Fatal("telegram token is not configured", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "quiz", Description: "Start today's quiz"},
		{Command: "answer", Description: "Answer a question (usage: /answer 2 your answer)"},
		{Command: "score", Description: "Show confirmed answers"},
		{Command: "submit", Description: "Grade all answers and finish"},
		{Command: "help", Description: "Help"},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.NewServices(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if cfg.Drift.Enabled {
		go func() {
			if err := services.Drift.Start(ctx); err != nil {
				lg.Error("drift watcher failed", zap.Error(err))
			}
		}()
	}

	handler := telegram.NewHandler(
		bot,
		lg,
		services.Quiz,
		storage.NewAttemptStorage(),
	)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("telegram handler stopped with error", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}
