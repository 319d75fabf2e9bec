package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/app"
	"github.com/aliskhannn/chapter-quiz-bot/internal/config"
	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/logger"
)

const usage = `Usage: quizctl <command> [flags]

Commands:
  list     [-chapter C]                          list the question bank
  add      -question Q (-keywords K | -must-include P) [-chapter C] [-explanation E]
  update   -n N -field F -value V                replace one field of question N
  delete   -n N                                  delete question N
  import   -file F [-replace]                    import questions from .xlsx or .csv
  config   show | set -chapter C -count N | history [-limit N] | reset
  drift                                          compare the bank with the last backup
  take     [-name NAME]                          take today's quiz in the terminal
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.NewServices(ctx, cfg, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer services.Close()

	cli := &cli{services: services, logger: lg, out: os.Stdout, in: os.Stdin}
	if err := cli.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		var verr *entities.ValidationError
		switch {
		case errors.Is(err, errUsage):
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		case errors.As(err, &verr):
			fmt.Fprintf(os.Stderr, "Invalid input: %v\n", verr)
		default:
			lg.Debug("command failed", zap.String("command", os.Args[1]), zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
