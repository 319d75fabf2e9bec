package telegram

import (
	"context"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/service"
)

type QuizService interface {
	StartAttempt(ctx context.Context, taker string) (*service.Attempt, error)
	Respond(attempt *service.Attempt, index int, text string) error
	Grade(attempt *service.Attempt, index int) (entities.GradeState, error)
	Progress(attempt *service.Attempt) entities.Tally
	Submit(attempt *service.Attempt) entities.Tally
}

type AttemptStorage interface {
	Store(chatID int64, attempt *service.Attempt)
	Get(chatID int64) (*service.Attempt, bool)
	Delete(chatID int64)
	BindMessage(chatID int64, messageID, slot int)
	SlotForMessage(chatID int64, messageID int) (int, bool)
}
