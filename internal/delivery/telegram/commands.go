package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/service"
)

// handleQuiz starts a fresh attempt and sends every selected question as its own message.
func (h *Handler) handleQuiz(taker string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		attempt, err := h.quizService.StartAttempt(ctx, taker)
		if err != nil {
			return fmt.Errorf("start attempt: %w", err)
		}

		h.attempts.Store(chatID, attempt)

		if err := h.send(newMessage(chatID, buildQuizStartMessage(attempt))); err != nil {
			return err
		}

		total := attempt.Tracker.Len()
		for i, slot := range attempt.Tracker.Slots() {
			sent, err := h.sendMessage(newMessage(chatID, formatQuizQuestion(slot.Question, i+1, total)))
			if err != nil {
				return err
			}
			h.attempts.BindMessage(chatID, sent.MessageID, i)
		}

		return nil
	}
}

// handleReply records a reply to a question message.
func (h *Handler) handleReply(replyTo int, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		attempt, ok := h.attempts.Get(chatID)
		if !ok {
			return h.send(newMessage(chatID, md(msgNoActiveQuiz)))
		}

		slot, ok := h.attempts.SlotForMessage(chatID, replyTo)
		if !ok {
			return h.send(newMessage(chatID, md(msgNotAQuestion)))
		}

		return h.recordResponse(chatID, attempt, slot, text)
	}
}

// handleAnswer records "/answer N text".
func (h *Handler) handleAnswer(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		attempt, ok := h.attempts.Get(chatID)
		if !ok {
			return h.send(newMessage(chatID, md(msgNoActiveQuiz)))
		}

		slot, text, err := parseAnswerArgs(args, attempt.Tracker.Len())
		if err != nil {
			return h.send(newMessage(chatID, md(err.Error())))
		}

		return h.recordResponse(chatID, attempt, slot, text)
	}
}

func (h *Handler) recordResponse(chatID int64, attempt *service.Attempt, slot int, text string) error {
	if err := h.quizService.Respond(attempt, slot, text); err != nil {
		return fmt.Errorf("record response: %w", err)
	}

	h.logger.Debug("response recorded",
		zap.String("attempt_id", attempt.ID.String()),
		zap.Int("slot", slot),
	)

	msg := newMessage(chatID, formatResponseSaved(slot+1, text))
	msg.ReplyMarkup = buildConfirmKeyboard(attempt.ID, slot)
	return h.send(msg)
}

// handleScore reports the tally of confirmed questions.
func (h *Handler) handleScore() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		attempt, ok := h.attempts.Get(chatID)
		if !ok {
			return h.send(newMessage(chatID, md(msgNoActiveQuiz)))
		}

		tally := h.quizService.Progress(attempt)
		return h.send(newMessage(chatID, formatProgress(tally, attempt.Tracker.Len())))
	}
}

// handleSubmit grades every question, sends the result and ends the attempt.
func (h *Handler) handleSubmit() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		attempt, ok := h.attempts.Get(chatID)
		if !ok {
			return h.send(newMessage(chatID, md(msgNoActiveQuiz)))
		}

		tally := h.quizService.Submit(attempt)
		h.attempts.Delete(chatID)

		return h.send(newMessage(chatID, formatQuizResult(attempt, tally)))
	}
}

// parseAnswerArgs splits "N text" into a 0-based slot and the response text.
func parseAnswerArgs(args string, total int) (int, string, error) {
	args = strings.TrimSpace(args)
	num, text, _ := strings.Cut(args, " ")

	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, "", errors.New(msgUseAnswer)
	}
	if n < 1 || n > total {
		return 0, "", fmt.Errorf(msgOutOfRangeQuestion, total)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", errors.New(msgUseAnswer)
	}

	return n - 1, text, nil
}

// gradeFeedback picks the explanation shown after a grade.
func gradeFeedback(state entities.GradeState, record entities.QuestionRecord) string {
	return formatAnswerFeedback(state == entities.Correct, record.Explanation)
}
