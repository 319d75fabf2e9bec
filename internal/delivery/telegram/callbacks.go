package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := decodeCallback(cb.Data)

	var notice string
	switch data.Action {
	case actionConfirm:
		notice = h.handleConfirmCallback(ctx, cb, data)
	default:
		h.logger.Debug("unknown callback action", zap.String("data", cb.Data))
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, notice)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

// handleConfirmCallback grades one slot and replaces the confirm prompt with the feedback.
func (h *Handler) handleConfirmCallback(_ context.Context, cb *tgbotapi.CallbackQuery, data callbackData) string {
	if cb.Message == nil {
		return ""
	}
	chatID := cb.Message.Chat.ID

	attemptID, slot, err := parseConfirmCallback(data)
	if err != nil {
		h.logger.Warn("invalid confirm callback", zap.String("data", cb.Data), zap.Error(err))
		return ""
	}

	attempt, ok := h.attempts.Get(chatID)
	if !ok || attempt.ID != attemptID {
		return msgStaleQuiz
	}

	state, err := h.quizService.Grade(attempt, slot)
	if err != nil {
		h.logger.Error("failed to grade response",
			zap.String("attempt_id", attempt.ID.String()),
			zap.Int("slot", slot),
			zap.Error(err),
		)
		return msgInternalError
	}

	current, err := attempt.Tracker.Slot(slot)
	if err != nil {
		return msgInternalError
	}

	text := formatResponseSaved(slot+1, current.Response) + "\n\n" + gradeFeedback(state, current.Question)
	edit := newEdit(chatID, cb.Message.MessageID, text)
	kb := buildConfirmKeyboard(attempt.ID, slot)
	edit.ReplyMarkup = &kb
	_ = h.send(edit)

	return state.String()
}
