package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// buildConfirmKeyboard builds the single-button keyboard that grades one answer.
func buildConfirmKeyboard(attemptID uuid.UUID, slot int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", buildConfirmCallback(attemptID, slot)),
		),
	)
}
