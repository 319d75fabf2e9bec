package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot         *tgbotapi.BotAPI
	logger      *zap.Logger
	quizService QuizService
	attempts    AttemptStorage
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	quizService QuizService,
	attempts AttemptStorage,
) *Handler {
	return &Handler{
		bot:         bot,
		logger:      logger,
		quizService: quizService,
		attempts:    attempts,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	message := update.Message
	chatID := message.Chat.ID

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", message.Text),
	)

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			if err := h.send(newMessage(chatID, welcomeMessage())); err != nil {
				return
			}
			_ = h.withErrorHandling(h.handleQuiz(takerName(message.From)))(ctx, chatID)

		case "help":
			_ = h.send(newMessage(chatID, welcomeMessage()))

		case "quiz":
			_ = h.withErrorHandling(h.handleQuiz(takerName(message.From)))(ctx, chatID)

		case "answer":
			_ = h.withErrorHandling(h.handleAnswer(message.CommandArguments()))(ctx, chatID)

		case "score":
			_ = h.withErrorHandling(h.handleScore())(ctx, chatID)

		case "submit":
			_ = h.withErrorHandling(h.handleSubmit())(ctx, chatID)

		default:
			_ = h.send(newMessage(chatID, md(msgUnknownCommand)))
		}

		return
	}

	if message.ReplyToMessage != nil {
		_ = h.withErrorHandling(h.handleReply(message.ReplyToMessage.MessageID, message.Text))(ctx, chatID)
		return
	}

	if _, ok := h.attempts.Get(chatID); ok {
		_ = h.send(newMessage(chatID, md(msgHowToAnswer)))
		return
	}
	_ = h.send(newMessage(chatID, md(msgUnknownCommand)))
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newMessage(chatID, md(text)))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	_, err := h.sendMessage(c)
	return err
}

func (h *Handler) sendMessage(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
	return msg, err
}

func takerName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}
