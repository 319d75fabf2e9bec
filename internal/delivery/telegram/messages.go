// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/service"
)

// Plain-text messages; wrap with md before sending.
const (
	msgInternalError        = "Something went wrong. Please try again later."
	msgUnknownCommand       = "Unknown command. Available commands:\n\n/quiz - start today's quiz\n/answer N text - answer question N\n/score - confirmed answers so far\n/submit - grade everything and finish"
	msgNoAvailableQuestions = "There are no questions for today's chapter yet. Ask the administrator to check the quiz settings."
	msgQuizDataUnavailable  = "The question bank cannot be read right now. Ask the administrator to check it."
	msgNoActiveQuiz         = "No quiz is running. Use /quiz to start one."
	msgNotAQuestion         = "That message is not a question of your current quiz."
	msgHowToAnswer          = "Reply to a question message with your answer, or use /answer N text."
	msgUseAnswer            = "Use: /answer N your answer"
	msgOutOfRangeQuestion   = "Question number must be between 1 and %d."
	msgStaleQuiz            = "This quiz is already finished."
)

const progressBarLength = 10

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// welcomeMessage builds the /start and /help text (MarkdownV2 safe).
func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("Daily chapter quiz"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Every day the administrator picks a chapter and a number of questions. "))
	sb.WriteString(md("You answer in your own words and the bot checks the key terms."))
	sb.WriteString("\n\n")
	sb.WriteString(md("1. Use /quiz to get today's questions."))
	sb.WriteString("\n")
	sb.WriteString(md("2. Reply to a question message with your answer, or send /answer N text."))
	sb.WriteString("\n")
	sb.WriteString(md("3. Press "))
	sb.WriteString(bold("Confirm"))
	sb.WriteString(md(" to check one answer. You can edit it and confirm again."))
	sb.WriteString("\n")
	sb.WriteString(md("4. /score shows your confirmed answers, /submit grades everything."))

	return sb.String()
}

// buildQuizStartMessage builds quiz start message (MarkdownV2 safe).
func buildQuizStartMessage(a *service.Attempt) string {
	chapter := "all chapters"
	switch {
	case a.Chapter == "":
	case a.Mode == service.ModeExact:
		chapter = "chapter " + a.Chapter
	default:
		chapter = "chapters up to " + a.Chapter
	}

	var sb strings.Builder
	sb.WriteString(bold("🎯 Today's quiz"))
	sb.WriteString("\n\n")
	if a.Taker != "" {
		sb.WriteString(md(a.Taker + ", "))
	}
	sb.WriteString(md(fmt.Sprintf("%d questions from %s.", a.Tracker.Len(), chapter)))

	if short := a.Shortfall(); short > 0 {
		sb.WriteString("\n")
		sb.WriteString(italic(fmt.Sprintf("Only %d questions are available, %d fewer than planned.", a.Available, short)))
	}

	return sb.String()
}

// formatQuizQuestion formats a quiz question (MarkdownV2 safe for question text).
func formatQuizQuestion(q entities.QuestionRecord, currentNum, totalQuestions int) string {
	header := fmt.Sprintf("Question %d of %d", currentNum, totalQuestions)
	if q.Chapter != "" {
		header += " · chapter " + q.Chapter
	}
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		md(header),
		bold(q.Question),
		italic("Reply to this message with your answer."),
	)
}

// formatResponseSaved echoes the recorded response of a question.
func formatResponseSaved(questionNum int, text string) string {
	return fmt.Sprintf(
		"%s\n%s",
		md(fmt.Sprintf("Answer to question %d:", questionNum)),
		md(text),
	)
}

// formatAnswerFeedback formats feedback for a quiz answer (MarkdownV2 safe).
func formatAnswerFeedback(isCorrect bool, explanation string) string {
	if isCorrect {
		return md("✅ Correct!")
	}
	if explanation == "" {
		return md("❌ Incorrect")
	}
	return fmt.Sprintf(
		"%s\n\n%s %s",
		md("❌ Incorrect"),
		md("Explanation:"),
		md(explanation),
	)
}

// formatProgress formats the confirm-as-you-go tally.
func formatProgress(t entities.Tally, total int) string {
	pct, ok := t.Percent()
	if !ok {
		return md(fmt.Sprintf("No answers confirmed yet (0 of %d).", total))
	}
	return fmt.Sprintf(
		"%s %s\n%s",
		md("Confirmed:"),
		bold(fmt.Sprintf("%d/%d correct (%.1f%%)", t.Correct, t.Graded, pct)),
		md(fmt.Sprintf("%d of %d questions confirmed.", t.Graded, total)),
	)
}

// formatQuizResult formats quiz results (MarkdownV2 safe).
func formatQuizResult(a *service.Attempt, t entities.Tally) string {
	pct, _ := t.Percent()

	emoji, message := "📚", "Keep reading the chapter and try again tomorrow."
	switch {
	case pct >= 90:
		emoji, message = "🌟", "Excellent result!"
	case pct >= 70:
		emoji, message = "👍", "Good result!"
	case pct >= 50:
		emoji, message = "💪", "Not bad, keep going!"
	}

	var sb strings.Builder
	sb.WriteString(md(emoji + " Quiz finished!"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Result: "))
	sb.WriteString(bold(fmt.Sprintf("%d/%d (%.1f%%)", t.Correct, t.Graded, pct)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(t.Correct, t.Graded, progressBarLength)))
	sb.WriteString("\n\n")

	for i, slot := range a.Tracker.Slots() {
		mark := "✅"
		if slot.State != entities.Correct {
			mark = "❌"
		}
		sb.WriteString(md(fmt.Sprintf("%s %d. %s", mark, i+1, slot.Question.Question)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(md(message))
	return sb.String()
}

func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := current * length / total
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
