package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/service"
	"github.com/aliskhannn/chapter-quiz-bot/internal/storage"
)

// fakeBotAPI answers Bot API calls and records every sent text.
type fakeBotAPI struct {
	mu     sync.Mutex
	texts  []string
	nextID int
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"quiz","username":"quiz_bot"}}`)
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		f.texts = append(f.texts, r.PostForm.Get("text"))
		f.nextID++
		id := f.nextID
		f.mu.Unlock()
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":42,"type":"private"}}}`, id)
	default:
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}
}

func (f *fakeBotAPI) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

type stubQuizService struct {
	attempt *service.Attempt
	err     error
	starts  int
}

func (s *stubQuizService) StartAttempt(context.Context, string) (*service.Attempt, error) {
	s.starts++
	return s.attempt, s.err
}

func (s *stubQuizService) Respond(*service.Attempt, int, string) error { return nil }

func (s *stubQuizService) Grade(*service.Attempt, int) (entities.GradeState, error) {
	return entities.Ungraded, nil
}

func (s *stubQuizService) Progress(*service.Attempt) entities.Tally { return entities.Tally{} }

func (s *stubQuizService) Submit(*service.Attempt) entities.Tally { return entities.Tally{} }

func newTestHandler(t *testing.T, quiz QuizService) (*Handler, *fakeBotAPI, *storage.AttemptStorage) {
	t.Helper()

	api := &fakeBotAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	bot, err := tgbotapi.NewBotAPIWithClient("test-token", srv.URL+"/bot%s/%s", srv.Client())
	if err != nil {
		t.Fatalf("NewBotAPIWithClient: %v", err)
	}

	attempts := storage.NewAttemptStorage()
	return NewHandler(bot, zap.NewNop(), quiz, attempts), api, attempts
}

func commandUpdate(chatID int64, command string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     command,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: 7, UserName: "tester"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}},
	}}
}

func TestStartCommandStartsAttempt(t *testing.T) {
	questions := []entities.QuestionRecord{
		{Question: "What is TCP?", Chapter: "1", Criterion: entities.Keywords("transport")},
		{Question: "What is UDP?", Chapter: "1", Criterion: entities.Keywords("datagram")},
	}
	attempt := &service.Attempt{
		Chapter:   "1",
		Requested: 2,
		Available: 2,
		Tracker:   service.NewSessionTracker(questions, service.NewAnswerEvaluator()),
	}
	quiz := &stubQuizService{attempt: attempt}
	h, api, attempts := newTestHandler(t, quiz)

	h.handleUpdate(context.Background(), commandUpdate(42, "/start"))

	if quiz.starts != 1 {
		t.Fatalf("StartAttempt called %d times, want 1", quiz.starts)
	}
	if got, ok := attempts.Get(42); !ok || got != attempt {
		t.Fatal("attempt not stored for the chat")
	}

	texts := api.sent()
	if len(texts) != 4 {
		t.Fatalf("sent %d messages, want welcome, header and 2 questions: %q", len(texts), texts)
	}
	if !strings.Contains(texts[3], "What is UDP?") {
		t.Fatalf("last message = %q", texts[3])
	}
	if slot, ok := attempts.SlotForMessage(42, 4); !ok || slot != 1 {
		t.Fatalf("question message not bound: slot=%d ok=%v", slot, ok)
	}
}

func TestHelpCommandDoesNotStartAttempt(t *testing.T) {
	quiz := &stubQuizService{err: service.ErrNoQuestionsAvailable}
	h, api, _ := newTestHandler(t, quiz)

	h.handleUpdate(context.Background(), commandUpdate(42, "/help"))

	if quiz.starts != 0 {
		t.Fatal("/help must not start an attempt")
	}
	if len(api.sent()) != 1 {
		t.Fatalf("sent %q, want only the welcome text", api.sent())
	}
}

func TestQuizCommandErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "no questions", err: service.ErrNoQuestionsAvailable, want: msgNoAvailableQuestions},
		{name: "corrupt bank", err: fmt.Errorf("load bank: %w", entities.ErrStorage), want: msgQuizDataUnavailable},
		{name: "invalid config", err: &entities.ValidationError{Field: "num_questions", Reason: "must be positive"}, want: msgQuizDataUnavailable},
		{name: "unexpected", err: context.DeadlineExceeded, want: msgInternalError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, api, attempts := newTestHandler(t, &stubQuizService{err: tc.err})

			h.handleUpdate(context.Background(), commandUpdate(42, "/quiz"))

			texts := api.sent()
			if len(texts) != 1 || texts[0] != md(tc.want) {
				t.Fatalf("sent %q, want %q", texts, md(tc.want))
			}
			if _, ok := attempts.Get(42); ok {
				t.Fatal("failed start must not store an attempt")
			}
		})
	}
}
