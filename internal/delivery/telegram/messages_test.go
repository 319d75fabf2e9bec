package telegram

import (
	"strings"
	"testing"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/service"
)

func TestBuildProgressBar(t *testing.T) {
	tests := []struct {
		current, total int
		want           string
	}{
		{current: 0, total: 4, want: "[░░░░]"},
		{current: 2, total: 4, want: "[██░░]"},
		{current: 4, total: 4, want: "[████]"},
		{current: 1, total: 0, want: "[░░░░]"},
	}
	for _, tc := range tests {
		if got := buildProgressBar(tc.current, tc.total, 4); got != tc.want {
			t.Fatalf("buildProgressBar(%d, %d) = %q, want %q", tc.current, tc.total, got, tc.want)
		}
	}
}

func TestFormatAnswerFeedback(t *testing.T) {
	if got := formatAnswerFeedback(true, "ignored"); strings.Contains(got, "ignored") {
		t.Fatalf("correct feedback must not show the explanation: %q", got)
	}
	got := formatAnswerFeedback(false, "LRU evicts the least recently used entry.")
	if !strings.Contains(got, `least recently used entry\.`) {
		t.Fatalf("explanation missing or unescaped: %q", got)
	}
}

func TestFormatProgress(t *testing.T) {
	if got := formatProgress(entities.Tally{}, 5); !strings.Contains(got, "0 of 5") {
		t.Fatalf("empty progress = %q", got)
	}
	got := formatProgress(entities.Tally{Graded: 3, Correct: 2}, 5)
	if !strings.Contains(got, `2/3 correct \(66\.7%\)`) {
		t.Fatalf("progress = %q", got)
	}
}

func TestFormatQuizResult(t *testing.T) {
	questions := []entities.QuestionRecord{
		{Question: "What is TCP?", Criterion: entities.Keywords("transport")},
		{Question: "What is UDP?", Criterion: entities.Keywords("datagram")},
	}
	tracker := service.NewSessionTracker(questions, service.NewAnswerEvaluator())
	_ = tracker.RecordResponse(0, "a transport protocol")
	attempt := &service.Attempt{Tracker: tracker, Requested: 2, Available: 2}

	got := formatQuizResult(attempt, tracker.GradeAll())

	if !strings.Contains(got, `1/2 \(50\.0%\)`) {
		t.Fatalf("result line missing: %q", got)
	}
	if !strings.Contains(got, `✅ 1\. What is TCP?`) || !strings.Contains(got, `❌ 2\. What is UDP?`) {
		t.Fatalf("per-question marks missing: %q", got)
	}
}

func TestBuildQuizStartMessageShortfall(t *testing.T) {
	tracker := service.NewSessionTracker([]entities.QuestionRecord{{Question: "q", Criterion: entities.Keywords("a")}}, service.NewAnswerEvaluator())
	attempt := &service.Attempt{Chapter: "2.1", Requested: 3, Available: 1, Tracker: tracker}

	got := buildQuizStartMessage(attempt)
	if !strings.Contains(got, `chapters up to 2\.1`) {
		t.Fatalf("chapter missing: %q", got)
	}
	if !strings.Contains(got, "2 fewer than planned") {
		t.Fatalf("shortfall missing: %q", got)
	}
}

func TestBuildQuizStartMessageExactMode(t *testing.T) {
	tracker := service.NewSessionTracker([]entities.QuestionRecord{{Question: "q", Criterion: entities.Keywords("a")}}, service.NewAnswerEvaluator())
	attempt := &service.Attempt{Chapter: "2.1", Mode: service.ModeExact, Requested: 1, Available: 1, Tracker: tracker}

	got := buildQuizStartMessage(attempt)
	if !strings.Contains(got, `from chapter 2\.1\.`) {
		t.Fatalf("exact chapter missing: %q", got)
	}
	if strings.Contains(got, "up to") {
		t.Fatalf("exact mode must not mention a ceiling: %q", got)
	}
}
