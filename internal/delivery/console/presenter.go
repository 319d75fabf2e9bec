package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// ErrInputClosed is returned when the input ends in the middle of an attempt.
var ErrInputClosed = errors.New("input closed")

// Presenter runs a quiz attempt on a line-oriented terminal.
type Presenter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPresenter creates a Presenter reading answers from in and writing prompts to out.
func NewPresenter(in io.Reader, out io.Writer) *Presenter {
	return &Presenter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// RenderQuestion prints the question and reads one answer line.
// An empty line keeps the current response.
func (p *Presenter) RenderQuestion(_ context.Context, index int, record entities.QuestionRecord, current string) (string, error) {
	header := fmt.Sprintf("Question %d", index+1)
	if record.Chapter != "" {
		header += " (chapter " + record.Chapter + ")"
	}
	p.printf("\n%s: %s\n", header, record.Question)
	if current != "" {
		p.printf("Current answer: %s\n", current)
	}

	line, err := p.readLine("> ")
	if err != nil {
		return current, err
	}
	if strings.TrimSpace(line) == "" {
		return current, nil
	}
	return line, nil
}

// RenderConfirmAction asks whether to grade the answer now. The default is yes.
func (p *Presenter) RenderConfirmAction(_ context.Context, _ int) (bool, error) {
	line, err := p.readLine("Confirm? [Y/n] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// RenderGrade prints the grade and, for a wrong answer, the explanation.
func (p *Presenter) RenderGrade(_ context.Context, _ int, record entities.QuestionRecord, state entities.GradeState) error {
	if state == entities.Correct {
		p.printf("Correct.\n")
		return nil
	}
	p.printf("Incorrect.\n")
	if record.Explanation != "" {
		p.printf("Explanation: %s\n", record.Explanation)
	}
	return nil
}

// AskName reads the test-taker's name.
func (p *Presenter) AskName() (string, error) {
	line, err := p.readLine("Your name: ")
	return strings.TrimSpace(line), err
}

// RenderResult prints a tally as "correct / total" with the percentage.
func (p *Presenter) RenderResult(title string, t entities.Tally) {
	pct, ok := t.Percent()
	if !ok {
		p.printf("%s: nothing graded yet\n", title)
		return
	}
	p.printf("%s: %d / %d correct (%.1f%%)\n", title, t.Correct, t.Graded, pct)
}

func (p *Presenter) readLine(prompt string) (string, error) {
	p.printf("%s", prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return p.in.Text(), nil
}

func (p *Presenter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}
