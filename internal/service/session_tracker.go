package service

import (
	"fmt"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// Evaluator grades one answer against one question.
type Evaluator interface {
	Evaluate(answer string, record entities.QuestionRecord) bool
}

// Slot is one selected question of an attempt with the latest response and its grade.
type Slot struct {
	Question entities.QuestionRecord
	Response string
	State    entities.GradeState
}

// SessionTracker holds per-question responses and grades across repeated confirmations.
// A graded slot never returns to Ungraded.
type SessionTracker struct {
	slots     []Slot
	evaluator Evaluator
}

// NewSessionTracker seeds one ungraded slot per question.
func NewSessionTracker(questions []entities.QuestionRecord, evaluator Evaluator) *SessionTracker {
	t := &SessionTracker{evaluator: evaluator}
	t.reset(questions)
	return t
}

// Len returns the number of slots.
func (t *SessionTracker) Len() int {
	return len(t.slots)
}

// Slot returns a copy of slot i.
func (t *SessionTracker) Slot(i int) (Slot, error) {
	if err := t.check(i); err != nil {
		return Slot{}, err
	}
	return t.slots[i], nil
}

// Slots returns a copy of all slots.
func (t *SessionTracker) Slots() []Slot {
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

// RecordResponse stores the latest response text of slot i. The grade is left as is.
func (t *SessionTracker) RecordResponse(i int, text string) error {
	if err := t.check(i); err != nil {
		return err
	}
	t.slots[i].Response = text
	return nil
}

// Confirm grades the current response of slot i. Repeating it with unchanged text
// yields the same state; an edited response may flip Correct and Incorrect.
func (t *SessionTracker) Confirm(i int) (entities.GradeState, error) {
	if err := t.check(i); err != nil {
		return entities.Ungraded, err
	}
	t.grade(i)
	return t.slots[i].State, nil
}

// Aggregate counts graded slots and correct slots.
func (t *SessionTracker) Aggregate() entities.Tally {
	var tally entities.Tally
	for _, s := range t.slots {
		if s.State == entities.Ungraded {
			continue
		}
		tally.Graded++
		if s.State == entities.Correct {
			tally.Correct++
		}
	}
	return tally
}

// GradeAll grades every slot regardless of earlier confirmations.
// The returned denominator is the total number of slots.
func (t *SessionTracker) GradeAll() entities.Tally {
	tally := entities.Tally{Graded: len(t.slots)}
	for i := range t.slots {
		t.grade(i)
		if t.slots[i].State == entities.Correct {
			tally.Correct++
		}
	}
	return tally
}

func (t *SessionTracker) grade(i int) {
	ok := t.evaluator.Evaluate(t.slots[i].Response, t.slots[i].Question)
	t.slots[i].State = entities.GradeFor(ok)
}

func (t *SessionTracker) reset(questions []entities.QuestionRecord) {
	t.slots = make([]Slot, len(questions))
	for i, q := range questions {
		t.slots[i] = Slot{Question: q.Clone(), State: entities.Ungraded}
	}
}

func (t *SessionTracker) check(i int) error {
	if i < 0 || i >= len(t.slots) {
		return fmt.Errorf("slot %d of %d: %w", i+1, len(t.slots), entities.ErrIndexOutOfRange)
	}
	return nil
}
