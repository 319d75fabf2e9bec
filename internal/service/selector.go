package service

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// SelectionMode decides which chapters a configured chapter admits.
type SelectionMode string

const (
	// ModeCeiling admits every chapter at or below the configured one.
	ModeCeiling SelectionMode = "ceiling"
	// ModeExact admits only the configured chapter itself.
	ModeExact SelectionMode = "exact"
)

// ParseSelectionMode parses a mode name from configuration.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch SelectionMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCeiling, "":
		return ModeCeiling, nil
	case ModeExact:
		return ModeExact, nil
	default:
		return "", fmt.Errorf("unknown selection mode %q", s)
	}
}

// SelectionPolicy configures the chapter filter.
type SelectionPolicy struct {
	Mode SelectionMode
	// IncludeUncategorized admits questions without a chapter under any chapter setting.
	// When false they are never served.
	IncludeUncategorized bool
}

// DefaultSelectionPolicy filters by ceiling and serves uncategorized questions.
func DefaultSelectionPolicy() SelectionPolicy {
	return SelectionPolicy{Mode: ModeCeiling, IncludeUncategorized: true}
}

// QuestionSelector filters the bank by chapter and samples questions from the pool.
type QuestionSelector struct {
	policy SelectionPolicy

	mu  sync.Mutex
	rng *rand.Rand
}

// SelectorOption customizes a QuestionSelector.
type SelectorOption func(*QuestionSelector)

// WithRand sets the random source, mainly for tests.
func WithRand(rng *rand.Rand) SelectorOption {
	return func(s *QuestionSelector) { s.rng = rng }
}

// NewQuestionSelector creates a new QuestionSelector.
func NewQuestionSelector(policy SelectionPolicy, opts ...SelectorOption) *QuestionSelector {
	if policy.Mode == "" {
		policy.Mode = ModeCeiling
	}
	s := &QuestionSelector{
		policy: policy,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the selector's chapter policy.
func (s *QuestionSelector) Policy() SelectionPolicy {
	return s.policy
}

// SelectWithinCeiling draws min(requested, available) distinct questions uniformly at random
// from the chapter pool and reports the pool size. An empty chapter means no ceiling.
// Under-supply is not an error: fewer questions are returned.
func (s *QuestionSelector) SelectWithinCeiling(
	bank []entities.QuestionRecord,
	chapter string,
	requested int,
) ([]entities.QuestionRecord, int) {
	pool := s.pool(bank, chapter)
	available := len(pool)

	n := min(requested, available)
	if n <= 0 {
		return []entities.QuestionRecord{}, available
	}

	s.mu.Lock()
	picks := s.rng.Perm(available)[:n]
	s.mu.Unlock()

	selected := make([]entities.QuestionRecord, 0, n)
	for _, ix := range picks {
		selected = append(selected, pool[ix].Clone())
	}
	return selected, available
}

// Available returns the size of the chapter pool without sampling.
func (s *QuestionSelector) Available(bank []entities.QuestionRecord, chapter string) int {
	return len(s.pool(bank, chapter))
}

// Eligible reports whether a single record passes the chapter filter.
func (s *QuestionSelector) Eligible(record entities.QuestionRecord, chapter string) bool {
	return s.newFilter(chapter)(record)
}

func (s *QuestionSelector) pool(bank []entities.QuestionRecord, chapter string) []entities.QuestionRecord {
	keep := s.newFilter(chapter)

	out := make([]entities.QuestionRecord, 0, len(bank))
	for _, rec := range bank {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// newFilter builds the chapter predicate once per selection.
func (s *QuestionSelector) newFilter(chapter string) func(entities.QuestionRecord) bool {
	chapter = strings.TrimSpace(chapter)
	ceiling := entities.ParseChapterKey(chapter)

	return func(rec entities.QuestionRecord) bool {
		if rec.Chapter == "" {
			return s.policy.IncludeUncategorized
		}
		if chapter == "" {
			return true
		}
		if s.policy.Mode == ModeExact {
			return rec.Chapter == chapter
		}
		return entities.ParseChapterKey(rec.Chapter).Compare(ceiling) <= 0
	}
}
