package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage marks a backing store that is unreadable or corrupt.
	// It is fatal to the current operation and never repaired automatically.
	ErrStorage = errors.New("storage error")

	// ErrConfigNotFound is returned by config stores when no quiz config is persisted.
	// Callers fall back to DefaultQuizConfig.
	ErrConfigNotFound = errors.New("quiz config not found")

	// ErrIndexOutOfRange is returned for a bank position or session slot that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ValidationError rejects a record or config before it enters the bank or the store.
type ValidationError struct {
	Row    int    // 1-based record or import row, 0 when not applicable
	Field  string // offending field, empty for whole-record problems
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Row > 0 && e.Field != "":
		return fmt.Sprintf("validation: row %d: %s: %s", e.Row, e.Field, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("validation: row %d: %s", e.Row, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
	default:
		return "validation: " + e.Reason
	}
}

// AtRow returns a copy of the error attributed to the given 1-based row.
func (e *ValidationError) AtRow(row int) *ValidationError {
	cp := *e
	cp.Row = row
	return &cp
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
