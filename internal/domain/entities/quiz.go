package entities

// GradeState is the grading state of one session slot.
type GradeState int

const (
	Ungraded GradeState = iota
	Correct
	Incorrect
)

func (s GradeState) String() string {
	switch s {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "ungraded"
	}
}

// GradeFor maps an evaluation result to a grade state.
func GradeFor(correct bool) GradeState {
	if correct {
		return Correct
	}
	return Incorrect
}

// Tally counts graded and correct answers of a quiz attempt.
type Tally struct {
	Graded  int // denominator: graded slots, or every slot after a full submit
	Correct int
}

// Accuracy returns Correct/Graded. The second value is false while nothing is graded.
func (t Tally) Accuracy() (float64, bool) {
	if t.Graded == 0 {
		return 0, false
	}
	return float64(t.Correct) / float64(t.Graded), true
}

// Percent returns the accuracy as a percentage rounded to one decimal.
func (t Tally) Percent() (float64, bool) {
	acc, ok := t.Accuracy()
	if !ok {
		return 0, false
	}
	return float64(int(acc*1000+0.5)) / 10, true
}
