package entities

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestQuestionRecordUnmarshalNormalizes(t *testing.T) {
	var rec QuestionRecord
	data := `{"question": "  What evicts entries? ", "keywords": [" cache ", "", "lru"]}`
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if rec.Question != "What evicts entries?" {
		t.Fatalf("question not trimmed: %q", rec.Question)
	}
	if rec.Chapter != "" || rec.Explanation != "" {
		t.Fatalf("absent fields must default to empty, got %+v", rec)
	}
	if rec.Criterion.Kind != CriterionKeywords {
		t.Fatalf("kind = %v, want keywords", rec.Criterion.Kind)
	}
	if strings.Join(rec.Criterion.Terms, "|") != "cache|lru" {
		t.Fatalf("terms = %v", rec.Criterion.Terms)
	}
}

func TestQuestionRecordMustInclude(t *testing.T) {
	var rec QuestionRecord
	data := `{"question": "q", "must_include": ["exact Phrase Here"], "explanation": "e"}`
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Criterion.Kind != CriterionMustInclude {
		t.Fatalf("kind = %v, want must_include", rec.Criterion.Kind)
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"must_include":["exact Phrase Here"]`) {
		t.Fatalf("unexpected json: %s", out)
	}
	if strings.Contains(string(out), `"keywords"`) {
		t.Fatalf("keywords must be omitted: %s", out)
	}
}

func TestQuestionRecordRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{name: "missing question", data: `{"keywords": ["a"]}`, field: FieldQuestion},
		{name: "blank question", data: `{"question": "  ", "keywords": ["a"]}`, field: FieldQuestion},
		{name: "no criterion", data: `{"question": "q"}`, field: FieldKeywords},
		{name: "both criteria", data: `{"question": "q", "keywords": ["a"], "must_include": ["b"]}`, field: FieldKeywords},
		{name: "empty keywords", data: `{"question": "q", "keywords": []}`, field: FieldKeywords},
		{name: "blank phrases", data: `{"question": "q", "must_include": [" ", ""]}`, field: FieldMustInclude},
		{name: "bad chapter", data: `{"question": "q", "chapter": "6-6", "keywords": ["a"]}`, field: FieldChapter},
		{name: "trailing dot", data: `{"question": "q", "chapter": "6.", "keywords": ["a"]}`, field: FieldChapter},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rec QuestionRecord
			err := json.Unmarshal([]byte(tc.data), &rec)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestWithField(t *testing.T) {
	rec := QuestionRecord{Question: "q", Chapter: "1", Criterion: Keywords("a")}

	updated, err := rec.WithField(FieldMustInclude, "Exact One, Exact Two")
	if err != nil {
		t.Fatalf("WithField: %v", err)
	}
	if updated.Criterion.Kind != CriterionMustInclude || len(updated.Criterion.Terms) != 2 {
		t.Fatalf("criterion not switched: %+v", updated.Criterion)
	}
	if rec.Criterion.Kind != CriterionKeywords {
		t.Fatal("original record must stay untouched")
	}

	if _, err := rec.WithField(FieldChapter, "six"); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := rec.WithField("difficulty", "hard"); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestRecordsEqual(t *testing.T) {
	a := []QuestionRecord{{Question: "q", Criterion: Keywords("x", "y")}}
	b := CloneRecords(a)
	if !RecordsEqual(a, b) {
		t.Fatal("clone must be equal")
	}

	b[0].Criterion.Terms[1] = "z"
	if RecordsEqual(a, b) {
		t.Fatal("changed terms must not be equal")
	}
	if a[0].Criterion.Terms[1] != "y" {
		t.Fatal("clone shares terms with the original")
	}
}

func TestQuizConfigValidate(t *testing.T) {
	if err := DefaultQuizConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if err := (QuizConfig{Chapter: "2", NumQuestions: 0}).Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := (QuizConfig{Chapter: "two", NumQuestions: 3}).Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTallyAccuracy(t *testing.T) {
	if _, ok := (Tally{}).Accuracy(); ok {
		t.Fatal("empty tally must report no accuracy")
	}
	pct, ok := Tally{Graded: 3, Correct: 2}.Percent()
	if !ok || pct != 66.7 {
		t.Fatalf("Percent() = %v, %v; want 66.7, true", pct, ok)
	}
}
