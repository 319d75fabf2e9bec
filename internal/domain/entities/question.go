package entities

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Record field names as they appear in the persisted bank and in edit commands.
const (
	FieldQuestion    = "question"
	FieldChapter     = "chapter"
	FieldExplanation = "explanation"
	FieldKeywords    = "keywords"
	FieldMustInclude = "must_include"
)

// CriterionKind selects how an answer is graded.
type CriterionKind int

const (
	// CriterionKeywords requires every term as a case-insensitive substring.
	CriterionKeywords CriterionKind = iota
	// CriterionMustInclude requires every term as an exact-case substring.
	CriterionMustInclude
)

// Field returns the persisted field name of the criterion kind.
func (k CriterionKind) Field() string {
	if k == CriterionMustInclude {
		return FieldMustInclude
	}
	return FieldKeywords
}

func (k CriterionKind) String() string {
	return k.Field()
}

// Criterion is the grading criterion of a question: one kind, ordered terms.
type Criterion struct {
	Kind  CriterionKind
	Terms []string
}

// Keywords builds a case-insensitive keyword criterion.
func Keywords(terms ...string) Criterion {
	return Criterion{Kind: CriterionKeywords, Terms: terms}
}

// MustInclude builds an exact-case phrase criterion.
func MustInclude(terms ...string) Criterion {
	return Criterion{Kind: CriterionMustInclude, Terms: terms}
}

// QuestionRecord is one normalized question of the bank.
type QuestionRecord struct {
	Question    string
	Chapter     string
	Explanation string
	Criterion   Criterion
}

// Equal reports whether two records carry the same content.
func (r QuestionRecord) Equal(other QuestionRecord) bool {
	if r.Question != other.Question ||
		r.Chapter != other.Chapter ||
		r.Explanation != other.Explanation ||
		r.Criterion.Kind != other.Criterion.Kind ||
		len(r.Criterion.Terms) != len(other.Criterion.Terms) {
		return false
	}
	for i := range r.Criterion.Terms {
		if r.Criterion.Terms[i] != other.Criterion.Terms[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the record.
func (r QuestionRecord) Clone() QuestionRecord {
	r.Criterion.Terms = append([]string(nil), r.Criterion.Terms...)
	return r
}

// RecordsEqual compares two record sequences position by position.
func RecordsEqual(a, b []QuestionRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// CloneRecords deep-copies a record sequence.
func CloneRecords(records []QuestionRecord) []QuestionRecord {
	out := make([]QuestionRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// WithField returns a copy of the record with one field replaced and validated.
// Term fields take comma-separated text; setting one switches the criterion kind.
func (r QuestionRecord) WithField(field, value string) (QuestionRecord, error) {
	raw := r.Raw()

	switch field {
	case FieldQuestion:
		raw.Question = &value
	case FieldChapter:
		raw.Chapter = &value
	case FieldExplanation:
		raw.Explanation = &value
	case FieldKeywords:
		raw.Keywords, raw.MustInclude = SplitTerms(value), nil
	case FieldMustInclude:
		raw.Keywords, raw.MustInclude = nil, SplitTerms(value)
	default:
		return QuestionRecord{}, &ValidationError{Field: field, Reason: "unknown field"}
	}

	return raw.Normalize()
}

// SplitTerms splits comma-separated terms, dropping blanks.
func SplitTerms(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RawRecord is the persisted form of a question. Absent fields stay nil.
type RawRecord struct {
	Question    *string  `json:"question"`
	Chapter     *string  `json:"chapter,omitempty"`
	Explanation *string  `json:"explanation,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	MustInclude []string `json:"must_include,omitempty"`
}

// Raw converts the record back to its persisted form.
func (r QuestionRecord) Raw() RawRecord {
	q, ch, ex := r.Question, r.Chapter, r.Explanation
	raw := RawRecord{Question: &q, Chapter: &ch, Explanation: &ex}

	terms := make([]string, len(r.Criterion.Terms))
	copy(terms, r.Criterion.Terms)
	if r.Criterion.Kind == CriterionMustInclude {
		raw.MustInclude = terms
	} else {
		raw.Keywords = terms
	}
	return raw
}

// Normalize materializes defaults for absent fields, trims text and validates.
func (raw RawRecord) Normalize() (QuestionRecord, error) {
	hasKeywords := raw.Keywords != nil
	hasMustInclude := raw.MustInclude != nil

	switch {
	case hasKeywords && hasMustInclude:
		return QuestionRecord{}, &ValidationError{
			Field:  FieldKeywords,
			Reason: "keywords and must_include are mutually exclusive",
		}
	case !hasKeywords && !hasMustInclude:
		return QuestionRecord{}, &ValidationError{
			Field:  FieldKeywords,
			Reason: "grading criterion required (keywords or must_include)",
		}
	}

	rec := QuestionRecord{
		Question:    strings.TrimSpace(deref(raw.Question)),
		Chapter:     strings.TrimSpace(deref(raw.Chapter)),
		Explanation: strings.TrimSpace(deref(raw.Explanation)),
		Criterion:   Keywords(trimTerms(raw.Keywords)...),
	}
	if hasMustInclude {
		rec.Criterion = MustInclude(trimTerms(raw.MustInclude)...)
	}

	if err := ValidateRecord(rec); err != nil {
		return QuestionRecord{}, err
	}
	return rec, nil
}

// MarshalJSON writes the record in its persisted form.
func (r QuestionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Raw())
}

// UnmarshalJSON reads and normalizes a persisted record.
func (r *QuestionRecord) UnmarshalJSON(data []byte) error {
	var raw RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rec, err := raw.Normalize()
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var chapterPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

// recordRules mirrors QuestionRecord for struct-tag validation.
type recordRules struct {
	Question string   `validate:"required"`
	Chapter  string   `validate:"omitempty,chapter"`
	Terms    []string `validate:"required,min=1,dive,required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("chapter", func(fl validator.FieldLevel) bool {
		return IsChapterLabel(fl.Field().String())
	})
	return v
}

// IsChapterLabel reports whether s is dot-separated decimal integers.
func IsChapterLabel(s string) bool {
	return chapterPattern.MatchString(s)
}

// ValidateRecord checks the record invariants.
func ValidateRecord(r QuestionRecord) error {
	err := validate.Struct(recordRules{
		Question: r.Question,
		Chapter:  r.Chapter,
		Terms:    r.Criterion.Terms,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}

	fe := fieldErrs[0]
	switch {
	case fe.StructField() == "Question":
		return &ValidationError{Field: FieldQuestion, Reason: "must not be empty"}
	case fe.StructField() == "Chapter":
		return &ValidationError{Field: FieldChapter, Reason: "must be dot-separated numbers, e.g. 6.6"}
	default:
		return &ValidationError{Field: r.Criterion.Kind.Field(), Reason: "at least one non-empty term required"}
	}
}
