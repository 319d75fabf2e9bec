package entities

import (
	"math"
	"testing"
)

func TestParseChapterKey(t *testing.T) {
	tests := []struct {
		label string
		want  ChapterKey
	}{
		{label: "", want: ChapterKey{}},
		{label: "6.6", want: ChapterKey{6, 6}},
		{label: "10.1.7", want: ChapterKey{10, 1, 7}},
		{label: "ch 3 / sec 04", want: ChapterKey{3, 4}},
		{label: "intro", want: ChapterKey{}},
		{label: "99999999999999999999999", want: ChapterKey{math.MaxInt}},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			got := ParseChapterKey(tc.label)
			if got.Compare(tc.want) != 0 || len(got) != len(tc.want) {
				t.Fatalf("ParseChapterKey(%q) = %v, want %v", tc.label, got, tc.want)
			}
		})
	}
}

func TestChapterKeyCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "10.1.7", b: "6.6", want: 1},
		{a: "10.1", b: "6.6", want: 1},
		{a: "6", b: "6.1", want: -1},
		{a: "6.1", b: "6.1", want: 0},
		{a: "", b: "0", want: -1},
		{a: "", b: "", want: 0},
		{a: "2.3", b: "2", want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.a+"_vs_"+tc.b, func(t *testing.T) {
			if got := CompareChapters(tc.a, tc.b); got != tc.want {
				t.Fatalf("CompareChapters(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestEmptyChapterIsMinimum(t *testing.T) {
	empty := ParseChapterKey("")
	for _, label := range []string{"0", "1", "1.1", "6.6", "10.1.7"} {
		if empty.Compare(ParseChapterKey(label)) > 0 {
			t.Fatalf("empty key sorts after %q", label)
		}
	}
	if len(empty) != 0 {
		t.Fatalf("empty label parsed to %v", empty)
	}
}

func TestSortByChapter(t *testing.T) {
	records := []QuestionRecord{
		{Question: "a", Chapter: "10.1"},
		{Question: "b", Chapter: "6.6"},
		{Question: "c", Chapter: ""},
		{Question: "d", Chapter: "6.6"},
		{Question: "e", Chapter: "6"},
	}

	SortByChapter(records, func(r QuestionRecord) string { return r.Chapter })

	want := []string{"c", "e", "b", "d", "a"}
	for i, q := range want {
		if records[i].Question != q {
			t.Fatalf("position %d: got %q, want %q", i, records[i].Question, q)
		}
	}
}
