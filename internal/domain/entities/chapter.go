package entities

import (
	"math"
	"sort"
	"strconv"
)

// ChapterKey is the ordered integer tuple behind a chapter label such as "10.1.7".
// The empty key sorts before every other key.
type ChapterKey []int

// ParseChapterKey extracts every maximal run of decimal digits from label, in order.
// Anything that is not a digit acts as a separator, so malformed labels never fail.
func ParseChapterKey(label string) ChapterKey {
	key := ChapterKey{}
	start := -1

	for i := 0; i <= len(label); i++ {
		isDigit := i < len(label) && label[i] >= '0' && label[i] <= '9'
		if isDigit {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			key = append(key, parseDigitRun(label[start:i]))
			start = -1
		}
	}

	return key
}

// parseDigitRun converts a run of digits, saturating runs that overflow int.
func parseDigitRun(run string) int {
	n, err := strconv.Atoi(run)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// Compare returns -1, 0 or 1. Keys are compared element by element and a key
// that is a prefix of a longer one sorts first.
func (k ChapterKey) Compare(other ChapterKey) int {
	for i := 0; i < len(k) && i < len(other); i++ {
		switch {
		case k[i] < other[i]:
			return -1
		case k[i] > other[i]:
			return 1
		}
	}

	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	default:
		return 0
	}
}

// CompareChapters compares two chapter labels hierarchically.
func CompareChapters(a, b string) int {
	return ParseChapterKey(a).Compare(ParseChapterKey(b))
}

// SortByChapter orders items by the chapter label chapterOf returns,
// keeping the original order within a chapter.
func SortByChapter[T any](items []T, chapterOf func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return CompareChapters(chapterOf(items[i]), chapterOf(items[j])) < 0
	})
}
