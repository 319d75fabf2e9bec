package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

// ImportSource yields records from an external tabular source.
type ImportSource interface {
	Records(ctx context.Context) ([]entities.QuestionRecord, error)
}

// FileSource reads questions from an .xlsx or .csv file with a header row.
// Recognized columns: question, chapter, explanation, keywords, must_include.
// question and one of keywords or must_include are required; terms are comma-separated.
type FileSource struct {
	Path  string
	Sheet string // xlsx sheet name, first sheet when empty
}

// Records parses the whole file. Any missing column or invalid row aborts the import.
func (f FileSource) Records(_ context.Context) ([]entities.QuestionRecord, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".xlsx", ".xlsm":
		rows, err = readSheet(f.Path, f.Sheet)
	case ".csv":
		rows, err = readCSV(f.Path)
	default:
		return nil, &entities.ValidationError{Reason: fmt.Sprintf("unsupported import file %q (want .xlsx or .csv)", f.Path)}
	}
	if err != nil {
		return nil, err
	}

	return ParseRows(rows)
}

func readSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseRows converts a header row plus data rows into validated records.
// Blank rows are skipped. Rows are numbered from 1 at the header in errors.
func ParseRows(rows [][]string) ([]entities.QuestionRecord, error) {
	if len(rows) == 0 {
		return nil, &entities.ValidationError{Reason: "import source is empty, header row required"}
	}

	cols := make(map[string]int)
	for i, name := range rows[0] {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; name != "" && !dup {
			cols[name] = i
		}
	}

	if _, ok := cols[entities.FieldQuestion]; !ok {
		return nil, &entities.ValidationError{Row: 1, Field: entities.FieldQuestion, Reason: "missing required column"}
	}
	_, hasKeywords := cols[entities.FieldKeywords]
	_, hasMustInclude := cols[entities.FieldMustInclude]
	if !hasKeywords && !hasMustInclude {
		return nil, &entities.ValidationError{Row: 1, Field: entities.FieldKeywords, Reason: "missing required column (keywords or must_include)"}
	}

	cell := func(row []string, name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return "", ok
		}
		return row[i], true
	}

	records := make([]entities.QuestionRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blankRow(row) {
			continue
		}

		question, _ := cell(row, entities.FieldQuestion)
		chapter, _ := cell(row, entities.FieldChapter)
		explanation, _ := cell(row, entities.FieldExplanation)
		raw := entities.RawRecord{Question: &question, Chapter: &chapter, Explanation: &explanation}

		keywords, _ := cell(row, entities.FieldKeywords)
		phrases, _ := cell(row, entities.FieldMustInclude)
		switch {
		case strings.TrimSpace(phrases) != "" && strings.TrimSpace(keywords) == "":
			raw.MustInclude = entities.SplitTerms(phrases)
		case strings.TrimSpace(phrases) != "":
			raw.Keywords, raw.MustInclude = entities.SplitTerms(keywords), entities.SplitTerms(phrases)
		default:
			raw.Keywords = entities.SplitTerms(keywords)
		}

		rec, err := raw.Normalize()
		if err != nil {
			var verr *entities.ValidationError
			if errors.As(err, &verr) {
				return nil, verr.AtRow(n + 2)
			}
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
