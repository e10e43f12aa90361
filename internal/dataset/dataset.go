// Package dataset loads benchmark questions from CSV input.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"financeqa/internal/domain"
)

// Load reads questions from a CSV file. The header must name at least
// "question" and "answer"; "context" and "type" are optional.
func Load(path string) ([]domain.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses questions from CSV data. Question IDs are assigned from
// row order.
func Read(r io.Reader) ([]domain.Question, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	qCol, ok := cols["question"]
	if !ok {
		return nil, fmt.Errorf("dataset: missing question column")
	}
	aCol, ok := cols["answer"]
	if !ok {
		aCol, ok = cols["expected_answer"]
	}
	if !ok {
		return nil, fmt.Errorf("dataset: missing answer column")
	}
	ctxCol, hasCtx := cols["context"]
	typeCol, hasType := cols["type"]
	if !hasType {
		typeCol, hasType = cols["question_type"]
	}

	var questions []domain.Question
	for id := 0; ; id++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d: %w", id, err)
		}
		q := domain.Question{ID: id, Text: field(row, qCol), ExpectedAnswer: field(row, aCol)}
		if hasCtx {
			q.Context = field(row, ctxCol)
		}
		if hasType {
			if t, ok := domain.ParseQuestionType(strings.ToLower(field(row, typeCol))); ok {
				q.DeclaredType = t
			}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Subset selects n questions: the first n, or a seeded random sample
// when random is true. The same seed always yields the same subset.
func Subset(questions []domain.Question, n int, random bool, seed int64) []domain.Question {
	if n <= 0 || n >= len(questions) {
		return questions
	}
	if !random {
		return questions[:n]
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(questions))
	out := make([]domain.Question, n)
	for i := 0; i < n; i++ {
		out[i] = questions[perm[i]]
	}
	return out
}
