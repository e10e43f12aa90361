// Package report folds run outcomes into summary statistics and writes
// them out. Failed and skipped questions are reported distinctly from
// incorrect ones: accuracy is computed over answered questions only, so
// transient infrastructure trouble never biases it downward.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"financeqa/internal/domain"
)

// TypeStats is per-question-type accuracy.
type TypeStats struct {
	Answered int
	Correct  int
}

// Accuracy over answered questions of this type.
func (s TypeStats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Summary is the fold of a batch run.
type Summary struct {
	Total    int
	Answered int
	Correct  int
	Failed   int
	Skipped  int
	ByType   map[domain.QuestionType]TypeStats
	WithRAG  int
	WithRule int
	Elapsed  time.Duration
	Workers  int
}

// Accuracy over answered questions.
func (s Summary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Summarize folds outcomes into a Summary. Outcomes are values merged
// here at the end; no shared counters are mutated during the run.
func Summarize(outcomes []domain.RunOutcome) Summary {
	s := Summary{Total: len(outcomes), ByType: make(map[domain.QuestionType]TypeStats)}
	for _, out := range outcomes {
		switch out.Status {
		case domain.StatusFailed:
			s.Failed++
			continue
		case domain.StatusSkipped:
			s.Skipped++
			continue
		}
		s.Answered++
		stats := s.ByType[out.Type]
		stats.Answered++
		if out.Evaluation != nil && out.Evaluation.Correct {
			s.Correct++
			stats.Correct++
		}
		s.ByType[out.Type] = stats
		if out.Draft != nil {
			if out.Draft.UsedRAG {
				s.WithRAG++
			}
			if out.Draft.UsedRule != "" {
				s.WithRule++
			}
		}
	}
	return s
}

var csvHeader = []string{
	"question_id", "question_type", "status", "predicted", "expected",
	"correct", "used_rag", "used_rule", "error",
}

// WriteCSV writes one row per outcome.
func WriteCSV(w io.Writer, outcomes []domain.RunOutcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, out := range outcomes {
		predicted, correct := "", ""
		if out.Evaluation != nil {
			predicted = out.Evaluation.Predicted
			correct = strconv.FormatBool(out.Evaluation.Correct)
		}
		usedRAG, usedRule := "", ""
		if out.Draft != nil {
			usedRAG = strconv.FormatBool(out.Draft.UsedRAG)
			usedRule = out.Draft.UsedRule
		}
		row := []string{
			strconv.Itoa(out.Question.ID),
			string(out.Type),
			string(out.Status),
			predicted,
			out.Question.ExpectedAnswer,
			correct,
			usedRAG,
			usedRule,
			string(out.ErrorKind),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write renders the human-readable report.
func Write(w io.Writer, s Summary) error {
	fmt.Fprintln(w, "FINANCE QA BENCHMARK RESULTS")
	fmt.Fprintf(w, "Questions: %d (answered %d, failed %d, skipped %d)\n",
		s.Total, s.Answered, s.Failed, s.Skipped)
	fmt.Fprintf(w, "Accuracy:  %.1f%% (%d/%d answered)\n",
		s.Accuracy()*100, s.Correct, s.Answered)
	if s.Elapsed > 0 {
		fmt.Fprintf(w, "Elapsed:   %s with %d workers\n", s.Elapsed.Round(time.Second), s.Workers)
	}

	types := make([]domain.QuestionType, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		stats := s.ByType[t]
		fmt.Fprintf(w, "  %-20s %.1f%% (%d/%d)\n",
			string(t), stats.Accuracy()*100, stats.Correct, stats.Answered)
	}
	if s.Answered > 0 {
		fmt.Fprintf(w, "RAG used:  %d/%d answered\n", s.WithRAG, s.Answered)
		fmt.Fprintf(w, "Rule hits: %d/%d answered\n", s.WithRule, s.Answered)
	}
	return nil
}
