package report

import (
	"encoding/csv"
	"strings"
	"testing"

	"financeqa/internal/domain"
)

func outcome(id int, t domain.QuestionType, status domain.RunStatus, correct, usedRAG bool, rule string) domain.RunOutcome {
	out := domain.RunOutcome{
		Question: domain.Question{ID: id, ExpectedAnswer: "42"},
		Type:     t,
		Status:   status,
	}
	if status == domain.StatusOK {
		out.Draft = &domain.AnswerDraft{FinalAnswer: "42", UsedRAG: usedRAG, UsedRule: rule}
		out.Evaluation = &domain.EvaluationResult{QuestionID: id, Correct: correct, Predicted: "42"}
	}
	return out
}

func sample() []domain.RunOutcome {
	return []domain.RunOutcome{
		outcome(0, domain.Conceptual, domain.StatusOK, true, true, ""),
		outcome(1, domain.BasicTactical, domain.StatusOK, true, false, ""),
		outcome(2, domain.BasicTactical, domain.StatusOK, false, false, "working-cash"),
		outcome(3, domain.AssumptionTactical, domain.StatusOK, true, true, "accounts-payable-days"),
		outcome(4, domain.AssumptionTactical, domain.StatusFailed, false, false, ""),
		outcome(5, domain.Conceptual, domain.StatusSkipped, false, false, ""),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample())

	if s.Total != 6 {
		t.Fatalf("Total = %d", s.Total)
	}
	if s.Answered != 4 {
		t.Fatalf("Answered = %d; failed and skipped must not count", s.Answered)
	}
	if s.Correct != 3 {
		t.Fatalf("Correct = %d", s.Correct)
	}
	if s.Failed != 1 || s.Skipped != 1 {
		t.Fatalf("Failed = %d, Skipped = %d", s.Failed, s.Skipped)
	}
	if got := s.Accuracy(); got != 0.75 {
		t.Fatalf("Accuracy = %v; accuracy is over answered questions only", got)
	}
	if s.WithRAG != 2 || s.WithRule != 2 {
		t.Fatalf("WithRAG = %d, WithRule = %d", s.WithRAG, s.WithRule)
	}

	bt := s.ByType[domain.BasicTactical]
	if bt.Answered != 2 || bt.Correct != 1 {
		t.Fatalf("basic_tactical stats = %+v", bt)
	}
	if got := bt.Accuracy(); got != 0.5 {
		t.Fatalf("basic_tactical accuracy = %v", got)
	}
	if s.ByType[domain.Conceptual].Answered != 1 {
		t.Fatalf("skipped outcome leaked into type stats: %+v", s.ByType[domain.Conceptual])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Accuracy() != 0 {
		t.Fatalf("empty fold = %+v", s)
	}
}

func TestWriteCSV(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, sample()); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(strings.NewReader(b.String())).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 7 {
		t.Fatalf("got %d rows, want header plus one per outcome", len(records))
	}
	if records[0][0] != "question_id" || records[0][8] != "error" {
		t.Fatalf("header = %v", records[0])
	}
	// Row for the rule-assisted incorrect answer.
	row := records[3]
	if row[2] != string(domain.StatusOK) || row[5] != "false" || row[7] != "working-cash" {
		t.Fatalf("row = %v", row)
	}
	// Failed rows carry no prediction.
	if records[5][3] != "" || records[5][5] != "" {
		t.Fatalf("failed row = %v", records[5])
	}
}

func TestWriteReport(t *testing.T) {
	var b strings.Builder
	if err := Write(&b, Summarize(sample())); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"answered 4, failed 1, skipped 1",
		"75.0% (3/4 answered)",
		"basic_tactical",
		"RAG used:  2/4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
