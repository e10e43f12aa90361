package dataset

import (
	"strings"
	"testing"

	"financeqa/internal/domain"
)

const sampleCSV = `question,answer,context,type
"What is WACC?","weighted average cost of capital","","conceptual"
"What is the gross margin?","40%","Revenue $1,000, COGS $600.","basic_tactical"
"Estimate working cash.","$20M","Revenue was $1,000M.",""
"Odd label survives.","n/a","","numeric"
`

func TestRead(t *testing.T) {
	qs, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 4 {
		t.Fatalf("got %d questions, want 4", len(qs))
	}
	for i, q := range qs {
		if q.ID != i {
			t.Fatalf("question %d has ID %d", i, q.ID)
		}
	}
	if qs[0].DeclaredType != domain.Conceptual {
		t.Fatalf("declared type = %q", qs[0].DeclaredType)
	}
	if qs[1].Context != "Revenue $1,000, COGS $600." || qs[1].DeclaredType != domain.BasicTactical {
		t.Fatalf("row 1 = %+v", qs[1])
	}
	if qs[2].DeclaredType != "" {
		t.Fatalf("empty label should stay empty, got %q", qs[2].DeclaredType)
	}
	if qs[3].DeclaredType != "" {
		t.Fatalf("unknown label should stay empty, got %q", qs[3].DeclaredType)
	}
}

func TestReadAlternateHeaders(t *testing.T) {
	data := "Question,Expected_Answer,Question_Type\nq1,a1,ASSUMPTION_TACTICAL\n"
	qs, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].Text != "q1" || qs[0].ExpectedAnswer != "a1" {
		t.Fatalf("qs = %+v", qs)
	}
	if qs[0].DeclaredType != domain.AssumptionTactical {
		t.Fatalf("declared type = %q", qs[0].DeclaredType)
	}
}

func TestReadMissingColumns(t *testing.T) {
	if _, err := Read(strings.NewReader("answer\nx\n")); err == nil {
		t.Fatal("expected error for missing question column")
	}
	if _, err := Read(strings.NewReader("question\nx\n")); err == nil {
		t.Fatal("expected error for missing answer column")
	}
}

func TestSubset(t *testing.T) {
	qs := make([]domain.Question, 10)
	for i := range qs {
		qs[i] = domain.Question{ID: i}
	}

	head := Subset(qs, 3, false, 0)
	if len(head) != 3 || head[0].ID != 0 || head[2].ID != 2 {
		t.Fatalf("head subset = %+v", head)
	}

	a := Subset(qs, 4, true, 99)
	b := Subset(qs, 4, true, 99)
	if len(a) != 4 {
		t.Fatalf("got %d, want 4", len(a))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatal("same seed must yield the same subset")
		}
	}
	seen := make(map[int]bool)
	for _, q := range a {
		if seen[q.ID] {
			t.Fatalf("duplicate question %d in sample", q.ID)
		}
		seen[q.ID] = true
	}

	if got := Subset(qs, 0, false, 0); len(got) != len(qs) {
		t.Fatalf("n=0 must return everything, got %d", len(got))
	}
	if got := Subset(qs, 50, true, 1); len(got) != len(qs) {
		t.Fatalf("oversized n must return everything, got %d", len(got))
	}
}
