package classify

import (
	"context"
	"errors"
	"testing"

	"financeqa/internal/domain"
)

type completerFunc func(ctx context.Context, req domain.CompletionRequest) (string, error)

func (f completerFunc) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	return f(ctx, req)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		q    domain.Question
		want domain.QuestionType
	}{
		{
			name: "declared_label_wins",
			q: domain.Question{
				Text:         "What is the company's gross margin?",
				Context:      "Revenue was $1,000 and COGS was $600.",
				DeclaredType: domain.Conceptual,
			},
			want: domain.Conceptual,
		},
		{
			name: "explain_no_context",
			q:    domain.Question{Text: "Explain the concept of WACC."},
			want: domain.Conceptual,
		},
		{
			name: "why_no_context",
			q:    domain.Question{Text: "Why does terminal value dominate a DCF?"},
			want: domain.Conceptual,
		},
		{
			name: "difference_between",
			q:    domain.Question{Text: "What is the difference between FIFO and LIFO?"},
			want: domain.Conceptual,
		},
		{
			name: "conceptual_phrasing_with_context_not_conceptual",
			q: domain.Question{
				Text:    "Explain the gross margin here.",
				Context: "Revenue was $1,000 and COGS was $600.",
			},
			want: domain.BasicTactical,
		},
		{
			name: "metric_with_covering_context",
			q: domain.Question{
				Text:    "What is the gross margin?",
				Context: "Revenue was $1.0B and COGS was $600M this year.",
			},
			want: domain.BasicTactical,
		},
		{
			name: "metric_missing_input",
			q: domain.Question{
				Text:    "What is the gross margin?",
				Context: "Revenue was $1.0B this year.",
			},
			want: domain.AssumptionTactical,
		},
		{
			name: "context_terms_without_numbers",
			q: domain.Question{
				Text:    "What is the current ratio?",
				Context: "The balance sheet lists current assets and current liabilities.",
			},
			want: domain.AssumptionTactical,
		},
		{
			name: "default_assumption",
			q:    domain.Question{Text: "Estimate next year's working cash need."},
			want: domain.AssumptionTactical,
		},
	}
	c := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(context.Background(), tt.q); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyModelFallback(t *testing.T) {
	q := domain.Question{Text: "Walk me through the adjustment."}

	c := New(completerFunc(func(ctx context.Context, req domain.CompletionRequest) (string, error) {
		return " Basic_Tactical.\n", nil
	}))
	if got := c.Classify(context.Background(), q); got != domain.BasicTactical {
		t.Fatalf("fallback reply ignored, got %q", got)
	}

	c = New(completerFunc(func(ctx context.Context, req domain.CompletionRequest) (string, error) {
		return "", errors.New("model unavailable")
	}))
	if got := c.Classify(context.Background(), q); got != domain.AssumptionTactical {
		t.Fatalf("fallback error must degrade to the default, got %q", got)
	}

	c = New(completerFunc(func(ctx context.Context, req domain.CompletionRequest) (string, error) {
		return "I think this is tactical", nil
	}))
	if got := c.Classify(context.Background(), q); got != domain.AssumptionTactical {
		t.Fatalf("unparsable fallback reply must degrade to the default, got %q", got)
	}
}
