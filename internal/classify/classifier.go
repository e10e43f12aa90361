// Package classify resolves questions to their QuestionType using
// ordered lexical rules, with an optional model fallback.
package classify

import (
	"context"
	"regexp"
	"strings"

	"financeqa/internal/domain"
)

// Classifier applies the decision policy in order, first match wins:
// declared label, conceptual lexical patterns (empty context only),
// metric/data co-occurrence, then the ASSUMPTION_TACTICAL default.
// When a fallback Completer is set it is consulted before defaulting;
// any fallback error or unparsable reply degrades to the default.
type Classifier struct {
	fallback domain.Completer
}

// New creates a classifier. fallback may be nil to disable model calls.
func New(fallback domain.Completer) *Classifier {
	return &Classifier{fallback: fallback}
}

var conceptualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*explain\b`),
	regexp.MustCompile(`(?i)^\s*define\b`),
	regexp.MustCompile(`(?i)^\s*describe\b`),
	regexp.MustCompile(`(?i)\bwhat is the concept of\b`),
	regexp.MustCompile(`(?i)\bwhat does .{1,60} mean\b`),
	regexp.MustCompile(`(?i)\bdifference between\b`),
	regexp.MustCompile(`(?i)^\s*why\b`),
}

// metric pairs question aliases with the context terms needed to
// compute it directly. Each needs entry is a group of alternatives;
// every group must co-occur with a number in the context.
type metric struct {
	aliases []string
	needs   [][]string
}

var metrics = []metric{
	{aliases: []string{"gross profit margin", "gross margin", "gross profit"},
		needs: [][]string{{"revenue", "sales"}, {"cogs", "cost of goods sold", "cost of sales"}}},
	{aliases: []string{"operating margin", "operating income", "ebit margin"},
		needs: [][]string{{"revenue", "sales"}, {"operating income", "operating expenses", "ebit"}}},
	{aliases: []string{"net income margin", "net margin", "net profit margin"},
		needs: [][]string{{"revenue", "sales"}, {"net income", "net profit"}}},
	{aliases: []string{"current ratio"},
		needs: [][]string{{"current assets"}, {"current liabilities"}}},
	{aliases: []string{"working capital"},
		needs: [][]string{{"current assets"}, {"current liabilities"}}},
	{aliases: []string{"accounts payable days", "payable days", "dpo"},
		needs: [][]string{{"accounts payable"}, {"cogs", "cost of goods sold"}}},
	{aliases: []string{"debt-to-equity", "debt to equity"},
		needs: [][]string{{"debt"}, {"equity"}}},
	{aliases: []string{"ebitda"},
		needs: [][]string{{"operating income", "ebit", "net income"}, {"depreciation", "amortization", "d&a"}}},
	{aliases: []string{"free cash flow"},
		needs: [][]string{{"operating cash", "cash flow from operations", "cash from operations"}, {"capex", "capital expenditure"}}},
}

// Classify returns exactly one QuestionType for q.
func (c *Classifier) Classify(ctx context.Context, q domain.Question) domain.QuestionType {
	// Declared labels are authoritative and never re-validated.
	if t, ok := domain.ParseQuestionType(string(q.DeclaredType)); ok {
		return t
	}
	noContext := strings.TrimSpace(q.Context) == ""
	if noContext {
		for _, p := range conceptualPatterns {
			if p.MatchString(q.Text) {
				return domain.Conceptual
			}
		}
	}
	if !noContext && contextCovers(q) {
		return domain.BasicTactical
	}
	if t, ok := c.askModel(ctx, q); ok {
		return t
	}
	// Missing-data and estimation questions land here.
	return domain.AssumptionTactical
}

// contextCovers reports whether the context names every input required
// by a metric the question asks for, each with a nearby number.
func contextCovers(q domain.Question) bool {
	question := strings.ToLower(q.Text)
	ctxText := strings.ToLower(q.Context)
	for _, m := range metrics {
		if !containsAny(question, m.aliases) {
			continue
		}
		covered := true
		for _, group := range m.needs {
			if !amountNearAny(ctxText, group) {
				covered = false
				break
			}
		}
		if covered {
			return true
		}
	}
	return false
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

var digitRe = regexp.MustCompile(`\d`)

// amountNearAny reports whether any term in group appears in text with
// a digit within the following 60 characters.
func amountNearAny(text string, group []string) bool {
	for _, term := range group {
		i := strings.Index(text, term)
		if i < 0 {
			continue
		}
		end := i + len(term) + 60
		if end > len(text) {
			end = len(text)
		}
		if digitRe.MatchString(text[i+len(term) : end]) {
			return true
		}
	}
	return false
}

const fallbackSystem = "You classify finance benchmark questions. Reply with exactly one word: conceptual, basic_tactical, or assumption_tactical."

// askModel consults the fallback completer for genuinely ambiguous
// questions. Errors are swallowed: ambiguity is not fatal.
func (c *Classifier) askModel(ctx context.Context, q domain.Question) (domain.QuestionType, bool) {
	if c.fallback == nil {
		return "", false
	}
	user := "QUESTION: " + q.Text
	if strings.TrimSpace(q.Context) != "" {
		user += "\nCONTEXT: " + q.Context
	}
	out, err := c.fallback.Complete(ctx, domain.CompletionRequest{
		System:    fallbackSystem,
		User:      user,
		MaxTokens: 8,
	})
	if err != nil {
		return "", false
	}
	word := strings.ToLower(strings.TrimSpace(out))
	word = strings.Trim(word, ".\"' ")
	return domain.ParseQuestionType(word)
}
