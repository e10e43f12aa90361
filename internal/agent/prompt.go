package agent

import (
	"fmt"
	"strings"

	"financeqa/internal/domain"
)

const systemBase = "You are a senior financial analyst answering benchmark questions with chain-of-thought reasoning."

// systemPrompt returns the type-specific instruction set.
func systemPrompt(t domain.QuestionType) string {
	switch t {
	case domain.Conceptual:
		return systemBase + " The question is conceptual: provide a clear theoretical analysis with examples; no company data is required."
	case domain.BasicTactical:
		return systemBase + " The context contains sufficient information: extract the relevant numbers, state the formula, and calculate step by step."
	default:
		return systemBase + " The context is insufficient: state reasonable assumptions based on industry standards, then calculate step by step."
	}
}

const responseFormat = `FORMAT YOUR RESPONSE EXACTLY AS:
ASSUMPTIONS: [list any assumptions made, or "None"]
CALCULATIONS: [step-by-step work, or reasoning for conceptual questions]
FINAL ANSWER: [final answer with units]`

var nonGAAPSignals = []string{
	"non-gaap", "non gaap", "adjusted ebitda", "adjusted earnings",
	"core earnings", "normalized", "pro forma", "excluding one-time",
}

// userPrompt renders the question with its context, retrieved
// methodology, and any deterministic rule hint. When the question
// signals a non-GAAP measure the prompt instructs the model to
// disclose the adjustments it makes.
func userPrompt(q domain.Question, t domain.QuestionType, methodology string, match domain.RuleMatch, matched bool) string {
	var b strings.Builder

	context := strings.TrimSpace(q.Context)
	if context == "" {
		context = "No context provided"
	}
	fmt.Fprintf(&b, "CONTEXT: %s\n\n", context)

	if methodology != "" {
		fmt.Fprintf(&b, "METHODOLOGY:\n%s\n\n", methodology)
	}
	if matched {
		fmt.Fprintf(&b, "AUTHORITATIVE CALCULATION HINT (%s): computed value %g. %s\n\n",
			match.RuleName, match.Value, match.Explanation)
	}
	fmt.Fprintf(&b, "QUESTION: %s\n\n", q.Text)

	b.WriteString("Remember to convert units as needed (M/B, %/decimal) and show the formula before the numbers.\n")
	if gaapSignal(q) {
		b.WriteString("This looks like a non-GAAP measure: disclose every adjustment you make relative to the GAAP figure.\n")
	}
	b.WriteString("\n")
	b.WriteString(responseFormat)
	return b.String()
}

func gaapSignal(q domain.Question) bool {
	text := strings.ToLower(q.Text + "\n" + q.Context)
	for _, s := range nonGAAPSignals {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
