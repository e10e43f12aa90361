package agent

import (
	"regexp"
	"strings"

	"financeqa/internal/domain"
	"financeqa/internal/numparse"
)

var (
	finalAnswerRe  = regexp.MustCompile(`(?i)FINAL ANSWER:\s*(.+)`)
	assumptionsRe  = regexp.MustCompile(`(?is)ASSUMPTIONS:\s*(.+?)(?:\n[A-Z ]+:|\n\n|$)`)
	calculationsRe = regexp.MustCompile(`(?is)CALCULATIONS:\s*(.+?)(?:\nFINAL ANSWER:|$)`)
)

// parseResponse extracts the structured sections from a model response.
// A response without the expected sections degrades gracefully: the
// last non-empty line stands in for the final answer.
func parseResponse(raw string) domain.AnswerDraft {
	draft := domain.AnswerDraft{RawText: raw}

	if m := finalAnswerRe.FindStringSubmatch(raw); m != nil {
		draft.FinalAnswer = strings.TrimSpace(firstLine(m[1]))
	} else {
		draft.FinalAnswer = lastNonEmptyLine(raw)
	}
	if m := assumptionsRe.FindStringSubmatch(raw); m != nil {
		draft.Assumptions = strings.TrimSpace(m[1])
	}
	if m := calculationsRe.FindStringSubmatch(raw); m != nil {
		draft.Reasoning = strings.TrimSpace(m[1])
	} else {
		draft.Reasoning = strings.TrimSpace(raw)
	}

	if a, ok := numparse.Find(draft.FinalAnswer); ok {
		draft.Value = a.Value
		draft.HasValue = true
	}
	return draft
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if t := strings.TrimSpace(lines[i]); t != "" {
			return t
		}
	}
	return ""
}
