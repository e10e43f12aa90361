package rules

import (
	"strings"

	"financeqa/internal/numparse"
)

// amountWindow is how far past a label a number may appear and still
// count as that label's value.
const amountWindow = 80

// amount finds the first number following any of the labels in text.
// Matching is case-insensitive; labels are tried in order.
func amount(text string, labels ...string) (float64, bool) {
	lower := strings.ToLower(text)
	for _, label := range labels {
		i := strings.Index(lower, strings.ToLower(label))
		if i < 0 {
			continue
		}
		start := i + len(label)
		end := start + amountWindow
		if end > len(text) {
			end = len(text)
		}
		if a, ok := numparse.Find(text[start:end]); ok {
			return a.Value, true
		}
	}
	return 0, false
}

// averageAmount prefers an explicitly averaged figure, then the mean of
// beginning and ending balances, then a plain balance.
func averageAmount(text, item string) (float64, bool) {
	if v, ok := amount(text, "average "+item); ok {
		return v, true
	}
	begin, okB := amount(text, "beginning "+item)
	end, okE := amount(text, "ending "+item)
	if okB && okE {
		return (begin + end) / 2, true
	}
	return amount(text, item)
}
