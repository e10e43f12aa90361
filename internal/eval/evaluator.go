// Package eval compares predicted answers to reference answers under
// numeric tolerance rules, with a text fallback for non-numeric pairs.
package eval

import (
	"fmt"
	"math"
	"strings"

	"financeqa/internal/domain"
	"financeqa/internal/numparse"
)

// Default tolerances: an answer is correct within roughly 1% relative
// or a small absolute slack, accommodating rounding.
const (
	DefaultEpsilonAbs = 0.005
	DefaultEpsilonRel = 0.01
)

// Evaluator holds the tolerance configuration.
type Evaluator struct {
	EpsilonAbs float64
	EpsilonRel float64
}

// New creates an evaluator with the default tolerances.
func New() *Evaluator {
	return &Evaluator{EpsilonAbs: DefaultEpsilonAbs, EpsilonRel: DefaultEpsilonRel}
}

// Evaluate normalizes both values and compares them. Numeric pairs use
// the tolerance rule; if either side has no well-formed number the
// comparison falls back to case-insensitive substring containment.
// The normalized values used are recorded for auditability.
func (e *Evaluator) Evaluate(draft domain.AnswerDraft, q domain.Question) domain.EvaluationResult {
	result := domain.EvaluationResult{
		QuestionID: q.ID,
		Predicted:  draft.FinalAnswer,
		Expected:   q.ExpectedAnswer,
	}

	pred, predOK := numparse.Find(draft.FinalAnswer)
	exp, expOK := numparse.Find(q.ExpectedAnswer)
	result.PredictedNumeric = predOK
	result.ExpectedNumeric = expOK

	if predOK && expOK {
		correct, used, delta := e.compare(pred, exp)
		result.Correct = correct
		result.Delta = delta
		result.NormalizedPredicted = formatNorm(used, pred.Percent)
		result.NormalizedExpected = formatNorm(exp.Value, exp.Percent)
		return result
	}

	// Text fallback. Definitional answers are judged by containment.
	np := strings.ToLower(strings.TrimSpace(draft.FinalAnswer))
	if np == "" {
		np = strings.ToLower(strings.TrimSpace(draft.RawText))
	}
	ne := strings.ToLower(strings.TrimSpace(q.ExpectedAnswer))
	result.NormalizedPredicted = np
	result.NormalizedExpected = ne
	result.Correct = np != "" && ne != "" &&
		(strings.Contains(np, ne) || strings.Contains(ne, np))
	return result
}

// compare checks the tolerance over the predicted value and its
// percent-scale variants, returning the variant that matched (or the
// face value) and the delta against the expected value.
func (e *Evaluator) compare(pred, exp numparse.Amount) (bool, float64, float64) {
	candidates := []float64{pred.Value}
	if pred.Percent && !exp.Percent {
		// "12.5%" may be the decimal 0.125 on the other side.
		candidates = append(candidates, pred.Value/100)
	}
	if exp.Percent && !pred.Percent {
		// a bare fraction like 0.4 may stand for 40%.
		candidates = append(candidates, pred.Value*100)
	}
	tolerance := math.Max(e.EpsilonAbs, e.EpsilonRel*math.Abs(exp.Value))
	best := candidates[0]
	bestDelta := math.Abs(candidates[0] - exp.Value)
	for _, c := range candidates {
		d := math.Abs(c - exp.Value)
		if d < bestDelta {
			best, bestDelta = c, d
		}
	}
	return bestDelta <= tolerance, best, bestDelta
}

func formatNorm(v float64, percent bool) string {
	s := fmt.Sprintf("%g", v)
	if percent {
		s += "%"
	}
	return s
}
