// Package rules holds the registry of deterministic financial
// calculation procedures. Registry order is an explicit contract:
// rules are tried in order and at most one is applied per question.
package rules

import (
	"fmt"
	"strings"

	"financeqa/internal/domain"
)

// Rule pairs a trigger predicate with a computation. Compute returns
// false when the context lacks a required input; the engine treats
// that the same as the trigger not firing.
type Rule struct {
	Name    string
	Applies func(q domain.Question) bool
	Compute func(q domain.Question) (domain.RuleMatch, bool)
}

// Engine scans the registry in order and returns the first rule that
// both triggers and computes. The registry is fixed at construction
// and read-only afterwards, safe to share across workers.
type Engine struct {
	rules []Rule
}

// NewEngine builds the standard registry.
func NewEngine() *Engine {
	return &Engine{rules: []Rule{
		accountsPayableDays(),
		dilutedShares(),
		ebitdaLeaseAdjustment(),
		variableLeaseAssets(),
		workingCash(),
	}}
}

// Match returns the first applicable rule's result, or false when no
// deterministic rule applies.
func (e *Engine) Match(q domain.Question) (domain.RuleMatch, bool) {
	for _, r := range e.rules {
		if !r.Applies(q) {
			continue
		}
		if m, ok := r.Compute(q); ok {
			return m, true
		}
		// Trigger fired but inputs were missing: no match, keep scanning.
	}
	return domain.RuleMatch{}, false
}

// Names returns registry order, for callers that report on it.
func (e *Engine) Names() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

func questionHas(q domain.Question, terms ...string) bool {
	text := strings.ToLower(q.Text)
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func anywhereHas(q domain.Question, terms ...string) bool {
	text := strings.ToLower(q.Text + "\n" + q.Context)
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func accountsPayableDays() Rule {
	return Rule{
		Name: "accounts-payable-days",
		Applies: func(q domain.Question) bool {
			return questionHas(q, "accounts payable days", "payable days", "days payable", "dpo")
		},
		Compute: func(q domain.Question) (domain.RuleMatch, bool) {
			ap, ok := averageAmount(q.Context, "accounts payable")
			if !ok {
				return domain.RuleMatch{}, false
			}
			cogs, ok := amount(q.Context, "cost of goods sold", "cogs", "cost of sales")
			if !ok || cogs == 0 {
				return domain.RuleMatch{}, false
			}
			days := ap / cogs * 365
			return domain.RuleMatch{
				RuleName: "accounts-payable-days",
				Value:    days,
				Explanation: fmt.Sprintf(
					"Accounts payable days use the average AP balance, not end-of-period: (%.2f / %.2f) * 365 = %.1f days.",
					ap, cogs, days),
			}, true
		},
	}
}

func dilutedShares() Rule {
	return Rule{
		Name: "diluted-shares",
		Applies: func(q domain.Question) bool {
			return questionHas(q, "diluted shares", "diluted share count", "fully diluted")
		},
		Compute: func(q domain.Question) (domain.RuleMatch, bool) {
			basic, ok := amount(q.Context, "basic shares outstanding", "basic shares", "shares outstanding")
			if !ok {
				return domain.RuleMatch{}, false
			}
			// Aliases within a group name the same instrument; only the
			// first hit per group counts, so "in-the-money options" and
			// "options" never double.
			groups := [][]string{
				{"dilutive securities"},
				{"in-the-money options", "options outstanding", "options"},
				{"warrants"},
				{"convertible shares", "convertibles"},
			}
			dilutive := 0.0
			found := false
			for _, group := range groups {
				if v, ok := amount(q.Context, group...); ok {
					dilutive += v
					found = true
				}
			}
			if !found {
				return domain.RuleMatch{}, false
			}
			total := basic + dilutive
			return domain.RuleMatch{
				RuleName: "diluted-shares",
				Value:    total,
				Explanation: fmt.Sprintf(
					"Diluted shares = basic shares + dilutive securities (only those in the money): %.0f + %.0f = %.0f.",
					basic, dilutive, total),
			}, true
		},
	}
}

func ebitdaLeaseAdjustment() Rule {
	return Rule{
		Name: "ebitda-lease-adjustment",
		Applies: func(q domain.Question) bool {
			return questionHas(q, "ebitda") && anywhereHas(q, "lease")
		},
		Compute: func(q domain.Question) (domain.RuleMatch, bool) {
			ebitda, ok := amount(q.Context, "ebitda")
			if !ok {
				return domain.RuleMatch{}, false
			}
			lease, ok := amount(q.Context, "operating lease cost", "operating lease expense", "lease expense", "lease cost")
			if !ok {
				return domain.RuleMatch{}, false
			}
			adj := ebitda + lease
			return domain.RuleMatch{
				RuleName: "ebitda-lease-adjustment",
				Value:    adj,
				Explanation: fmt.Sprintf(
					"Under ASC 842 operating leases are capitalized, so lease cost is added back: %.2f + %.2f = %.2f.",
					ebitda, lease, adj),
			}, true
		},
	}
}

func variableLeaseAssets() Rule {
	return Rule{
		Name: "variable-lease-assets",
		Applies: func(q domain.Question) bool {
			return questionHas(q, "variable lease asset")
		},
		Compute: func(q domain.Question) (domain.RuleMatch, bool) {
			opAssets, ok := amount(q.Context, "operating lease assets", "operating lease right-of-use assets", "right-of-use assets")
			if !ok {
				return domain.RuleMatch{}, false
			}
			varCost, ok := amount(q.Context, "variable lease cost", "variable lease costs")
			if !ok {
				return domain.RuleMatch{}, false
			}
			opCost, ok := amount(q.Context, "total operating lease cost", "operating lease cost", "operating lease costs")
			if !ok || opCost == 0 {
				return domain.RuleMatch{}, false
			}
			est := opAssets * varCost / opCost
			return domain.RuleMatch{
				RuleName: "variable-lease-assets",
				Value:    est,
				Explanation: fmt.Sprintf(
					"Variable lease assets estimated by cost ratio: %.2f * (%.2f / %.2f) = %.2f.",
					opAssets, varCost, opCost, est),
			}, true
		},
	}
}

func workingCash() Rule {
	return Rule{
		Name: "working-cash",
		Applies: func(q domain.Question) bool {
			return questionHas(q, "working cash")
		},
		Compute: func(q domain.Question) (domain.RuleMatch, bool) {
			revenue, ok := amount(q.Context, "revenue", "sales", "total revenue")
			if !ok {
				return domain.RuleMatch{}, false
			}
			working := 0.02 * revenue
			expl := fmt.Sprintf("Working cash assumed at 2%% of revenue: 0.02 * %.2f = %.2f.", revenue, working)
			if cash, ok := amount(q.Context, "total cash", "cash and equivalents", "cash"); ok && cash < working {
				working = cash
				expl = fmt.Sprintf(
					"Working cash is the lesser of total cash %.2f and 2%% of revenue %.2f.", cash, 0.02*revenue)
			}
			return domain.RuleMatch{RuleName: "working-cash", Value: working, Explanation: expl}, true
		},
	}
}
