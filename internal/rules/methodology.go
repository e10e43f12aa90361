package rules

// Note is a methodology passage describing one registered rule, used to
// seed the retrieval index so the guidance stays retrievable even when
// the deterministic computation cannot run.
type Note struct {
	Text  string
	Topic string
}

// Methodology returns the rule guidance passages in registry order.
func Methodology() []Note {
	return []Note{
		{
			Text:  "For accounts payable days, use the AVERAGE accounts payable balance, not end-of-period. Formula: (Average AP / COGS) * 365.",
			Topic: "working_capital",
		},
		{
			Text:  "Diluted shares = basic shares + dilutive securities (options, warrants, convertibles). Only include securities that are dilutive, i.e. exercise price below the current price.",
			Topic: "diluted_shares",
		},
		{
			Text:  "EBITDA adjustments: add back operating lease costs under ASC 842, which capitalizes operating leases.",
			Topic: "ebitda",
		},
		{
			Text:  "Variable lease assets estimation: if not stated, assume the ratio of variable lease assets to operating lease assets equals the ratio of variable lease costs to total operating lease costs.",
			Topic: "lease_analysis",
		},
		{
			Text:  "Working cash assumption: use 2% of revenue when specific working cash requirements are not provided, capped at total cash on hand.",
			Topic: "working_capital",
		},
	}
}
