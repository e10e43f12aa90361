package numparse

import (
	"math"
	"testing"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		percent bool
		ok      bool
	}{
		{name: "plain", input: "42", want: 42, ok: true},
		{name: "decimal", input: "123.45", want: 123.45, ok: true},
		{name: "currency", input: "$1,234.56", want: 1234.56, ok: true},
		{name: "percent", input: "40%", want: 40, percent: true, ok: true},
		{name: "percent_decimal", input: "12.50%", want: 12.5, percent: true, ok: true},
		{name: "negative", input: "-50", want: -50, ok: true},
		{name: "paren_negative", input: "(50)", want: -50, ok: true},
		{name: "paren_currency", input: "($1,200)", want: -1200, ok: true},
		{name: "billions", input: "$1B", want: 1e9, ok: true},
		{name: "billions_suffix", input: "1.5B", want: 1.5e9, ok: true},
		{name: "millions", input: "1500M", want: 1.5e9, ok: true},
		{name: "millions_word", input: "3.2 million", want: 3.2e6, ok: true},
		{name: "thousands_word", input: "2.5 thousand", want: 2500, ok: true},
		{name: "embedded", input: "Revenue was $10M and COGS $6M", want: 1e7, ok: true},
		{name: "close_paren_only", input: "50)", want: 50, ok: true},
		{name: "none", input: "no numbers here", ok: false},
		{name: "empty", input: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Find(tt.input)
			if ok != tt.ok {
				t.Fatalf("Find(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if math.Abs(got.Value-tt.want) > 1e-9 {
				t.Fatalf("Find(%q) = %v, want %v", tt.input, got.Value, tt.want)
			}
			if got.Percent != tt.percent {
				t.Fatalf("Find(%q) percent = %v, want %v", tt.input, got.Percent, tt.percent)
			}
		})
	}
}

func TestFindAll(t *testing.T) {
	amounts := FindAll("Revenue $1B, COGS $600M, margin 40%")
	if len(amounts) != 3 {
		t.Fatalf("got %d amounts, want 3", len(amounts))
	}
	if amounts[0].Value != 1e9 || amounts[1].Value != 6e8 {
		t.Fatalf("unexpected values: %v, %v", amounts[0].Value, amounts[1].Value)
	}
	if amounts[2].Value != 40 || !amounts[2].Percent {
		t.Fatalf("expected 40%%, got %v percent=%v", amounts[2].Value, amounts[2].Percent)
	}
}
