// Package numparse implements the fixed grammar for numbers appearing
// in financial answers and contexts: optional currency symbol,
// thousands separators, decimal fraction, percent sign, scale suffix
// (K/M/B or spelled out) and parenthetical-negative notation.
package numparse

import (
	"regexp"
	"strconv"
	"strings"
)

// Amount is a parsed number. Percent amounts keep their face value:
// "40%" parses to Value=40, Percent=true.
type Amount struct {
	Value   float64
	Percent bool
	Raw     string
}

var amountRe = regexp.MustCompile(
	`(?i)(\()?\s*([-+])?\s*([$€£])?\s*(\d{1,3}(?:,\d{3})+|\d+)((?:\.\d+)?)\s*(%|bn\b|mm\b|[kmb]\b|thousand\b|million\b|billion\b|trillion\b)?(\))?`)

// Find returns the first well-formed number in s.
func Find(s string) (Amount, bool) {
	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return Amount{}, false
	}
	return fromMatch(m)
}

// FindAll returns every well-formed number in s, in order of appearance.
func FindAll(s string) []Amount {
	var out []Amount
	for _, m := range amountRe.FindAllStringSubmatch(s, -1) {
		if a, ok := fromMatch(m); ok {
			out = append(out, a)
		}
	}
	return out
}

func fromMatch(m []string) (Amount, bool) {
	digits := strings.ReplaceAll(m[4], ",", "")
	v, err := strconv.ParseFloat(digits+m[5], 64)
	if err != nil {
		return Amount{}, false
	}
	suffix := strings.ToLower(m[6])
	percent := suffix == "%"
	if !percent {
		v *= multiplier(suffix)
	}
	if m[2] == "-" {
		v = -v
	} else if m[1] == "(" && m[7] == ")" {
		// parenthetical negative, accounting notation
		v = -v
	}
	return Amount{Value: v, Percent: percent, Raw: strings.TrimSpace(m[0])}, true
}

func multiplier(suffix string) float64 {
	switch suffix {
	case "k", "thousand":
		return 1e3
	case "m", "mm", "million":
		return 1e6
	case "b", "bn", "billion":
		return 1e9
	case "trillion":
		return 1e12
	}
	return 1
}
