// Package summarizer produces a short overview of an indexed corpus by
// frequency-ranking sentences, spreading the selection across sections.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"financeqa/internal/domain"
)

// Summarizer ranks sentences by stopword-filtered token frequency.
type Summarizer struct {
	tokenPattern *regexp.Regexp
	sentenceRe   *regexp.Regexp
	stopwords    map[string]struct{}
}

// New creates a frequency summarizer.
func New() *Summarizer {
	return &Summarizer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentenceRe:   regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:    stopwords(),
	}
}

type candidate struct {
	text    string
	section string
	order   int
	score   float64
}

// Overview picks up to maxSentences representative sentences from the
// chunk texts, at most one per section so the overview spans the
// corpus instead of dwelling on its densest chapter.
func (s *Summarizer) Overview(chunks []domain.Chunk, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	freq := map[string]float64{}
	var candidates []candidate
	for _, c := range chunks {
		sentences := s.sentenceRe.FindAllString(c.Text, -1)
		if len(sentences) == 0 {
			if t := strings.TrimSpace(c.Text); t != "" {
				sentences = []string{t}
			}
		}
		for _, sent := range sentences {
			for _, tok := range s.tokens(sent) {
				freq[tok]++
			}
			candidates = append(candidates, candidate{
				text:    strings.TrimSpace(sent),
				section: c.Section,
				order:   len(candidates),
			})
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	for i := range candidates {
		toks := s.tokens(candidates[i].text)
		score := 0.0
		for _, tok := range toks {
			score += freq[tok] / maxF
		}
		if n := float64(len(toks)); n > 0 {
			score /= math.Sqrt(n)
		}
		candidates[i].score = score
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	usedSection := map[string]bool{}
	var picked []candidate
	for _, c := range candidates {
		if len(picked) == maxSentences {
			break
		}
		if c.section != "" && usedSection[c.section] {
			continue
		}
		usedSection[c.section] = true
		picked = append(picked, c)
	}
	// Present in corpus order regardless of rank.
	sort.Slice(picked, func(i, j int) bool { return picked[i].order < picked[j].order })
	parts := make([]string, len(picked))
	for i, c := range picked {
		parts[i] = c.text
	}
	return strings.Join(parts, " ")
}

func (s *Summarizer) tokens(text string) []string {
	raw := s.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, ok := s.stopwords[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

func stopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "can", "will", "just", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
