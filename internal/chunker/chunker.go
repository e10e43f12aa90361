// Package chunker splits raw textbook text into bounded-size passages
// suitable for retrieval indexing.
package chunker

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"financeqa/internal/domain"
)

// DefaultChunkSize is the maximum chunk length in bytes.
const DefaultChunkSize = 1500

// TOCHint is a heading with its approximate offset into the raw text.
type TOCHint struct {
	Title  string
	Offset int
}

// Splitter cuts raw text into chunks no longer than Size, preferring
// section and paragraph boundaries over mid-sentence cuts.
type Splitter struct {
	size int
}

// NewSplitter creates a splitter with the given maximum chunk size.
func NewSplitter(size int) *Splitter {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Splitter{size: size}
}

// Split covers every byte of raw with exactly one chunk: concatenating
// the chunk texts in order reconstructs raw. Chunk IDs are left zero,
// the index assigns them. Empty input yields no chunks.
func (s *Splitter) Split(raw string, hints []TOCHint) []domain.Chunk {
	if raw == "" {
		return nil
	}
	sorted := make([]TOCHint, len(hints))
	copy(sorted, hints)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	var chunks []domain.Chunk
	pos := 0
	for pos < len(raw) {
		end := s.cut(raw, pos, sorted)
		chunks = append(chunks, domain.Chunk{
			Text:        raw[pos:end],
			Section:     sectionAt(sorted, pos),
			StartOffset: pos,
		})
		pos = end
	}
	return chunks
}

// cut picks the end offset for a chunk starting at pos. Preference
// order: section boundary from hints, paragraph break, line break,
// whitespace, hard cut at the size limit.
func (s *Splitter) cut(raw string, pos int, hints []TOCHint) int {
	limit := pos + s.size
	if limit >= len(raw) {
		return len(raw)
	}
	// Boundary candidates are only taken from the second half of the
	// window so a break near the start cannot produce a sliver chunk.
	floor := pos + s.size/2

	if h := lastHintIn(hints, floor, limit); h > 0 {
		return h
	}
	window := raw[pos:limit]
	if i := strings.LastIndex(window, "\n\n"); i >= 0 && pos+i+2 > floor {
		return pos + i + 2
	}
	if i := strings.LastIndexByte(window, '\n'); i >= 0 && pos+i+1 > floor {
		return pos + i + 1
	}
	if i := strings.LastIndexAny(window, " \t"); i >= 0 && pos+i+1 > floor {
		return pos + i + 1
	}
	// Hard cut, backed off to a rune boundary.
	for limit > pos && !utf8.RuneStart(raw[limit]) {
		limit--
	}
	if limit == pos {
		limit = pos + s.size
	}
	return limit
}

func lastHintIn(hints []TOCHint, floor, limit int) int {
	best := -1
	for _, h := range hints {
		if h.Offset > floor && h.Offset <= limit && h.Offset > best {
			best = h.Offset
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

// sectionAt labels a chunk with the nearest heading at or before pos.
func sectionAt(hints []TOCHint, pos int) string {
	label := ""
	for _, h := range hints {
		if h.Offset > pos {
			break
		}
		label = h.Title
	}
	return label
}

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^chapter\s+\d+[:.]?\s+\S.*$`),
	regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s+[A-Z].{2,79}$`),
	regexp.MustCompile(`^[A-Z][A-Z '&-]{4,79}$`),
}

// DetectHeadings scans raw text for heading-like lines and returns them
// as hints for boundary-aligned chunking. Used when the caller has no
// table of contents of its own.
func DetectHeadings(raw string) []TOCHint {
	var hints []TOCHint
	offset := 0
	for _, line := range strings.SplitAfter(raw, "\n") {
		trimmed := strings.TrimRight(line, "\n\r")
		for _, p := range headingPatterns {
			if p.MatchString(trimmed) {
				hints = append(hints, TOCHint{Title: strings.TrimSpace(trimmed), Offset: offset})
				break
			}
		}
		offset += len(line)
	}
	return hints
}
