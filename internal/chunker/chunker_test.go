package chunker

import (
	"strings"
	"testing"
)

func reconstruct(t *testing.T, raw string, size int, hints []TOCHint) {
	t.Helper()
	chunks := NewSplitter(size).Split(raw, hints)
	var b strings.Builder
	for _, c := range chunks {
		if len(c.Text) > size {
			t.Fatalf("chunk %d has %d bytes, limit %d", c.ID, len(c.Text), size)
		}
		if c.StartOffset != b.Len() {
			t.Fatalf("chunk start offset %d, want %d", c.StartOffset, b.Len())
		}
		b.WriteString(c.Text)
	}
	if b.String() != raw {
		t.Fatalf("concatenated chunks do not reconstruct the input (%d vs %d bytes)", b.Len(), len(raw))
	}
}

func TestSplitReconstructsInput(t *testing.T) {
	paragraph := "Free cash flow equals operating cash flow minus capital expenditures. " +
		"It measures the cash a business generates after reinvestment.\n\n"
	tests := []struct {
		name string
		raw  string
		size int
	}{
		{name: "paragraphs", raw: strings.Repeat(paragraph, 40), size: 1000},
		{name: "single_small", raw: "short text", size: 1500},
		{name: "no_whitespace", raw: strings.Repeat("x", 3700), size: 1000},
		{name: "unicode", raw: strings.Repeat("väärtpaberite hindamine ", 200), size: 333},
		{name: "unicode_unbroken", raw: strings.Repeat("ä", 900), size: 501},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconstruct(t, tt.raw, tt.size, nil)
		})
	}
}

func TestSplitEmpty(t *testing.T) {
	if chunks := NewSplitter(1500).Split("", nil); chunks != nil {
		t.Fatalf("expected no chunks for empty input, got %d", len(chunks))
	}
}

func TestSplitAlignsToHints(t *testing.T) {
	sectionA := strings.Repeat("a", 995) + "\n\n"
	heading := "Chapter 2: Cost of Capital\n"
	sectionB := strings.Repeat("b", 800)
	raw := sectionA + heading + sectionB
	hints := []TOCHint{
		{Title: "Chapter 1: Basics", Offset: 0},
		{Title: "Chapter 2: Cost of Capital", Offset: len(sectionA)},
	}

	chunks := NewSplitter(1500).Split(raw, hints)
	reconstruct(t, raw, 1500, hints)
	if len(chunks) < 2 {
		t.Fatalf("expected a section-aligned split, got %d chunks", len(chunks))
	}
	if chunks[0].Text != sectionA {
		t.Fatalf("first chunk does not end at the section boundary (got %d bytes, want %d)",
			len(chunks[0].Text), len(sectionA))
	}
	if chunks[0].Section != "Chapter 1: Basics" {
		t.Fatalf("first chunk section = %q", chunks[0].Section)
	}
	if chunks[1].Section != "Chapter 2: Cost of Capital" {
		t.Fatalf("second chunk section = %q", chunks[1].Section)
	}
}

func TestSplitAvoidsSliverChunks(t *testing.T) {
	// A paragraph break right at the start must not produce a tiny
	// first chunk; breaks are only taken from the window's second half.
	raw := "intro\n\n" + strings.Repeat("body text ", 300)
	for _, c := range NewSplitter(1000).Split(raw, nil) {
		if len(c.Text) < 400 && c.StartOffset+len(c.Text) != len(raw) {
			t.Fatalf("non-final chunk of only %d bytes", len(c.Text))
		}
	}
}

func TestDetectHeadings(t *testing.T) {
	raw := "Chapter 1: Discounted Cash Flow\n" +
		"Valuation rests on expected future cash flows.\n" +
		"2.1 The Cost of Capital\n" +
		"some body text here.\n" +
		"WORKING CAPITAL\n" +
		"more body text, definitely not a heading.\n"
	hints := DetectHeadings(raw)
	if len(hints) != 3 {
		t.Fatalf("got %d headings, want 3: %+v", len(hints), hints)
	}
	want := []string{"Chapter 1: Discounted Cash Flow", "2.1 The Cost of Capital", "WORKING CAPITAL"}
	for i, w := range want {
		if hints[i].Title != w {
			t.Fatalf("heading %d = %q, want %q", i, hints[i].Title, w)
		}
	}
	if hints[1].Offset != strings.Index(raw, "2.1") {
		t.Fatalf("heading offset %d, want %d", hints[1].Offset, strings.Index(raw, "2.1"))
	}
}
