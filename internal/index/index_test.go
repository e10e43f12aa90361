package index

import (
	"strings"
	"testing"

	"financeqa/internal/embedding"
)

func TestBuildRequiresEmbedder(t *testing.T) {
	if _, err := Build("text", Options{}); err == nil {
		t.Fatal("expected error when no embedder is given")
	}
}

func TestBuildEmpty(t *testing.T) {
	idx, err := Build("", Options{Embedder: embedding.NewTFIDFEmbedder()})
	if err != nil {
		t.Fatal(err)
	}
	if !idx.Empty() || idx.Len() != 0 {
		t.Fatalf("expected empty index, got %d chunks", idx.Len())
	}
}

func TestBuildSeedsNotesFirst(t *testing.T) {
	notes := []Note{
		{Text: "Accounts payable days equal average payables over COGS times 365.", Section: "working_capital"},
		{Text: "Diluted shares add in-the-money options to the basic count.", Section: "diluted_shares"},
	}
	raw := strings.Repeat("Revenue growth compounds over the forecast horizon. ", 60)

	idx, err := Build(raw, Options{ChunkSize: 500, Notes: notes, Embedder: embedding.NewTFIDFEmbedder()})
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() < len(notes)+2 {
		t.Fatalf("expected notes plus several text chunks, got %d", idx.Len())
	}
	for i, n := range notes {
		c := idx.Chunk(i)
		if c.ID != i {
			t.Fatalf("chunk %d has ID %d", i, c.ID)
		}
		if c.Text != n.Text || c.Section != n.Section {
			t.Fatalf("note %d not seeded first: %+v", i, c)
		}
		if c.StartOffset != -1 {
			t.Fatalf("note chunk has text offset %d", c.StartOffset)
		}
	}
	for i := 0; i < idx.Len(); i++ {
		if idx.Chunk(i).ID != i {
			t.Fatalf("chunk at position %d has ID %d", i, idx.Chunk(i).ID)
		}
		if len(idx.Vector(i)) != idx.Embedder().Dimension() {
			t.Fatalf("vector %d has length %d, want %d", i, len(idx.Vector(i)), idx.Embedder().Dimension())
		}
	}
}

func TestBuildNotesOnly(t *testing.T) {
	idx, err := Build("", Options{
		Notes:    []Note{{Text: "Working cash is capped at two percent of revenue.", Section: "working_capital"}},
		Embedder: embedding.NewTFIDFEmbedder(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 1 {
		t.Fatalf("got %d chunks, want 1", idx.Len())
	}
}
