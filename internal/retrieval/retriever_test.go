package retrieval

import (
	"testing"

	"financeqa/internal/embedding"
	"financeqa/internal/index"
)

func buildIndex(t *testing.T, notes []index.Note) *index.Index {
	t.Helper()
	idx, err := index.Build("", index.Options{Notes: notes, Embedder: embedding.NewTFIDFEmbedder()})
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

var passages = []index.Note{
	{Text: "The weighted average cost of capital blends the cost of equity and the after-tax cost of debt.", Section: "cost_of_capital"},
	{Text: "Working capital is current assets minus current liabilities.", Section: "working_capital"},
	{Text: "Depreciation allocates the cost of an asset over its useful life.", Section: "accounting"},
	{Text: "Terminal value often dominates a discounted cash flow valuation.", Section: "valuation"},
}

func TestRetrieveEmptyIndex(t *testing.T) {
	r := NewRetriever(buildIndex(t, nil), 0)
	if got := r.Retrieve("what is WACC", 2); got != nil {
		t.Fatalf("expected nil for empty index, got %d results", len(got))
	}
}

func TestRetrieveRanksRelevantChunkFirst(t *testing.T) {
	r := NewRetriever(buildIndex(t, passages), 0)
	got := r.Retrieve("how do you compute the weighted average cost of capital", 2)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Chunk.ID != 0 {
		t.Fatalf("top chunk ID = %d, want the cost of capital passage", got[0].Chunk.ID)
	}
	if got[0].Score < got[1].Score {
		t.Fatal("results not ordered by descending score")
	}
	for _, res := range got {
		if res.Score < 0 || res.Score > 1 {
			t.Fatalf("score %v out of [0,1]", res.Score)
		}
	}
}

func TestRetrieveDeterministic(t *testing.T) {
	r := NewRetriever(buildIndex(t, passages), 0)
	a := r.Retrieve("working capital components", 3)
	b := r.Retrieve("working capital components", 3)
	if len(a) != len(b) {
		t.Fatalf("result counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Chunk.ID != b[i].Chunk.ID || a[i].Score != b[i].Score {
			t.Fatalf("results differ at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRetrieveTieBreaksByChunkID(t *testing.T) {
	dup := []index.Note{
		{Text: "inventory turnover measures how fast stock sells", Section: "a"},
		{Text: "inventory turnover measures how fast stock sells", Section: "b"},
		{Text: "inventory turnover measures how fast stock sells", Section: "c"},
	}
	r := NewRetriever(buildIndex(t, dup), 0)
	got := r.Retrieve("inventory turnover", 3)
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	for i, res := range got {
		if res.Chunk.ID != i {
			t.Fatalf("equal scores must order by ascending chunk ID, got %d at position %d", res.Chunk.ID, i)
		}
	}
}

func TestRetrieveDefaultTopK(t *testing.T) {
	r := NewRetriever(buildIndex(t, passages), 0)
	if got := r.Retrieve("cost of capital", 0); len(got) != DefaultTopK {
		t.Fatalf("got %d results for k=0, want %d", len(got), DefaultTopK)
	}
}

func TestRetrieveMinScoreFloor(t *testing.T) {
	r := NewRetriever(buildIndex(t, passages), 0.99)
	if got := r.Retrieve("completely unrelated astronomy question about nebulae", 4); len(got) != 0 {
		t.Fatalf("expected the score floor to drop all results, got %d", len(got))
	}
}

func TestRetrieveLexicalFallback(t *testing.T) {
	// Stopwords and out-of-vocabulary numbers embed to the zero vector,
	// so ranking falls back to lexical overlap.
	corpus := []index.Note{
		{Text: "Working capital is current assets minus current liabilities.", Section: "working_capital"},
		{Text: "Terminal value often dominates a discounted cash flow valuation.", Section: "valuation"},
	}
	r := NewRetriever(buildIndex(t, corpus), 0.1)
	got := r.Retrieve("is 2024", 1)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Chunk.Section != "working_capital" {
		t.Fatalf("fallback picked %q", got[0].Chunk.Section)
	}
}
