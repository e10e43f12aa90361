// Package index holds the in-memory retrieval index: chunks and their
// precomputed embedding vectors.
package index

import (
	"fmt"

	"financeqa/internal/chunker"
	"financeqa/internal/domain"
)

// Note is a methodology passage seeded into the index ahead of the
// textbook content, so retrieval can surface calculation guidance even
// when no textbook is loaded.
type Note struct {
	Text    string
	Section string
}

// Options configures index construction.
type Options struct {
	ChunkSize int
	Hints     []chunker.TOCHint
	Notes     []Note
	Embedder  domain.Embedder
}

// Index owns the chunk collection and its vectors. It is read-only
// after Build and safe for concurrent readers without synchronization.
type Index struct {
	chunks   []domain.Chunk
	vectors  [][]float64
	embedder domain.Embedder
}

// Build chunks the raw text, seeds methodology notes, and embeds every
// chunk. Degenerate input (no text, no notes) yields an empty index.
func Build(raw string, opts Options) (*Index, error) {
	if opts.Embedder == nil {
		return nil, fmt.Errorf("index: embedder is required")
	}
	hints := opts.Hints
	if raw != "" && len(hints) == 0 {
		hints = chunker.DetectHeadings(raw)
	}
	var chunks []domain.Chunk
	for _, n := range opts.Notes {
		chunks = append(chunks, domain.Chunk{Text: n.Text, Section: n.Section, StartOffset: -1})
	}
	chunks = append(chunks, chunker.NewSplitter(opts.ChunkSize).Split(raw, hints)...)
	for i := range chunks {
		chunks[i].ID = i
	}

	idx := &Index{chunks: chunks, embedder: opts.Embedder}
	if len(chunks) == 0 {
		return idx, nil
	}

	corpus := make([]string, len(chunks))
	for i, c := range chunks {
		corpus[i] = c.Text
	}
	if err := opts.Embedder.Prepare(corpus); err != nil {
		return nil, fmt.Errorf("index: prepare embedder: %w", err)
	}
	idx.vectors = make([][]float64, len(chunks))
	for i, c := range chunks {
		vec, err := opts.Embedder.Embed(c.Text)
		if err != nil {
			return nil, fmt.Errorf("index: embed chunk %d: %w", c.ID, err)
		}
		idx.vectors[i] = vec
	}
	return idx, nil
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int { return len(x.chunks) }

// Empty reports whether the index holds no chunks.
func (x *Index) Empty() bool { return len(x.chunks) == 0 }

// Chunk returns the chunk with position i (which equals its ID).
func (x *Index) Chunk(i int) domain.Chunk { return x.chunks[i] }

// Chunks returns the full chunk collection. Callers must not mutate it.
func (x *Index) Chunks() []domain.Chunk { return x.chunks }

// Vector returns the embedding vector for chunk i.
func (x *Index) Vector(i int) []float64 { return x.vectors[i] }

// Embedder returns the embedder the index was built with, so queries
// are embedded in the same space.
func (x *Index) Embedder() domain.Embedder { return x.embedder }
