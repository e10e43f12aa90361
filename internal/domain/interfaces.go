package domain

import "context"

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Retriever returns the most relevant chunks for a query, best first.
// Implementations must be pure: identical calls return identical
// ordered sequences, and an empty index yields an empty result.
type Retriever interface {
	Retrieve(query string, k int) []SearchResult
}

// Classifier resolves a question to exactly one QuestionType.
type Classifier interface {
	Classify(ctx context.Context, q Question) QuestionType
}

// CompletionRequest is a single rendered prompt for the external model.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Completer is the model-call boundary. A request may fail with a
// rate-limit signal (ErrModelRateLimited, retryable) or a hard failure
// (ErrModelHardFailure, non-retryable).
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Summarizer produces a brief overview of a chunked corpus.
type Summarizer interface {
	Overview(chunks []Chunk, maxSentences int) string
}
