// Package retrieval ranks index chunks against a query.
package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"financeqa/internal/domain"
	"financeqa/internal/index"
)

// DefaultTopK is the number of chunks returned when the caller passes
// a non-positive k.
const DefaultTopK = 2

// Retriever scores chunks by cosine similarity in the index's embedding
// space, with a lexical-overlap fallback for queries that embed to the
// zero vector. Retrieval is pure: identical inputs yield identical
// ordered output, with ties broken by ascending chunk ID.
type Retriever struct {
	index    *index.Index
	minScore float64
}

// NewRetriever creates a retriever over idx. Chunks scoring below
// minScore are not returned even inside the top k.
func NewRetriever(idx *index.Index, minScore float64) *Retriever {
	return &Retriever{index: idx, minScore: minScore}
}

// Retrieve returns the top-k chunks by score descending. An empty
// index yields an empty result, never an error.
func (r *Retriever) Retrieve(query string, k int) []domain.SearchResult {
	if r.index == nil || r.index.Empty() {
		return nil
	}
	if k <= 0 {
		k = DefaultTopK
	}
	vec, err := r.index.Embedder().Embed(query)
	if err != nil || isZero(vec) {
		return r.lexical(query, k)
	}
	scores := make([]float64, r.index.Len())
	for i := range scores {
		scores[i] = clamp01(dot(r.index.Vector(i), vec))
	}
	return r.top(scores, k)
}

// top orders chunk positions by score descending, chunk ID ascending.
func (r *Retriever) top(scores []float64, k int) []domain.SearchResult {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return r.index.Chunk(ia).ID < r.index.Chunk(ib).ID
	})
	var out []domain.SearchResult
	for _, i := range order {
		if len(out) == k {
			break
		}
		if scores[i] < r.minScore {
			break
		}
		out = append(out, domain.SearchResult{Chunk: r.index.Chunk(i), Score: scores[i]})
	}
	return out
}

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// lexical scores chunks by Ochiai token overlap with the query.
func (r *Retriever) lexical(query string, k int) []domain.SearchResult {
	qset := tokenSet(query)
	scores := make([]float64, r.index.Len())
	for i := range scores {
		scores[i] = ochiai(qset, r.index.Chunk(i).Text)
	}
	return r.top(scores, k)
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// ochiai computes |A∩B| / sqrt(|A||B|) over distinct tokens.
func ochiai(qset map[string]struct{}, text string) float64 {
	if len(qset) == 0 {
		return 0
	}
	seen := make(map[string]struct{})
	inter := 0
	for _, t := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(seen) == 0 {
		return 0
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(seen))))
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func isZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
