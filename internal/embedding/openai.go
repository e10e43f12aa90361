package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder produces embeddings through an OpenAI-compatible API.
// Unlike TF-IDF it needs no corpus preparation; the dimension is set
// lazily from the first response.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	timeout   time.Duration
	dimension int
}

// OpenAIConfig configures the remote embedder.
type OpenAIConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewOpenAIEmbedder creates a remote embedder from config. The API key
// is read from the environment variable named in APIKeyEnv.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIEmbedder{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *OpenAIEmbedder) Name() string { return "openai" }

// Prepare is a no-op for remote embedding.
func (e *OpenAIEmbedder) Prepare(corpus []string) error { return nil }

// Dimension returns the vector dimensionality, zero before first embed.
func (e *OpenAIEmbedder) Dimension() int { return e.dimension }

// Embed requests an embedding vector and L2-normalizes it.
func (e *OpenAIEmbedder) Embed(text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding returned")
	}
	v32 := resp.Data[0].Embedding
	v := make([]float64, len(v32))
	norm := 0.0
	for i, x := range v32 {
		v[i] = float64(x)
		norm += v[i] * v[i]
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range v {
			v[i] /= norm
		}
	}
	if e.dimension == 0 {
		e.dimension = len(v)
	}
	return v, nil
}
