package vecstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/liliang-cn/vecstore/pkg/core"
)

// Embedder is the external collaborator that turns raw text into
// embeddings. The store never calls it on its own; it is only exercised by
// the AddText and SearchText conveniences. Implement it to integrate any
// embedding model (OpenAI, Ollama, local models, etc.).
type Embedder interface {
	// Embed converts a single text string into a vector.
	Embed(ctx context.Context, text string) (core.Embedding, error)

	// EmbedBatch converts multiple texts into vectors in a single call.
	EmbedBatch(ctx context.Context, texts []string) ([]core.Embedding, error)

	// Dim returns the dimension of vectors produced by this embedder.
	Dim() int
}

// Errors related to embedder operations
var (
	// ErrEmbedderNotConfigured is returned when text operations are called
	// but no embedder was supplied via WithEmbedder.
	ErrEmbedderNotConfigured = errors.New("vecstore: embedder not configured, use WithEmbedder or call vector methods directly")

	// ErrEmptyText is returned when an empty text string is provided.
	ErrEmptyText = errors.New("vecstore: empty text provided")

	// ErrEmbeddingFailed is returned when the embedder fails to produce a
	// vector.
	ErrEmbeddingFailed = errors.New("vecstore: embedding failed")
)

func embeddingFailed(err error) error {
	return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
}

// EmbedderFunc adapts a single-text embedding function into an Embedder.
// EmbedBatch calls the function once per text, sequentially.
type EmbedderFunc struct {
	Fn        func(ctx context.Context, text string) (core.Embedding, error)
	Dimension int
}

// Embed calls the underlying function.
func (f EmbedderFunc) Embed(ctx context.Context, text string) (core.Embedding, error) {
	return f.Fn(ctx, text)
}

// EmbedBatch embeds each text in order, stopping at the first failure.
func (f EmbedderFunc) EmbedBatch(ctx context.Context, texts []string) ([]core.Embedding, error) {
	out := make([]core.Embedding, len(texts))
	for i, text := range texts {
		vec, err := f.Fn(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dim returns the configured dimension.
func (f EmbedderFunc) Dim() int {
	return f.Dimension
}
