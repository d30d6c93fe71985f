package storage

import "context"

// ImageEmbeddingRepository memoizes image embeddings by image URL.
// Implementations must be thread-safe and support concurrent access.
type ImageEmbeddingRepository interface {
	// GetImageEmbedding returns the stored embedding for url.
	// Returns ErrNotFound if nothing is stored for it.
	GetImageEmbedding(ctx context.Context, url string) ([]float32, error)

	// PutImageEmbedding stores the embedding for url, replacing any previous value.
	PutImageEmbedding(ctx context.Context, url string, vector []float32) error

	// Close releases resources held by the repository.
	Close() error
}
