package ai

import "context"

// TextEmbedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type TextEmbedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error wrapping core.ErrProvider if the remote call fails or times out.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ImageEmbedder generates vector embeddings from images.
// Implementations must be thread-safe for concurrent use.
//
// Image vectors live in their own space and are only ever compared with
// other image vectors.
type ImageEmbedder interface {
	// EmbedImage returns the embedding of img. Any failure (network, decode,
	// remote status, timeout) yields ok == false; failures are never returned
	// to the caller since the image signal is optional.
	EmbedImage(ctx context.Context, img Image) (vector []float32, ok bool)
}

// AIProvider aggregates the embedding backends for convenient initialization
// and lifecycle management.
type AIProvider interface {
	// TextEmbedder returns the text embedding backend.
	TextEmbedder() TextEmbedder

	// ImageEmbedder returns the image embedding backend.
	ImageEmbedder() ImageEmbedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
