package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/forumqa/ai"
	"github.com/poiesic/forumqa/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// TextEmbedder implements ai.TextEmbedder using OpenAI-compatible embedding APIs.
type TextEmbedder struct {
	embedder embeddings.Embedder
	timeout  time.Duration
	logger   *slog.Logger
}

// newTextEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTextEmbedder(config *ai.Config) (*TextEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.TextKey
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.TextHost),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.TextModel),
		openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &TextEmbedder{
		embedder: embedder,
		timeout:  config.Timeout,
		logger:   slog.Default().With("component", "openai-text-embedder"),
	}, nil
}

// NewTextEmbedder creates a new text embedder using the provided configuration.
//
// Returns ai.TextEmbedder interface to enforce abstraction.
func NewTextEmbedder(config *ai.Config) (ai.TextEmbedder, error) {
	return newTextEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *TextEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *TextEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("%w: text embedding: %w", core.ErrProvider, err)
	}

	if len(vectors) != len(texts) {
		e.logger.Warn("embedder returned unexpected result count", "want", len(texts), "got", len(vectors))
		return nil, fmt.Errorf("%w: text embedding: expected %d vectors, got %d",
			core.ErrProvider, len(texts), len(vectors))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: text embedding: empty vector at index %d", core.ErrProvider, i)
		}
	}

	return vectors, nil
}
