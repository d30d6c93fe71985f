package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/forumqa/ai"
)

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 512

// ImageEmbedder implements ai.ImageEmbedder against a CLIP-style HTTP
// endpoint that accepts {"model": ..., "input": [{"image": ...}]} and answers
// in the OpenAI embeddings response shape.
//
// The image field carries either the image URL, which the service fetches
// itself, or the base64-encoded image bytes.
type ImageEmbedder struct {
	endpoint string
	model    string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
	logger   *slog.Logger
}

type imageInput struct {
	Image string `json:"image"`
}

type imageEmbeddingRequest struct {
	Model string       `json:"model"`
	Input []imageInput `json:"input"`
}

type imageEmbeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func newImageEmbedder(config *ai.Config) (*ImageEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ImageEmbedder{
		endpoint: config.ImageHost,
		model:    config.ImageModel,
		apiKey:   config.ImageKey,
		timeout:  config.Timeout,
		client:   &http.Client{Timeout: config.Timeout},
		logger:   slog.Default().With("component", "openai-image-embedder"),
	}, nil
}

// NewImageEmbedder creates a new image embedder using the provided configuration.
//
// Returns ai.ImageEmbedder interface to enforce abstraction.
func NewImageEmbedder(config *ai.Config) (ai.ImageEmbedder, error) {
	return newImageEmbedder(config)
}

// EmbedImage embeds a single image. Every failure is logged and reported as
// ok == false.
func (e *ImageEmbedder) EmbedImage(ctx context.Context, img ai.Image) ([]float32, bool) {
	vector, err := e.embed(ctx, img)
	if err != nil {
		e.logger.Warn("image embedding unavailable", "image", img.String(), "err", err)
		return nil, false
	}
	return vector, true
}

func (e *ImageEmbedder) embed(ctx context.Context, img ai.Image) ([]float32, error) {
	var payload string
	switch {
	case img.IsURL():
		payload = img.URL
	case len(img.Data) > 0:
		payload = base64.StdEncoding.EncodeToString(img.Data)
	default:
		return nil, ai.ErrEmptyImage
	}

	body, err := json.Marshal(imageEmbeddingRequest{
		Model: e.model,
		Input: []imageInput{{Image: payload}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var parsed imageEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("response carried no embedding")
	}

	return parsed.Data[0].Embedding, nil
}
