package mock

import (
	"context"
	"sync"

	"github.com/poiesic/forumqa/ai"
)

// MockImageEmbedder is a test double for ai.ImageEmbedder.
// It is safe for concurrent use.
type MockImageEmbedder struct {
	// EmbedImageFunc is called by EmbedImage if set.
	// If nil, URLs and payloads get a deterministic vector and empty images are absent.
	EmbedImageFunc func(ctx context.Context, img ai.Image) ([]float32, bool)

	mu     sync.Mutex
	images []ai.Image
}

// NewMockImageEmbedder creates a mock image embedder with default deterministic behavior.
func NewMockImageEmbedder() *MockImageEmbedder {
	return &MockImageEmbedder{}
}

// WithVectors makes the mock answer from a fixed URL-to-vector table.
// URLs missing from the table, and byte payloads, are reported as absent.
// Payload images can be keyed by their String() form ("<n bytes>").
func (m *MockImageEmbedder) WithVectors(table map[string][]float32) *MockImageEmbedder {
	m.EmbedImageFunc = func(_ context.Context, img ai.Image) ([]float32, bool) {
		v, ok := table[img.String()]
		return v, ok
	}
	return m
}

// EmbedImage returns an embedding for img, or ok == false.
func (m *MockImageEmbedder) EmbedImage(ctx context.Context, img ai.Image) ([]float32, bool) {
	m.mu.Lock()
	m.images = append(m.images, img)
	m.mu.Unlock()

	if m.EmbedImageFunc != nil {
		return m.EmbedImageFunc(ctx, img)
	}
	if !img.IsURL() && len(img.Data) == 0 {
		return nil, false
	}
	return generateDeterministicVector(img.String(), DefaultDimension), true
}

// CallCount returns the number of EmbedImage calls.
func (m *MockImageEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images)
}

// Images returns every image passed to the mock, in call order.
func (m *MockImageEmbedder) Images() []ai.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.Image(nil), m.images...)
}

// CallsFor counts the calls made for a given URL.
func (m *MockImageEmbedder) CallsFor(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, img := range m.images {
		if img.URL == url {
			n++
		}
	}
	return n
}

// Reset clears the call history and injected behavior.
func (m *MockImageEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = nil
	m.EmbedImageFunc = nil
}
