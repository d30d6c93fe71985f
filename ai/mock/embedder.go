package mock

import (
	"context"
	"hash/fnv"
	"sync"
)

// DefaultDimension is the length of vectors produced by the default mock behavior.
const DefaultDimension = 64

// MockTextEmbedder is a test double for ai.TextEmbedder.
// It allows custom behavior injection via function fields and is safe for
// concurrent use.
type MockTextEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, EmbedText is applied to each text in turn.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	mu        sync.Mutex
	callCount int
	texts     []string
}

// NewMockTextEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockTextEmbedder().
func NewMockTextEmbedder() *MockTextEmbedder {
	return &MockTextEmbedder{}
}

// WithEmbedTextFunc sets EmbedTextFunc and returns the mock for chaining.
func (m *MockTextEmbedder) WithEmbedTextFunc(fn func(ctx context.Context, text string) ([]float32, error)) *MockTextEmbedder {
	m.EmbedTextFunc = fn
	return m
}

// WithVectors makes the mock answer from a fixed text-to-vector table.
// Texts missing from the table get the default deterministic vector.
func (m *MockTextEmbedder) WithVectors(table map[string][]float32) *MockTextEmbedder {
	m.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		if v, ok := table[text]; ok {
			return v, nil
		}
		return generateDeterministicVector(text, DefaultDimension), nil
	}
	return m
}

// EmbedText generates a deterministic embedding based on text hash.
func (m *MockTextEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.record(text)
	return m.embedOne(ctx, text)
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *MockTextEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.record(texts...)

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = v
	}
	return embeddings, nil
}

func (m *MockTextEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return generateDeterministicVector(text, DefaultDimension), nil
}

func (m *MockTextEmbedder) record(texts ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.texts = append(m.texts, texts...)
}

// CallCount returns the number of times any method was called.
func (m *MockTextEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Texts returns every text passed to the mock, in call order.
func (m *MockTextEmbedder) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// Reset clears the call history and injected behavior.
func (m *MockTextEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.texts = nil
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000)/1000.0 + 0.001
	}

	var sumSquares float32
	for _, v := range vector {
		sumSquares += v * v
	}
	norm := float32(1.0) / sumSquares
	for i := range vector {
		vector[i] *= norm
	}

	return vector
}
