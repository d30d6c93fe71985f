// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mock

import "github.com/poiesic/forumqa/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock text and image embedders.
type MockProvider struct {
	text   *MockTextEmbedder
	image  *MockImageEmbedder
	closed bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockTextEmbedder()/GetMockImageEmbedder() to access concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return NewMockProviderWithServices(NewMockTextEmbedder(), NewMockImageEmbedder())
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(text *MockTextEmbedder, image *MockImageEmbedder) *MockProvider {
	return &MockProvider{
		text:  text,
		image: image,
	}
}

// TextEmbedder returns the mock text embedder.
func (p *MockProvider) TextEmbedder() ai.TextEmbedder {
	return p.text
}

// ImageEmbedder returns the mock image embedder.
func (p *MockProvider) ImageEmbedder() ai.ImageEmbedder {
	return p.image
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockTextEmbedder returns the underlying mock text embedder for test assertions.
func (p *MockProvider) GetMockTextEmbedder() *MockTextEmbedder {
	return p.text
}

// GetMockImageEmbedder returns the underlying mock image embedder for test assertions.
func (p *MockProvider) GetMockImageEmbedder() *MockImageEmbedder {
	return p.image
}
