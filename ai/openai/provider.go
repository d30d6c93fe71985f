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

package openai

import (
	"log/slog"

	"github.com/poiesic/forumqa/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages the text and image embedder instances.
type Provider struct {
	config *ai.Config
	text   *TextEmbedder
	image  *ImageEmbedder
	logger *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	text, err := newTextEmbedder(config)
	if err != nil {
		return nil, err
	}

	image, err := newImageEmbedder(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config: config,
		text:   text,
		image:  image,
		logger: slog.Default().With("component", "openai-provider"),
	}, nil
}

// TextEmbedder returns the text embedding service.
func (p *Provider) TextEmbedder() ai.TextEmbedder {
	return p.text
}

// ImageEmbedder returns the image embedding service.
func (p *Provider) ImageEmbedder() ai.ImageEmbedder {
	return p.image
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	p.image.client.CloseIdleConnections()
	return nil
}
