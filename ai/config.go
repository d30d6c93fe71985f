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

package ai

import (
	"errors"
	"strings"
	"time"
)

// DefaultTimeout bounds every call made to an embedding backend.
const DefaultTimeout = 15 * time.Second

// Config holds configuration for the two embedding backends.
type Config struct {
	// TextHost is the base URL of the OpenAI-compatible text embedding API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	TextHost string

	// TextModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small", "embeddinggemma"
	TextModel string

	// TextKey is the bearer credential for the text backend.
	// Empty is allowed for local servers that don't require authentication.
	TextKey string

	// ImageHost is the full endpoint URL of the image embedding API.
	// Example: "https://api.jina.ai/v1/embeddings"
	ImageHost string

	// ImageModel is the model identifier to use for image embeddings.
	// Example: "jina-clip-v2"
	ImageModel string

	// ImageKey is the bearer credential for the image backend.
	ImageKey string

	// Timeout bounds each individual backend call.
	// Default: 15s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithTextHost sets the text embedding service base URL.
func WithTextHost(host string) ConfigOption {
	return func(c *Config) {
		c.TextHost = host
	}
}

// WithTextModel sets the text embedding model identifier.
func WithTextModel(model string) ConfigOption {
	return func(c *Config) {
		c.TextModel = model
	}
}

// WithTextKey sets the text backend credential.
func WithTextKey(key string) ConfigOption {
	return func(c *Config) {
		c.TextKey = key
	}
}

// WithImageHost sets the image embedding endpoint URL.
func WithImageHost(host string) ConfigOption {
	return func(c *Config) {
		c.ImageHost = host
	}
}

// WithImageModel sets the image embedding model identifier.
func WithImageModel(model string) ConfigOption {
	return func(c *Config) {
		c.ImageModel = model
	}
}

// WithImageKey sets the image backend credential.
func WithImageKey(key string) ConfigOption {
	return func(c *Config) {
		c.ImageKey = key
	}
}

// WithTimeout sets the per-call timeout for both backends.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible text service and a hosted CLIP-style image service.
func DefaultConfig() *Config {
	return &Config{
		TextHost:   "http://localhost:11434/v1",
		TextModel:  "embeddinggemma",
		ImageHost:  "https://api.jina.ai/v1/embeddings",
		ImageModel: "jina-clip-v2",
		Timeout:    DefaultTimeout,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//   cfg := NewConfig(
//       WithTextHost("https://api.openai.com/v1"),
//       WithTextModel("text-embedding-3-small"),
//       WithTextKey(os.Getenv("OPENAI_API_KEY")),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Trailing slashes are removed from both hosts since the text client appends
// its own path and the image host is used verbatim.
func (c *Config) Normalize() {
	c.TextHost = strings.TrimRight(strings.TrimSpace(c.TextHost), "/")
	c.ImageHost = strings.TrimRight(strings.TrimSpace(c.ImageHost), "/")
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.TextHost == "" {
		return errors.New("ai config: TextHost is required")
	}
	if c.TextModel == "" {
		return errors.New("ai config: TextModel is required")
	}
	if c.ImageHost == "" {
		return errors.New("ai config: ImageHost is required")
	}
	if c.ImageModel == "" {
		return errors.New("ai config: ImageModel is required")
	}
	if c.Timeout < 0 {
		return errors.New("ai config: Timeout must not be negative")
	}
	return nil
}
