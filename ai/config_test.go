package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.TextHost)
	assert.Equal(t, "embeddinggemma", cfg.TextModel)
	assert.Equal(t, "https://api.jina.ai/v1/embeddings", cfg.ImageHost)
	assert.Equal(t, "jina-clip-v2", cfg.ImageModel)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "http://localhost:11434/v1", cfg.TextHost)
		assert.Equal(t, DefaultTimeout, cfg.Timeout)
	})

	t.Run("with custom text backend", func(t *testing.T) {
		cfg := NewConfig(
			WithTextHost("https://api.openai.com/v1"),
			WithTextModel("text-embedding-3-small"),
			WithTextKey("sk-test"),
		)

		assert.Equal(t, "https://api.openai.com/v1", cfg.TextHost)
		assert.Equal(t, "text-embedding-3-small", cfg.TextModel)
		assert.Equal(t, "sk-test", cfg.TextKey)
	})

	t.Run("with custom image backend", func(t *testing.T) {
		cfg := NewConfig(
			WithImageHost("http://clip:8080/embed"),
			WithImageModel("clip-vit-b32"),
			WithImageKey("secret"),
		)

		assert.Equal(t, "http://clip:8080/embed", cfg.ImageHost)
		assert.Equal(t, "clip-vit-b32", cfg.ImageModel)
		assert.Equal(t, "secret", cfg.ImageKey)
	})

	t.Run("with custom timeout", func(t *testing.T) {
		cfg := NewConfig(WithTimeout(3 * time.Second))
		assert.Equal(t, 3*time.Second, cfg.Timeout)
	})
}

func TestConfigNormalize(t *testing.T) {
	cfg := &Config{
		TextHost:  " http://localhost:11434/v1/ ",
		ImageHost: "http://clip:8080/embed//",
	}
	cfg.Normalize()

	assert.Equal(t, "http://localhost:11434/v1", cfg.TextHost)
	assert.Equal(t, "http://clip:8080/embed", cfg.ImageHost)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "missing text host", mutate: func(c *Config) { c.TextHost = "" }, wantErr: "TextHost"},
		{name: "missing text model", mutate: func(c *Config) { c.TextModel = "" }, wantErr: "TextModel"},
		{name: "missing image host", mutate: func(c *Config) { c.ImageHost = "/" }, wantErr: "ImageHost"},
		{name: "missing image model", mutate: func(c *Config) { c.ImageModel = "" }, wantErr: "ImageModel"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "Timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
