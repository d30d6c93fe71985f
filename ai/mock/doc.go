// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.TextEmbedder,
// ai.ImageEmbedder and ai.AIProvider for use in unit tests. The mocks allow
// tests to run without external AI service dependencies and enable
// controlled, deterministic behavior. All mocks are safe for concurrent use.
//
// # Usage in Tests
//
//	text := mock.NewMockTextEmbedder().WithVectors(map[string][]float32{
//	    "how do I reset?": {1, 0},
//	})
//	images := mock.NewMockImageEmbedder().WithVectors(map[string][]float32{
//	    "https://example.com/a.png": {0, 1},
//	})
//	provider := mock.NewMockProviderWithServices(text, images)
//
//	count := text.CallCount()
//
// # Default Behavior
//
//   - MockTextEmbedder: Returns deterministic vectors based on text hash
//   - MockImageEmbedder: Returns deterministic vectors for any non-empty image
//   - MockProvider: Aggregates the two
package mock
