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

// Package openai provides embedding service implementations using
// OpenAI-compatible APIs.
//
// Text embeddings go through the langchaingo library, so any OpenAI-compatible
// service (OpenAI, Ollama, LocalAI, vLLM) works. Image embeddings are posted
// to a CLIP-style endpoint that takes {"model", "input": [{"image"}]} and
// answers in the OpenAI embeddings response shape.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithTextHost("http://localhost:11434/v1"),
//	    ai.WithImageKey(os.Getenv("IMAGE_EMBEDDING_KEY")),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.TextEmbedder().EmbedText(ctx, "sample text")
//	img, ok := provider.ImageEmbedder().EmbedImage(ctx, ai.ImageFromURL(url))
package openai
