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

// Package ai provides abstractions for the embedding services used by forumqa.
//
// Two embedding spaces are used: a text space, in which posts, questions and
// reference titles are compared, and a separate image space in which post
// images are compared with an image attached to a question. Vectors from the
// two spaces are never compared with each other.
//
// # Design Principles
//
// The package is designed around three interfaces:
//
//   - TextEmbedder: Generates vector embeddings from text. Failures are errors.
//   - ImageEmbedder: Generates vector embeddings from images. Failures are
//     reported as an absent result, never as an error.
//   - AIProvider: Aggregates both services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewTextEmbedder) return
// interface types. Test constructors (mock.NewMockTextEmbedder,
// mock.NewMockImageEmbedder) return concrete types so tests can inject
// behavior and assert on call counts.
//
// # Attachments
//
// Query attachments arrive as strings. ImageFromAttachment routes them: a
// string starting with http:// or https:// is a URL, anything else is decoded
// as base64 (plain or data URI).
package ai
