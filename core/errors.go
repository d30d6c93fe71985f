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

package core

import "errors"

// Retrieval errors
var (
	// ErrProvider indicates a remote embedding call failed or timed out.
	ErrProvider = errors.New("embedding provider failed")

	// ErrMissingSource indicates there is neither raw export data nor a usable snapshot.
	ErrMissingSource = errors.New("raw source not found")

	// ErrMalformedDocument indicates a snapshot, raw export or reference file could not be parsed.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrEmptyCorpus indicates no posts survived building or loading the cache.
	ErrEmptyCorpus = errors.New("empty corpus")
)

// Validation errors
var (
	// ErrInvalidPost indicates a Post failed validation.
	ErrInvalidPost = errors.New("invalid post")

	// ErrInvalidQuery indicates a Query failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmptyContent indicates the post content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrMissingEmbedding indicates the post has no text embedding.
	ErrMissingEmbedding = errors.New("text embedding is missing")
)

// Vector errors
var (
	// ErrZeroMagnitude indicates cosine similarity was requested for a zero vector.
	ErrZeroMagnitude = errors.New("zero magnitude vector")

	// ErrDimensionMismatch indicates two vectors of different length were compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
