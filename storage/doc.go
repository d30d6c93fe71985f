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

// Package storage provides the storage abstraction for memoized embeddings.
//
// The post snapshot is the only persistent artifact of forumqa. Everything
// kept here lives for the lifetime of the process: image embeddings fetched
// while ranking are remembered so repeated questions about the same posts do
// not fetch the same image twice.
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types:
//
//	repo, err := badger.NewMemoryImageRepository()  // returns storage.ImageEmbeddingRepository
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Usage
//
//	repo, err := badger.NewMemoryImageRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
//	if err := repo.PutImageEmbedding(ctx, url, vec); err != nil { ... }
//	vec, err := repo.GetImageEmbedding(ctx, url)
//	if errors.Is(err, storage.ErrNotFound) { ... }
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
