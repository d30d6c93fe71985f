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

package badger

import (
	"log/slog"

	"github.com/poiesic/forumqa/storage"
)

// NewMemoryImageRepository creates an image embedding repository backed by
// its own in-memory store. Closing the repository closes the store.
func NewMemoryImageRepository() (storage.ImageEmbeddingRepository, error) {
	return NewMemoryImageRepositoryWithLogger(nil)
}

// NewMemoryImageRepositoryWithLogger is NewMemoryImageRepository with a custom logger.
func NewMemoryImageRepositoryWithLogger(logger *slog.Logger) (storage.ImageEmbeddingRepository, error) {
	backend, err := OpenMemoryBackend(logger)
	if err != nil {
		return nil, err
	}
	return newImageEmbeddingRepository(backend, true), nil
}
