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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/forumqa/storage"
)

// ImageEmbeddingRepository implements storage.ImageEmbeddingRepository for BadgerDB.
type ImageEmbeddingRepository struct {
	backend   *Backend
	ownsStore bool
	logger    *slog.Logger
}

var _ storage.ImageEmbeddingRepository = (*ImageEmbeddingRepository)(nil)

// newImageEmbeddingRepository is an internal constructor that returns the concrete type.
func newImageEmbeddingRepository(backend *Backend, ownsStore bool) *ImageEmbeddingRepository {
	return &ImageEmbeddingRepository{
		backend:   backend,
		ownsStore: ownsStore,
		logger:    backend.logger.With("repository", "image-embeddings"),
	}
}

// NewImageEmbeddingRepository creates a repository on top of an existing backend.
// Closing the repository leaves the backend open.
func NewImageEmbeddingRepository(backend *Backend) (storage.ImageEmbeddingRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return newImageEmbeddingRepository(backend, false), nil
}

// GetImageEmbedding returns the stored embedding for url.
func (r *ImageEmbeddingRepository) GetImageEmbedding(ctx context.Context, url string) ([]float32, error) {
	if url == "" {
		return nil, storage.ErrInvalidKey
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var record *storage.ImageEmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeImageEmbeddingKey(url))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalImageEmbedding(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}

	if record.URL != url {
		r.logger.Debug("image key collision", "url", url, "stored", record.URL)
		return nil, storage.ErrNotFound
	}
	return record.Vector, nil
}

// PutImageEmbedding stores the embedding for url.
func (r *ImageEmbeddingRepository) PutImageEmbedding(ctx context.Context, url string, vector []float32) error {
	if url == "" {
		return storage.ErrInvalidKey
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	value := storage.MarshalImageEmbedding(&storage.ImageEmbeddingRecord{URL: url, Vector: vector})
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeImageEmbeddingKey(url), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("store image embedding: %w", err)
	}
	return nil
}

// Count returns the number of memoized embeddings.
func (r *ImageEmbeddingRepository) Count() (int, error) {
	return r.backend.Count(imageEmbeddingPrefix)
}

// Close closes the underlying backend when the repository created it.
func (r *ImageEmbeddingRepository) Close() error {
	if !r.ownsStore || r.backend.IsClosed() {
		return nil
	}
	return r.backend.Close()
}
