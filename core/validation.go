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

import (
	"fmt"
	"strings"
)

// ValidatePost validates a Post according to cache rules.
//
// Validation rules:
//   - Content must not be empty
//   - TextEmbedding must be present and have non-zero magnitude
//
// NOT validated:
//   - ImageEmbeddings (empty until computed)
//   - Images (may legitimately be empty)
//   - CreatedAt (opaque to ranking)
func ValidatePost(post *Post) error {
	if post == nil {
		return fmt.Errorf("%w: post is nil", ErrInvalidPost)
	}

	if strings.TrimSpace(post.Content) == "" {
		return fmt.Errorf("%w: post %d: %w", ErrInvalidPost, post.PostNumber, ErrEmptyContent)
	}

	if len(post.TextEmbedding) == 0 {
		return fmt.Errorf("%w: post %d: %w", ErrInvalidPost, post.PostNumber, ErrMissingEmbedding)
	}

	if Magnitude(post.TextEmbedding) == 0 {
		return fmt.Errorf("%w: post %d: %w", ErrInvalidPost, post.PostNumber, ErrZeroMagnitude)
	}

	return nil
}

// ValidateCollection validates every post of a collection and rejects an
// empty collection.
func ValidateCollection(posts PostCollection) error {
	if len(posts) == 0 {
		return ErrEmptyCorpus
	}
	for _, post := range posts {
		if err := ValidatePost(post); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuery validates a Query before it is processed.
func ValidateQuery(query *Query) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}
	if strings.TrimSpace(query.Question) == "" {
		return fmt.Errorf("%w: question cannot be empty", ErrInvalidQuery)
	}
	return nil
}
