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

package postcache

import "errors"

var (
	// ErrTextEmbedderRequired is returned when no text embedder is supplied.
	ErrTextEmbedderRequired = errors.New("text embedder is required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrMissingField marks a raw post lacking a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrNoText marks a raw post whose body has no text once markup is removed.
	ErrNoText = errors.New("post has no text")
)
