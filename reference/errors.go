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

package reference

import "errors"

var (
	// ErrTextEmbedderRequired is returned when no text embedder is supplied.
	ErrTextEmbedderRequired = errors.New("text embedder is required")

	// ErrSourceRequired is returned when no document source is supplied.
	ErrSourceRequired = errors.New("reference source is required")

	// ErrInvalidThreshold is returned for a threshold outside [-1, 1].
	ErrInvalidThreshold = errors.New("threshold must be between -1 and 1")
)
