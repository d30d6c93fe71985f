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

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/forumqa/core"
)

// loadSnapshot reads and validates a snapshot. Any problem, including an
// empty collection or a single invalid post, is reported as an error so the
// caller can rebuild.
func loadSnapshot(path string) (core.PostCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var posts core.PostCollection
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMalformedDocument, err)
	}

	if err := core.ValidateCollection(posts); err != nil {
		return nil, err
	}

	return posts, nil
}

// writeSnapshot writes posts to path atomically: the data goes to a temporary
// file in the same directory which is then renamed over path.
func writeSnapshot(path string, posts core.PostCollection) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	if err = enc.Encode(posts); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
