package reference

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/poiesic/forumqa/core"
)

// Document is a raw reference document.
type Document struct {
	Name    string
	Content string
}

// Source lists reference documents in a deterministic order.
type Source interface {
	Documents(ctx context.Context) ([]Document, error)
}

// StaticSource serves a fixed list of documents in order.
type StaticSource []Document

// Documents returns the documents as given.
func (s StaticSource) Documents(_ context.Context) ([]Document, error) {
	return s, nil
}

// DirSource reads reference documents from the files of a directory.
type DirSource struct {
	dir        string
	extensions []string
	logger     *slog.Logger
}

// DefaultExtensions are the file extensions DirSource reads.
var DefaultExtensions = []string{".md", ".markdown", ".txt"}

// NewDirSource creates a source over the files of dir. Subdirectories are not read.
func NewDirSource(dir string) *DirSource {
	return &DirSource{
		dir:        dir,
		extensions: DefaultExtensions,
		logger:     slog.Default().With("component", "reference-source", "dir", dir),
	}
}

// Documents reads every matching file, sorted by name. A file that cannot be
// read is logged and skipped; failing to list the directory is an error.
func (s *DirSource) Documents(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: reference directory %s", core.ErrMissingSource, s.dir)
		}
		return nil, fmt.Errorf("list reference directory: %w", err)
	}

	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !slices.Contains(s.extensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable reference document", "file", entry.Name(), "err", err)
			continue
		}
		docs = append(docs, Document{Name: entry.Name(), Content: string(data)})
	}

	// os.ReadDir already sorts by filename
	return docs, nil
}
