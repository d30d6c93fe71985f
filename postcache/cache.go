package postcache

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/forumqa/ai"
	"github.com/poiesic/forumqa/core"
	"github.com/poiesic/forumqa/textextract"
)

const (
	// DefaultMaxAttempts is how many times a post's embedding is attempted.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the base delay between embedding attempts.
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultProgressInterval reports build progress every N posts.
	DefaultProgressInterval = 10
)

// Cache loads the embedded post collection from a snapshot, building the
// snapshot from the raw thread export when needed.
type Cache struct {
	embedder         ai.TextEmbedder
	extractor        textextract.Extractor
	pool             *ants.Pool
	maxAttempts      int
	retryDelay       time.Duration
	progress         io.Writer
	progressInterval int
	logger           *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache) error

// WithPoolSize sets the number of posts embedded concurrently during a build.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Cache) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if c.pool != nil {
			c.pool.Release()
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithRetry sets how often a failing post embedding is retried.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Cache) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = maxAttempts
		c.retryDelay = baseDelay
		return nil
	}
}

// WithProgress reports build progress to w every interval posts.
func WithProgress(w io.Writer, interval int) Option {
	return func(c *Cache) error {
		c.progress = w
		c.progressInterval = interval
		return nil
	}
}

// WithExtractor replaces the HTML-to-text extractor.
func WithExtractor(extractor textextract.Extractor) Option {
	return func(c *Cache) error {
		if extractor != nil {
			c.extractor = extractor
		}
		return nil
	}
}

// NewCache creates a post cache that embeds with embedder.
func NewCache(embedder ai.TextEmbedder, opts ...Option) (*Cache, error) {
	if embedder == nil {
		return nil, ErrTextEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		embedder:         embedder,
		extractor:        textextract.New(),
		pool:             pool,
		maxAttempts:      DefaultMaxAttempts,
		retryDelay:       DefaultRetryDelay,
		progressInterval: DefaultProgressInterval,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Close()
			return nil, optErr
		}
	}
	c.logger = c.logger.With("component", "postcache")

	return c, nil
}

// LoadOrBuild returns the collection stored at snapshotPath. When the
// snapshot is absent or unusable the collection is built from sourcePath and
// written to snapshotPath.
//
// Errors:
//   - core.ErrMissingSource: no usable snapshot and sourcePath does not exist
//   - core.ErrMalformedDocument: the source cannot be read or parsed
//   - core.ErrEmptyCorpus: no post survived the build; no snapshot is written
func (c *Cache) LoadOrBuild(ctx context.Context, snapshotPath, sourcePath string) (core.PostCollection, error) {
	posts, err := loadSnapshot(snapshotPath)
	if err == nil {
		c.logger.Info("loaded post snapshot", "path", snapshotPath, "posts", len(posts))
		return posts, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Info("no post snapshot, building", "path", snapshotPath)
	} else {
		c.logger.Warn("unusable post snapshot, rebuilding", "path", snapshotPath, "err", err)
	}

	return c.Build(ctx, snapshotPath, sourcePath)
}

// Build embeds every post of sourcePath and writes the snapshot, ignoring
// any existing one.
func (c *Cache) Build(ctx context.Context, snapshotPath, sourcePath string) (core.PostCollection, error) {
	raws, err := readSource(sourcePath)
	if err != nil {
		return nil, err
	}

	posts, err := c.build(ctx, raws)
	if err != nil {
		return nil, err
	}

	if err := writeSnapshot(snapshotPath, posts); err != nil {
		return nil, err
	}
	c.logger.Info("wrote post snapshot", "path", snapshotPath, "posts", len(posts), "skipped", len(raws)-len(posts))

	return posts, nil
}

// Close releases the worker pool.
// The cache should not be used after calling Close.
func (c *Cache) Close() {
	if c.pool != nil {
		c.pool.Release()
	}
}
