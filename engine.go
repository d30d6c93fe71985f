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

package forumqa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/forumqa/ai"
	"github.com/poiesic/forumqa/ai/openai"
	"github.com/poiesic/forumqa/core"
	"github.com/poiesic/forumqa/postcache"
	"github.com/poiesic/forumqa/reference"
	"github.com/poiesic/forumqa/search"
	"github.com/poiesic/forumqa/storage"
	"github.com/poiesic/forumqa/storage/badger"
)

// Engine answers questions against a forum thread and an optional set of
// reference documents.
type Engine struct {
	snapshotPath string
	sourcePath   string
	provider     ai.AIProvider
	ownsProvider bool
	cache        *postcache.Cache
	ranker       *search.Ranker
	matcher      *reference.Matcher
	memo         storage.ImageEmbeddingRepository
	logger       *slog.Logger

	mu    sync.Mutex
	posts core.PostCollection
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig           *ai.Config
	provider           ai.AIProvider
	referenceSource    reference.Source
	referenceThreshold float64
	logger             *slog.Logger
	poolSize           int
	maxAttempts        int
	retryDelay         time.Duration
	progress           io.Writer
	progressInterval   int
}

// WithAIConfig sets the embedding backend configuration.
// Ignored when WithProvider is used.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies the embedding provider. The caller keeps ownership:
// Close does not close it.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithReferenceDir reads reference documents from dir.
func WithReferenceDir(dir string) EngineOption {
	return func(o *engineOptions) {
		o.referenceSource = reference.NewDirSource(dir)
	}
}

// WithReferenceSource sets the reference document source.
func WithReferenceSource(source reference.Source) EngineOption {
	return func(o *engineOptions) {
		o.referenceSource = source
	}
}

// WithReferenceThreshold sets the minimum reference title similarity.
func WithReferenceThreshold(threshold float64) EngineOption {
	return func(o *engineOptions) {
		o.referenceThreshold = threshold
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithPoolSize sets the worker pool size used for cache builds and image fetches.
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.poolSize = size
	}
}

// WithRetry sets the retry policy for post embeddings during a cache build.
func WithRetry(maxAttempts int, baseDelay time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.maxAttempts = maxAttempts
		o.retryDelay = baseDelay
	}
}

// WithProgress reports cache build progress to w every interval posts.
func WithProgress(w io.Writer, interval int) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
		o.progressInterval = interval
	}
}

// NewEngine creates an engine over the snapshot at snapshotPath, built from
// the thread export at sourcePath when needed. Nothing is loaded until the
// first question or an explicit call to Collection.
func NewEngine(snapshotPath, sourcePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:           ai.DefaultConfig(),
		referenceThreshold: reference.DefaultThreshold,
		maxAttempts:        postcache.DefaultMaxAttempts,
		retryDelay:         postcache.DefaultRetryDelay,
		progressInterval:   postcache.DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		snapshotPath: snapshotPath,
		sourcePath:   sourcePath,
		logger:       logger.With("component", "engine"),
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
		e.ownsProvider = true
	}
	e.provider = provider

	memo, err := badger.NewMemoryImageRepositoryWithLogger(logger)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.memo = memo

	cacheOpts := []postcache.Option{
		postcache.WithLogger(logger),
		postcache.WithRetry(options.maxAttempts, options.retryDelay),
	}
	rankerOpts := []search.Option{
		search.WithLogger(logger),
		search.WithImageMemo(memo),
	}
	if options.poolSize > 0 {
		cacheOpts = append(cacheOpts, postcache.WithPoolSize(options.poolSize))
		rankerOpts = append(rankerOpts, search.WithPoolSize(options.poolSize))
	}
	if options.progress != nil {
		cacheOpts = append(cacheOpts, postcache.WithProgress(options.progress, options.progressInterval))
	}

	e.cache, err = postcache.NewCache(provider.TextEmbedder(), cacheOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.ranker, err = search.NewRanker(provider, rankerOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}

	if options.referenceSource != nil {
		e.matcher, err = reference.NewMatcher(provider.TextEmbedder(), options.referenceSource,
			reference.WithLogger(logger),
			reference.WithThreshold(options.referenceThreshold),
		)
		if err != nil {
			e.Close()
			return nil, err
		}
	}

	return e, nil
}

// Collection returns the post collection, loading or building it on first use.
// A failed load is not cached; the next call tries again.
func (e *Engine) Collection(ctx context.Context) (core.PostCollection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.posts != nil {
		return e.posts, nil
	}

	posts, err := e.cache.LoadOrBuild(ctx, e.snapshotPath, e.sourcePath)
	if err != nil {
		return nil, err
	}
	e.posts = posts
	return posts, nil
}

// Rebuild rebuilds the snapshot from the source even if a valid one exists,
// and serves the new collection from then on.
func (e *Engine) Rebuild(ctx context.Context) (core.PostCollection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	posts, err := e.cache.Build(ctx, e.snapshotPath, e.sourcePath)
	if err != nil {
		return nil, err
	}
	e.posts = posts
	return posts, nil
}

// Ask answers a question.
//
// Errors:
//   - core.ErrInvalidQuery: the question is blank
//   - core.ErrMissingSource, core.ErrMalformedDocument: the collection cannot be loaded
//   - core.ErrEmptyCorpus: no post to answer from
//   - core.ErrProvider: the question could not be embedded
func (e *Engine) Ask(ctx context.Context, query core.Query) (*core.Answer, error) {
	if err := core.ValidateQuery(&query); err != nil {
		return nil, err
	}

	logger := e.logger.With("request", uuid.NewString())
	logger.Info("answering question", "length", len(query.Question), "attachments", len(query.Attachments))

	posts, err := e.Collection(ctx)
	if err != nil {
		logger.Error("post collection unavailable", "err", err)
		return nil, err
	}

	qv, err := e.provider.TextEmbedder().EmbedText(ctx, query.Question)
	if err != nil {
		logger.Error("error generating embedding for question", "err", err)
		if !errors.Is(err, core.ErrProvider) {
			err = fmt.Errorf("%w: %w", core.ErrProvider, err)
		}
		return nil, err
	}

	queryImage := e.queryImage(ctx, logger, query.Attachments)

	results, err := e.ranker.RankVector(ctx, query.Question, qv, posts, queryImage)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no post matches", core.ErrEmptyCorpus)
	}

	var match *core.ReferenceMatch
	if e.matcher != nil {
		match, err = e.matcher.Match(ctx, qv)
		if err != nil {
			logger.Warn("reference matching failed", "err", err)
			match = nil
		}
	}

	answer := buildAnswer(results, match)
	logger.Info("answered question", "top_post", results[0].Post.PostNumber, "score", results[0].Score,
		"links", len(answer.Links), "reference", match != nil)
	return answer, nil
}

// queryImage returns the embedding of the first attachment that can be
// embedded, or nil.
func (e *Engine) queryImage(ctx context.Context, logger *slog.Logger, attachments []string) []float32 {
	for i, attachment := range attachments {
		img, err := ai.ImageFromAttachment(attachment)
		if err != nil {
			logger.Warn("ignoring attachment", "index", i, "err", err)
			continue
		}
		v, ok := e.provider.ImageEmbedder().EmbedImage(ctx, img)
		if !ok {
			logger.Warn("attachment could not be embedded", "index", i, "url", img.IsURL())
			continue
		}
		return v
	}
	return nil
}

// buildAnswer shapes ranked posts and an optional reference into an answer.
func buildAnswer(results []core.RankedResult, match *core.ReferenceMatch) *core.Answer {
	links := make([]core.Link, 0, len(results)+1)
	for _, r := range results {
		links = append(links, core.Link{URL: r.Post.PostURL, Text: r.Post.Content})
	}
	if match != nil {
		links = append(links, core.Link{URL: match.Document.OriginalURL, Text: match.Document.Title})
	}
	return &core.Answer{
		Answer: results[0].Post.Content,
		Links:  links,
	}
}

// Close releases the worker pools, the image memo and, unless it was
// supplied by the caller, the provider.
func (e *Engine) Close() error {
	if e.cache != nil {
		e.cache.Close()
	}
	if e.ranker != nil {
		e.ranker.Release()
	}

	var errs []error
	if e.memo != nil {
		if err := e.memo.Close(); err != nil {
			e.logger.Error("error closing image memo", "err", err)
			errs = append(errs, err)
		}
	}
	if e.ownsProvider && e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
