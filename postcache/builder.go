package postcache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/poiesic/forumqa/core"
)

// outcome is the result of processing one raw post.
type outcome struct {
	post *core.Post
	err  error
}

// build processes raws concurrently on the pool. Survivors keep source order.
func (c *Cache) build(ctx context.Context, raws []json.RawMessage) (core.PostCollection, error) {
	c.logger.Info("building post collection", "posts", len(raws))

	var tracker *ProgressTracker
	if c.progress != nil {
		tracker = NewProgressTracker(c.progress, len(raws), c.progressInterval)
		tracker.Start()
	}

	results := make([]outcome, len(raws))
	var wg sync.WaitGroup
	for i, raw := range raws {
		wg.Add(1)
		err := c.pool.Submit(func() {
			defer wg.Done()
			results[i] = c.processPost(ctx, raw)
			if tracker != nil {
				tracker.Done(results[i].err == nil)
			}
		})
		if err != nil {
			wg.Done()
			results[i] = outcome{err: fmt.Errorf("submit: %w", err)}
		}
	}
	wg.Wait()

	if tracker != nil {
		tracker.Finish()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	posts := make(core.PostCollection, 0, len(raws))
	for i, res := range results {
		if res.err != nil {
			c.logger.Warn("skipping post", "index", i, "err", res.err)
			continue
		}
		posts = append(posts, res.post)
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("%w: none of %d posts could be embedded", core.ErrEmptyCorpus, len(raws))
	}

	return posts, nil
}

// processPost turns one raw post into an embedded post.
func (c *Cache) processPost(ctx context.Context, data json.RawMessage) outcome {
	raw, err := decodeRawPost(data)
	if err != nil {
		return outcome{err: err}
	}

	content := c.extractor.Extract(*raw.Cooked)
	if strings.TrimSpace(content) == "" {
		return outcome{err: fmt.Errorf("post %d: %w", *raw.PostNumber, ErrNoText)}
	}

	var vector []float32
	err = RetryWithBackoff(ctx, func() error {
		v, embedErr := c.embedder.EmbedText(ctx, content)
		if embedErr != nil {
			return embedErr
		}
		if core.Magnitude(v) == 0 {
			return Permanent(fmt.Errorf("%w: %w", core.ErrProvider, core.ErrZeroMagnitude))
		}
		vector = v
		return nil
	}, c.maxAttempts, c.retryDelay)
	if err != nil {
		return outcome{err: fmt.Errorf("post %d: embed: %w", *raw.PostNumber, err)}
	}

	images := raw.Images
	if images == nil {
		images = []string{}
	}

	post := &core.Post{
		PostNumber:      *raw.PostNumber,
		CreatedAt:       *raw.CreatedAt,
		Content:         content,
		Images:          images,
		PostURL:         *raw.PostURL,
		TextEmbedding:   vector,
		ImageEmbeddings: [][]float32{},
	}
	if err := core.ValidatePost(post); err != nil {
		return outcome{err: err}
	}

	return outcome{post: post}
}
