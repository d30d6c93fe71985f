package search

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/forumqa/ai"
	"github.com/poiesic/forumqa/core"
	"github.com/poiesic/forumqa/storage"
)

const (
	// DefaultCandidateCount is how many posts survive text scoring.
	DefaultCandidateCount = 10

	// DefaultResultCount is how many posts are returned.
	DefaultResultCount = 3

	// SubstringBonus is added to posts containing the question verbatim.
	SubstringBonus = 0.5
)

// Ranker ranks posts against a question by text and optional image similarity.
type Ranker struct {
	textEmbedder   ai.TextEmbedder
	imageEmbedder  ai.ImageEmbedder
	memo           storage.ImageEmbeddingRepository
	pool           *ants.Pool
	candidateCount int
	resultCount    int
	logger         *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithCandidateCount sets how many posts are kept after text scoring.
func WithCandidateCount(n int) Option {
	return func(r *Ranker) error {
		if n < 1 {
			return fmt.Errorf("candidate %w", ErrInvalidCount)
		}
		r.candidateCount = n
		return nil
	}
}

// WithResultCount sets how many posts are returned.
func WithResultCount(n int) Option {
	return func(r *Ranker) error {
		if n < 1 {
			return fmt.Errorf("result %w", ErrInvalidCount)
		}
		r.resultCount = n
		return nil
	}
}

// WithPoolSize sets how many image embeddings are fetched concurrently.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Ranker) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithImageMemo remembers post image embeddings across requests.
// The ranker does not close the memo.
func WithImageMemo(memo storage.ImageEmbeddingRepository) Option {
	return func(r *Ranker) error {
		r.memo = memo
		return nil
	}
}

// NewRanker creates a new ranker.
func NewRanker(provider ai.AIProvider, opts ...Option) (*Ranker, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Ranker{
		textEmbedder:   provider.TextEmbedder(),
		imageEmbedder:  provider.ImageEmbedder(),
		pool:           pool,
		candidateCount: DefaultCandidateCount,
		resultCount:    DefaultResultCount,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Release()
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "ranker")

	return r, nil
}

// Release releases the worker pool.
// The ranker should not be used after calling Release.
func (r *Ranker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Rank embeds the question and ranks posts against it.
// queryImage is the embedding of the question's image, or nil when there is none.
// A failure to embed the question is returned wrapped in core.ErrProvider.
func (r *Ranker) Rank(ctx context.Context, question string, posts core.PostCollection, queryImage []float32) ([]core.RankedResult, error) {
	if err := core.ValidateQuery(&core.Query{Question: question}); err != nil {
		return nil, err
	}

	qv, err := r.textEmbedder.EmbedText(ctx, question)
	if err != nil {
		r.logger.Error("error generating embedding for question", "err", err)
		if errors.Is(err, core.ErrProvider) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrProvider, err)
	}

	return r.RankVector(ctx, question, qv, posts, queryImage)
}

// RankVector ranks posts against an already embedded question.
func (r *Ranker) RankVector(ctx context.Context, question string, qv []float32, posts core.PostCollection, queryImage []float32) ([]core.RankedResult, error) {
	return r.RankVectorWithMonitor(ctx, question, qv, posts, queryImage, nil)
}

// RankVectorWithMonitor ranks posts with monitoring.
// The monitor receives callbacks at each stage of the ranking process.
func (r *Ranker) RankVectorWithMonitor(ctx context.Context, question string, qv []float32, posts core.PostCollection, queryImage []float32, monitor RankMonitor) ([]core.RankedResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(question)

	if core.Magnitude(qv) == 0 {
		return nil, fmt.Errorf("%w: question vector: %w", core.ErrProvider, core.ErrZeroMagnitude)
	}

	// 1. Text scoring over the whole collection
	scored := make([]core.RankedResult, 0, len(posts))
	for _, post := range posts {
		score, err := core.CosineSimilarity(qv, post.TextEmbedding)
		if err != nil {
			r.logger.Warn("skipping post with unusable text embedding", "post", post.PostNumber, "err", err)
			continue
		}
		scored = append(scored, core.RankedResult{Score: score, Post: post})
	}
	sortByScore(scored)

	candidates := scored[:min(r.candidateCount, len(scored))]
	monitor.AfterTextScoring(slices.Clone(candidates))

	// 2. Optional image refinement
	if len(queryImage) > 0 && core.Magnitude(queryImage) == 0 {
		r.logger.Warn("ignoring zero-magnitude query image embedding")
		queryImage = nil
	}
	if len(queryImage) > 0 {
		imageScores := r.scoreImages(ctx, queryImage, candidates)
		for i := range candidates {
			monitor.ImageScored(candidates[i].Post, imageScores[i])
			candidates[i].Score = (candidates[i].Score + imageScores[i]) / 2
		}
	}

	// 3. Verbatim bonus
	for i := range candidates {
		if containsQuestion(candidates[i].Post.Content, question) {
			candidates[i].Score += SubstringBonus
			monitor.SubstringBoosted(candidates[i].Post)
		}
	}

	sortByScore(candidates)
	results := slices.Clone(candidates[:min(r.resultCount, len(candidates))])
	monitor.Finish(results)

	r.logger.Debug("ranked posts", "posts", len(posts), "candidates", len(candidates), "results", len(results),
		"image", len(queryImage) > 0)

	return results, nil
}

// sortByScore sorts results by descending score, keeping the order of equal scores.
func sortByScore(results []core.RankedResult) {
	slices.SortStableFunc(results, func(a, b core.RankedResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
}

// scoreImages returns each candidate's best image similarity to queryImage,
// 0.0 for candidates without any usable image vector.
func (r *Ranker) scoreImages(ctx context.Context, queryImage []float32, candidates []core.RankedResult) []float64 {
	vectors := make([][][]float32, len(candidates))
	var wg sync.WaitGroup

	for i, c := range candidates {
		if len(c.Post.ImageEmbeddings) > 0 {
			vectors[i] = c.Post.ImageEmbeddings
			continue
		}

		vectors[i] = make([][]float32, len(c.Post.Images))
		for j, url := range c.Post.Images {
			wg.Add(1)
			err := r.pool.Submit(func() {
				defer wg.Done()
				vectors[i][j] = r.postImageEmbedding(ctx, url)
			})
			if err != nil {
				wg.Done()
				r.logger.Warn("could not schedule image embedding", "url", url, "err", err)
			}
		}
	}
	wg.Wait()

	scores := make([]float64, len(candidates))
	for i := range candidates {
		best, found := 0.0, false
		for _, v := range vectors[i] {
			if len(v) == 0 {
				continue
			}
			s, err := core.CosineSimilarity(queryImage, v)
			if err != nil {
				r.logger.Debug("unusable image embedding", "post", candidates[i].Post.PostNumber, "err", err)
				continue
			}
			if !found || s > best {
				best, found = s, true
			}
		}
		scores[i] = best
	}
	return scores
}

// postImageEmbedding returns the embedding of a post image, or nil.
func (r *Ranker) postImageEmbedding(ctx context.Context, url string) []float32 {
	if r.memo != nil {
		v, err := r.memo.GetImageEmbedding(ctx, url)
		if err == nil {
			return v
		}
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("image memo lookup failed", "url", url, "err", err)
		}
	}

	v, ok := r.imageEmbedder.EmbedImage(ctx, ai.ImageFromURL(url))
	if !ok {
		return nil
	}

	if r.memo != nil {
		if err := r.memo.PutImageEmbedding(ctx, url, v); err != nil {
			r.logger.Warn("could not memoize image embedding", "url", url, "err", err)
		}
	}
	return v
}
