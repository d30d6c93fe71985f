package search

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/poiesic/forumqa/ai/mock"
	"github.com/poiesic/forumqa/core"
	badgerstore "github.com/poiesic/forumqa/storage/badger"
	"github.com/poiesic/forumqa/textextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unit returns the 2-d unit vector whose cosine with [1,0] is c.
func unit(c float64) []float32 {
	return []float32{float32(c), float32(math.Sqrt(1 - c*c))}
}

func post(number int, content string, text []float32, images ...string) *core.Post {
	return &core.Post{
		PostNumber:    number,
		Content:       content,
		PostURL:       "https://forum.example.com/t/1/" + string(rune('0'+number)),
		Images:        images,
		TextEmbedding: text,
	}
}

func numbers(results []core.RankedResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Post.PostNumber
	}
	return out
}

func newTestRanker(t *testing.T, text *mock.MockTextEmbedder, images *mock.MockImageEmbedder, opts ...Option) *Ranker {
	t.Helper()
	if text == nil {
		text = mock.NewMockTextEmbedder()
	}
	if images == nil {
		images = mock.NewMockImageEmbedder()
	}
	r, err := NewRanker(mock.NewMockProviderWithServices(text, images), opts...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r
}

var qv = []float32{1, 0}

func TestRankVector_TextOnlyTopThree(t *testing.T) {
	images := mock.NewMockImageEmbedder()
	r := newTestRanker(t, nil, images)

	posts := core.PostCollection{
		post(1, "one", unit(0.1), "https://x/1.png"),
		post(2, "two", unit(0.9)),
		post(3, "three", unit(0.5)),
		post(4, "four", unit(0.7)),
		post(5, "five", unit(0.3)),
	}

	results, err := r.RankVector(context.Background(), "unrelated question", qv, posts, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 4, 3}, numbers(results))
	assert.InDelta(t, 0.9, results[0].Score, 1e-6)
	assert.InDelta(t, 0.7, results[1].Score, 1e-6)
	assert.InDelta(t, 0.5, results[2].Score, 1e-6)
	assert.Equal(t, 0, images.CallCount(), "no image fetches without a query image")
}

func TestRankVector_SubstringBonus(t *testing.T) {
	r := newTestRanker(t, nil, nil)
	posts := core.PostCollection{
		post(1, "Some text. HOW DO I RESET MY PASSWORD? More text.", unit(0.2)),
		post(2, "how do i reset my", unit(0.3)),
	}

	results, err := r.RankVector(context.Background(), "How do I reset my password?", qv, posts, nil)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Post.PostNumber)
	assert.InDelta(t, 0.2+SubstringBonus, results[0].Score, 1e-6)
	assert.InDelta(t, 0.3, results[1].Score, 1e-6, "partial match earns no bonus")
}

func TestRank_BonusLiftsExactMatchEndToEnd(t *testing.T) {
	question := "printer offline"
	text := mock.NewMockTextEmbedder().WithVectors(map[string][]float32{question: {1, 0}})
	r := newTestRanker(t, text, nil)

	a := post(1, "my printer offline again", []float32{0.6, 0.8})
	b := post(2, "network troubles", []float32{0.8, 0.6})

	results, err := r.Rank(context.Background(), question, core.PostCollection{b, a}, nil)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Same(t, a, results[0].Post)
	assert.InDelta(t, 1.1, results[0].Score, 1e-6)
	assert.Same(t, b, results[1].Post)
	assert.InDelta(t, 0.8, results[1].Score, 1e-6)
}

func TestRankVector_ImageRefinement(t *testing.T) {
	images := mock.NewMockImageEmbedder().WithVectors(map[string][]float32{
		"https://x/p1-a.png": {0, 1},
		"https://x/p1-b.png": {1, 0},
		"https://x/p2.png":   {0, 1},
	})
	r := newTestRanker(t, nil, images)

	posts := core.PostCollection{
		post(1, "one", unit(0.6), "https://x/p1-a.png", "https://x/p1-b.png"),
		post(2, "two", unit(0.8), "https://x/p2.png"),
		post(3, "three", unit(0.7)),
	}

	results, err := r.RankVector(context.Background(), "q", qv, posts, []float32{1, 0})
	require.NoError(t, err)

	// Best matching image wins: (0.6 + 1) / 2
	assert.Equal(t, []int{1, 2, 3}, numbers(results))
	assert.InDelta(t, 0.8, results[0].Score, 1e-6)
	assert.InDelta(t, 0.4, results[1].Score, 1e-6)
	assert.InDelta(t, 0.35, results[2].Score, 1e-6, "no images scores exactly 0.0")
}

func TestRankVector_FailingImageIsContained(t *testing.T) {
	images := mock.NewMockImageEmbedder().WithVectors(map[string][]float32{
		"https://x/good.png": {1, 0},
	})
	r := newTestRanker(t, nil, images)

	posts := core.PostCollection{
		post(1, "one", unit(0.5), "https://x/broken.png", "https://x/good.png"),
		post(2, "two", unit(0.9), "https://x/broken.png"),
	}

	results, err := r.RankVector(context.Background(), "q", qv, posts, []float32{1, 0})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Post.PostNumber)
	assert.InDelta(t, 0.75, results[0].Score, 1e-6)
	assert.InDelta(t, 0.45, results[1].Score, 1e-6)
}

func TestRankVector_UnmatchedImageDegradesToTextOrder(t *testing.T) {
	images := mock.NewMockImageEmbedder().WithVectors(map[string][]float32{
		"https://x/a.png": {1, 0},
		"https://x/b.png": {1, 0},
	})
	r := newTestRanker(t, nil, images)

	posts := core.PostCollection{
		post(1, "one", unit(0.4), "https://x/a.png"),
		post(2, "two", unit(0.9)),
		post(3, "three", unit(0.6), "https://x/b.png"),
		post(4, "four", unit(0.8)),
	}

	textOnly, err := r.RankVector(context.Background(), "q", qv, posts, nil)
	require.NoError(t, err)

	// Orthogonal to every post image: all image scores are 0.0.
	withImage, err := r.RankVector(context.Background(), "q", qv, posts, []float32{0, 1})
	require.NoError(t, err)

	assert.Equal(t, numbers(textOnly), numbers(withImage))
	for i := range withImage {
		assert.InDelta(t, textOnly[i].Score/2, withImage[i].Score, 1e-6)
	}
}

func TestRankVector_StoredImageEmbeddingsSkipFetch(t *testing.T) {
	images := mock.NewMockImageEmbedder()
	r := newTestRanker(t, nil, images)

	p := post(1, "one", unit(0.5), "https://x/a.png")
	p.ImageEmbeddings = [][]float32{{0, 1}, {1, 0}}

	results, err := r.RankVector(context.Background(), "q", qv, core.PostCollection{p}, []float32{1, 0})
	require.NoError(t, err)

	assert.InDelta(t, 0.75, results[0].Score, 1e-6)
	assert.Equal(t, 0, images.CallCount())
}

func TestRankVector_OnlyCandidatesFetchImages(t *testing.T) {
	images := mock.NewMockImageEmbedder()
	r := newTestRanker(t, nil, images, WithCandidateCount(2), WithResultCount(1))

	posts := core.PostCollection{
		post(1, "one", unit(0.9), "https://x/1.png"),
		post(2, "two", unit(0.8), "https://x/2.png"),
		post(3, "q", unit(0.1), "https://x/3.png"),
	}

	results, err := r.RankVector(context.Background(), "q", qv, posts, []float32{1, 0})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 0, images.CallsFor("https://x/3.png"), "post outside the candidate set is never fetched")
	assert.Equal(t, 1, images.CallsFor("https://x/1.png"))
	assert.Equal(t, 1, images.CallsFor("https://x/2.png"))
	assert.NotEqual(t, 3, results[0].Post.PostNumber, "bonus cannot revive a post outside the candidates")
}

func TestRankVector_MemoAvoidsRepeatFetches(t *testing.T) {
	memo, err := badgerstore.NewMemoryImageRepository()
	require.NoError(t, err)
	defer memo.Close()

	images := mock.NewMockImageEmbedder()
	r := newTestRanker(t, nil, images, WithImageMemo(memo))

	posts := core.PostCollection{post(1, "one", unit(0.5), "https://x/a.png", "https://x/b.png")}

	first, err := r.RankVector(context.Background(), "q", qv, posts, []float32{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, images.CallCount())

	second, err := r.RankVector(context.Background(), "q", qv, posts, []float32{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, images.CallCount(), "second ranking is served from the memo")
	assert.InDelta(t, first[0].Score, second[0].Score, 1e-9)
}

func TestRankVector_FailedImagesAreNotMemoized(t *testing.T) {
	memo, err := badgerstore.NewMemoryImageRepository()
	require.NoError(t, err)
	defer memo.Close()

	images := mock.NewMockImageEmbedder().WithVectors(map[string][]float32{})
	r := newTestRanker(t, nil, images, WithImageMemo(memo))
	posts := core.PostCollection{post(1, "one", unit(0.5), "https://x/a.png")}

	for i := 0; i < 2; i++ {
		_, err := r.RankVector(context.Background(), "q", qv, posts, []float32{1, 0})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, images.CallsFor("https://x/a.png"))
}

func TestRankVector_EdgeCases(t *testing.T) {
	r := newTestRanker(t, nil, nil)
	ctx := context.Background()

	t.Run("empty collection", func(t *testing.T) {
		results, err := r.RankVector(ctx, "q", qv, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("fewer posts than results", func(t *testing.T) {
		results, err := r.RankVector(ctx, "q", qv, core.PostCollection{post(1, "one", unit(0.5))}, nil)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("ties keep collection order", func(t *testing.T) {
		posts := core.PostCollection{
			post(1, "one", unit(0.5)),
			post(2, "two", unit(0.5)),
			post(3, "three", unit(0.5)),
			post(4, "four", unit(0.5)),
		}
		results, err := r.RankVector(ctx, "q", qv, posts, nil)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, numbers(results))
	})

	t.Run("unusable post embedding is skipped", func(t *testing.T) {
		posts := core.PostCollection{
			post(1, "one", []float32{0, 0}),
			post(2, "two", []float32{1, 0, 0}),
			post(3, "three", unit(0.5)),
		}
		results, err := r.RankVector(ctx, "q", qv, posts, nil)
		require.NoError(t, err)
		assert.Equal(t, []int{3}, numbers(results))
	})

	t.Run("zero question vector", func(t *testing.T) {
		_, err := r.RankVector(ctx, "q", []float32{0, 0}, core.PostCollection{post(1, "one", unit(0.5))}, nil)
		assert.ErrorIs(t, err, core.ErrProvider)
		assert.ErrorIs(t, err, core.ErrZeroMagnitude)
	})

	t.Run("zero query image is ignored", func(t *testing.T) {
		results, err := r.RankVector(ctx, "q", qv, core.PostCollection{post(1, "one", unit(0.5))}, []float32{0, 0})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, results[0].Score, 1e-6)
	})
}

func TestRank_QuestionEmbeddingFailure(t *testing.T) {
	text := mock.NewMockTextEmbedder().WithEmbedTextFunc(func(context.Context, string) ([]float32, error) {
		return nil, errors.New("connection refused")
	})
	r := newTestRanker(t, text, nil)

	_, err := r.Rank(context.Background(), "q", core.PostCollection{post(1, "one", unit(0.5))}, nil)
	assert.ErrorIs(t, err, core.ErrProvider)
}

func TestRank_BlankQuestion(t *testing.T) {
	text := mock.NewMockTextEmbedder()
	r := newTestRanker(t, text, nil)

	_, err := r.Rank(context.Background(), "  ", nil, nil)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
	assert.Equal(t, 0, text.CallCount())
}

func TestNewRanker_Errors(t *testing.T) {
	_, err := NewRanker(nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewRanker(mock.NewMockProvider(), WithCandidateCount(0))
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = NewRanker(mock.NewMockProvider(), WithResultCount(-1))
	assert.ErrorIs(t, err, ErrInvalidCount)
}

type recordingMonitor struct {
	mu         sync.Mutex
	question   string
	candidates int
	imageHits  int
	boosted    []int
	finished   []int
}

func (m *recordingMonitor) Start(q string) { m.question = q }
func (m *recordingMonitor) AfterTextScoring(c []core.RankedResult) {
	m.candidates = len(c)
}
func (m *recordingMonitor) ImageScored(_ *core.Post, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageHits++
}
func (m *recordingMonitor) SubstringBoosted(p *core.Post) { m.boosted = append(m.boosted, p.PostNumber) }
func (m *recordingMonitor) Finish(r []core.RankedResult)  { m.finished = numbers(r) }

func TestRankVectorWithMonitor(t *testing.T) {
	r := newTestRanker(t, nil, nil, WithCandidateCount(3))
	monitor := &recordingMonitor{}

	posts := core.PostCollection{
		post(1, "one", unit(0.9), "https://x/1.png"),
		post(2, "reset password here", unit(0.2)),
		post(3, "three", unit(0.5)),
		post(4, "four", unit(0.1)),
	}

	_, err := r.RankVectorWithMonitor(context.Background(), "reset password", qv, posts, []float32{1, 0}, monitor)
	require.NoError(t, err)

	assert.Equal(t, "reset password", monitor.question)
	assert.Equal(t, 3, monitor.candidates)
	assert.Equal(t, 3, monitor.imageHits)
	assert.Equal(t, []int{2}, monitor.boosted)
	assert.Equal(t, []int{2, 1, 3}, monitor.finished)
}

func TestContainsQuestion(t *testing.T) {
	assert.True(t, containsQuestion("Hello World", "hello"))
	assert.True(t, containsQuestion("abc", "ABC"))
	assert.False(t, containsQuestion("abc", "abcd"))
	assert.False(t, containsQuestion("abc", ""))
	assert.False(t, containsQuestion("abc", "   "))
	assert.True(t, containsQuestion("my printer\nis offline", "printer is"))
	assert.True(t, containsQuestion("foo\nbar", "foo  bar"))
	assert.False(t, containsQuestion("foobar", "foo bar"))
}

func TestRankVector_BonusAcrossParagraphs(t *testing.T) {
	extracted := textextract.New().Extract("<p>Printer keeps</p><p>going offline</p>")
	require.Equal(t, "Printer keeps\ngoing offline", extracted)

	posts := core.PostCollection{
		post(1, "unrelated", unit(1)),
		post(2, extracted, unit(0.6)),
	}
	r := newTestRanker(t, nil, nil)

	results, err := r.RankVector(context.Background(), "printer keeps going offline", qv, posts, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, numbers(results))
	assert.InDelta(t, 0.6+SubstringBonus, results[0].Score, 1e-6)
}
