package reference

import (
	"context"
	"log/slog"

	"github.com/poiesic/forumqa/ai"
	"github.com/poiesic/forumqa/core"
)

// DefaultThreshold is the minimum title similarity for a reference match.
const DefaultThreshold = 0.50

// Matcher finds the reference document whose title best matches a question.
// Titles are embedded on every call.
type Matcher struct {
	embedder  ai.TextEmbedder
	source    Source
	threshold float64
	logger    *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithThreshold sets the minimum accepted score (inclusive).
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) error {
		if threshold < -1 || threshold > 1 {
			return ErrInvalidThreshold
		}
		m.threshold = threshold
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a matcher over the documents of source.
func NewMatcher(embedder ai.TextEmbedder, source Source, opts ...Option) (*Matcher, error) {
	if embedder == nil {
		return nil, ErrTextEmbedderRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}

	m := &Matcher{
		embedder:  embedder,
		source:    source,
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.logger = m.logger.With("component", "reference-matcher")

	return m, nil
}

// Threshold returns the minimum accepted score.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match returns the best matching document for the question embedding qv,
// or nil when no document scores at least the threshold. Documents without
// usable front matter and documents whose title cannot be embedded are
// skipped. An error is returned only when the source cannot be listed.
func (m *Matcher) Match(ctx context.Context, qv []float32) (*core.ReferenceMatch, error) {
	docs, err := m.source.Documents(ctx)
	if err != nil {
		return nil, err
	}

	var best *core.ReferenceMatch
	for _, doc := range docs {
		ref, err := ParseFrontMatter(doc.Content)
		if err != nil {
			m.logger.Debug("skipping reference document", "name", doc.Name, "err", err)
			continue
		}

		tv, err := m.embedder.EmbedText(ctx, ref.Title)
		if err != nil {
			m.logger.Warn("could not embed reference title", "name", doc.Name, "err", err)
			continue
		}

		score, err := core.CosineSimilarity(qv, tv)
		if err != nil {
			m.logger.Warn("could not score reference title", "name", doc.Name, "err", err)
			continue
		}

		// Strict comparison: the first of equal scores wins.
		if best == nil || score > best.Score {
			best = &core.ReferenceMatch{Document: ref, Score: score}
		}
	}

	if best == nil || best.Score < m.threshold {
		if best != nil {
			m.logger.Debug("best reference below threshold", "title", best.Document.Title, "score", best.Score)
		}
		return nil, nil
	}

	m.logger.Debug("matched reference", "title", best.Document.Title, "score", best.Score)
	return best, nil
}
