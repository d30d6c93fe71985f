package search

import "github.com/poiesic/forumqa/core"

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps and results during ranking.
type RankMonitor interface {
	Start(question string)
	AfterTextScoring(candidates []core.RankedResult)
	ImageScored(post *core.Post, score float64)
	SubstringBoosted(post *core.Post)
	Finish(results []core.RankedResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterTextScoring(_ []core.RankedResult) {}
func (n *noopMonitor) ImageScored(_ *core.Post, _ float64)    {}
func (n *noopMonitor) SubstringBoosted(_ *core.Post)          {}
func (n *noopMonitor) Finish(_ []core.RankedResult)           {}
