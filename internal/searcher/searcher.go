package searcher

import "sync"

// Searcher is a reusable execution context for graph search.
// It owns the scratch memory a single traversal needs.
//
// Searcher is NOT thread-safe. It is intended to be owned by a single goroutine
// during a search operation.
type Searcher struct {
	// Visited tracks visited nodes during graph traversal.
	Visited *VisitedSet

	// Candidates is a max-heap holding the best ef results found so far.
	Candidates *PriorityQueue

	// ScratchCandidates is a min-heap of nodes still to explore.
	ScratchCandidates *PriorityQueue

	// ScratchVec is a reusable buffer for query normalization.
	ScratchVec []float32

	// ScratchResults is a reusable buffer for draining Candidates.
	ScratchResults []PriorityQueueItem
}

var searcherPool = sync.Pool{
	New: func() any {
		return NewSearcher(1024, 128)
	},
}

// NewSearcher creates a new searcher with the given initial capacities.
func NewSearcher(visitedCap, queueCap int) *Searcher {
	return &Searcher{
		Visited:           NewVisitedSet(visitedCap),
		Candidates:        NewPriorityQueue(true),
		ScratchCandidates: NewPriorityQueue(false),
		ScratchResults:    make([]PriorityQueueItem, 0, queueCap),
	}
}

// Get returns a Searcher from the pool.
func Get() *Searcher {
	s := searcherPool.Get().(*Searcher)
	s.Reset()
	return s
}

// Put returns a Searcher to the pool.
func Put(s *Searcher) {
	searcherPool.Put(s)
}

// Reset clears the searcher state for reuse.
func (s *Searcher) Reset() {
	s.Visited.Reset()
	s.Candidates.Reset()
	s.ScratchCandidates.Reset()
	s.ScratchResults = s.ScratchResults[:0]
}
