package hnsw

import (
	"context"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/invariant-sdk/kernel/distance"
	"github.com/invariant-sdk/kernel/internal/searcher"
)

const (
	// layerNormalizationBase is the base constant for exponential layer probability distribution.
	layerNormalizationBase = 1.0

	// mmax0Multiplier is the multiplier for calculating maximum connections at layer 0.
	mmax0Multiplier = 2

	// minimumM is the minimum valid value for M.
	minimumM = 2

	// DefaultM is the default number of bidirectional links.
	DefaultM = 16

	// DefaultEF is the default size of the dynamic candidate list.
	DefaultEF = 200

	// DefaultMaxLayers caps the height of the graph.
	DefaultMaxLayers = 16

	// emptyEntry marks a graph without entry point.
	emptyEntry = math.MaxUint64
)

// Options represents the options for configuring HNSW.
type Options struct {
	// Dimension of every inserted vector.
	Dimension int

	// Capacity is the number of node slots. Valid IDs are [0, Capacity).
	Capacity int

	M         int
	EF        int
	MaxLayers int
	Heuristic bool

	RandomSeed *int64
}

// DefaultOptions contains the default options for HNSW.
var DefaultOptions = Options{
	M:         DefaultM,
	EF:        DefaultEF,
	MaxLayers: DefaultMaxLayers,
	Heuristic: true,
}

// HNSW represents the Hierarchical Navigable Small World graph.
type HNSW struct {
	opts Options

	distanceFunc func(a, b []float32) float32

	// vectors[id] is written once before nodes[id] is published.
	vectors [][]float32
	nodes   []atomic.Pointer[node]

	// entry packs maxLevel<<32 | entryPointID so both are read together.
	entry atomic.Uint64
	count atomic.Int64

	maxConnectionsPerLayer int
	maxConnectionsLayer0   int
	layerMultiplier        float64
	rngSeed                atomic.Uint64

	scratchPool *sync.Pool
}

type scratch struct {
	links               []Neighbor
	connections         []Neighbor
	heuristicCandidates []searcher.PriorityQueueItem
	heuristicResult     []searcher.PriorityQueueItem
	heuristicResultVecs [][]float32
}

// New creates a new HNSW instance.
func New(optFns ...func(o *Options)) (*HNSW, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: opts.Dimension}
	}
	if opts.Capacity < 0 {
		opts.Capacity = 0
	}
	if opts.M < minimumM {
		opts.M = minimumM
	}
	if opts.EF <= 0 {
		opts.EF = DefaultEF
	}
	if opts.MaxLayers <= 0 {
		opts.MaxLayers = 1
	}

	var rngSeed uint64
	if opts.RandomSeed != nil {
		rngSeed = uint64(*opts.RandomSeed)
	} else {
		rngSeed = uint64(time.Now().UnixNano())
	}

	h := &HNSW{
		opts:                   opts,
		distanceFunc:           distance.CosineNormalized,
		vectors:                make([][]float32, opts.Capacity),
		nodes:                  make([]atomic.Pointer[node], opts.Capacity),
		maxConnectionsPerLayer: opts.M,
		maxConnectionsLayer0:   mmax0Multiplier * opts.M,
		layerMultiplier:        layerNormalizationBase / math.Log(float64(opts.M)),
	}
	h.entry.Store(emptyEntry)
	h.rngSeed.Store(rngSeed)
	h.initPools()

	return h, nil
}

func (h *HNSW) initPools() {
	maxConns := max(h.maxConnectionsPerLayer, h.maxConnectionsLayer0)

	h.scratchPool = &sync.Pool{
		New: func() any {
			return &scratch{
				links:               make([]Neighbor, 0, maxConns),
				connections:         make([]Neighbor, 0, maxConns+1),
				heuristicCandidates: make([]searcher.PriorityQueueItem, 0, h.opts.EF),
				heuristicResult:     make([]searcher.PriorityQueueItem, 0, maxConns),
				heuristicResultVecs: make([][]float32, 0, maxConns),
			}
		},
	}
}

// VectorCount returns the number of inserted vectors.
func (h *HNSW) VectorCount() int { return int(h.count.Load()) }

func packEntry(id uint32, level int) uint64 {
	return uint64(uint32(level))<<32 | uint64(id)
}

func unpackEntry(v uint64) (uint32, int) {
	return uint32(v), int(int32(uint32(v >> 32)))
}

// Insert adds v to the graph under the caller-chosen id.
// It is safe to call Insert concurrently for distinct IDs.
func (h *HNSW) Insert(ctx context.Context, id uint32, v []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if int(id) >= len(h.nodes) {
		return &ErrIDOutOfRange{ID: id, Capacity: len(h.nodes)}
	}

	vec, err := h.prepareVector(v)
	if err != nil {
		return err
	}

	if h.nodes[id].Load() != nil {
		return ErrDuplicateID
	}

	level := h.determineLayer()
	n := newNode(level, h.maxConnectionsPerLayer, h.maxConnectionsLayer0)

	h.vectors[id] = vec
	if !h.nodes[id].CompareAndSwap(nil, n) {
		return ErrDuplicateID
	}

	for {
		cur := h.entry.Load()
		if cur == emptyEntry {
			if h.entry.CompareAndSwap(emptyEntry, packEntry(id, level)) {
				h.count.Add(1)
				return nil
			}
			continue
		}

		epID, epLevel := unpackEntry(cur)
		h.insertNode(id, n, vec, epID, epLevel)
		break
	}

	h.count.Add(1)
	h.updateEntryPoint(id, level)
	return nil
}

func (h *HNSW) prepareVector(v []float32) ([]float32, error) {
	if len(v) == 0 {
		return nil, ErrEmptyVector
	}
	if len(v) != h.opts.Dimension {
		return nil, &ErrDimensionMismatch{Expected: h.opts.Dimension, Actual: len(v)}
	}

	vec := slices.Clone(v)
	// Zero vectors stay zero; their cosine distance to anything is 1.
	distance.NormalizeL2InPlace(vec)
	return vec, nil
}

func (h *HNSW) determineLayer() int {
	// Lock-free RNG using xorshift64*.
	seed := h.rngSeed.Add(0x9E3779B97F4A7C15)
	seed ^= seed >> 12
	seed ^= seed << 25
	seed ^= seed >> 27
	r := float64(seed*0x2545F4914F6CDD1D>>11) / float64(1<<53)
	if r == 0 {
		r = math.SmallestNonzeroFloat64
	}
	level := int(math.Floor(-math.Log(r) * h.layerMultiplier))
	return min(level, h.opts.MaxLayers-1)
}

func (h *HNSW) updateEntryPoint(id uint32, level int) {
	for {
		cur := h.entry.Load()
		_, curLevel := unpackEntry(cur)
		if level <= curLevel {
			return
		}
		if h.entry.CompareAndSwap(cur, packEntry(id, level)) {
			return
		}
	}
}

// insertNode performs the graph traversal and linking.
func (h *HNSW) insertNode(id uint32, n *node, vec []float32, epID uint32, epLevel int) {
	distFunc := func(other uint32) float32 {
		return h.distanceFunc(vec, h.vectors[other])
	}

	currID := epID
	currDist := distFunc(currID)

	s := searcher.Get()
	defer searcher.Put(s)
	s.Visited.EnsureCapacity(len(h.nodes))

	// 1. Greedy search from the top down to level+1.
	for level := epLevel; level > n.level; level-- {
		currID, currDist = h.greedyStep(currID, currDist, level, distFunc)
	}

	sc := h.scratchPool.Get().(*scratch)
	defer h.scratchPool.Put(sc)

	// 2. Search and link from min(level, epLevel) down to 0.
	for level := min(n.level, epLevel); level >= 0; level-- {
		h.searchLayer(s, currID, currDist, level, h.opts.EF, int64(id), distFunc)
		candidates := s.Candidates

		if best, ok := candidates.MinItem(); ok {
			currID = best.Node
			currDist = best.Distance
		}

		maxConns := h.maxConnectionsPerLayer
		if level == 0 {
			maxConns = h.maxConnectionsLayer0
		}

		neighbors := h.selectNeighbors(candidates, maxConns, sc)

		// links must survive addConnection, which reuses the other buffers.
		conns := sc.links[:0]
		for _, nb := range neighbors {
			conns = append(conns, Neighbor{ID: nb.Node, Dist: nb.Distance})
		}
		sc.links = conns

		n.mu.Lock()
		n.setConnectionsLocked(level, conns)
		n.mu.Unlock()

		for _, nb := range conns {
			h.addConnection(s, sc, nb.ID, id, level, nb.Dist)
		}
	}
}

func (h *HNSW) greedyStep(currID uint32, currDist float32, level int, distFunc func(uint32) float32) (uint32, float32) {
	changed := true
	for changed {
		changed = false
		cur := h.nodes[currID].Load()
		if cur == nil {
			break
		}
		cur.visit(level, func(next Neighbor) {
			nextDist := distFunc(next.ID)
			if nextDist < currDist {
				currID = next.ID
				currDist = nextDist
				changed = true
			}
		})
	}
	return currID, currDist
}

// addConnection links targetID into sourceID's neighbor list on level,
// pruning with the neighbor-selection rule once the list is full.
func (h *HNSW) addConnection(s *searcher.Searcher, sc *scratch, sourceID, targetID uint32, level int, dist float32) {
	src := h.nodes[sourceID].Load()
	if src == nil || level > src.level {
		return
	}

	src.mu.Lock()
	defer src.mu.Unlock()

	if src.hasConnectionLocked(level, targetID) {
		return
	}

	maxM := h.maxConnectionsPerLayer
	if level == 0 {
		maxM = h.maxConnectionsLayer0
	}

	conns := src.friends[level]
	if len(conns) < maxM {
		src.friends[level] = append(conns, Neighbor{ID: targetID, Dist: dist})
		return
	}

	candidates := s.ScratchCandidates
	candidates.Reset()
	for _, c := range conns {
		candidates.PushItem(searcher.PriorityQueueItem{Node: c.ID, Distance: c.Dist})
	}
	candidates.PushItem(searcher.PriorityQueueItem{Node: targetID, Distance: dist})

	// selectNeighbors expects a max-heap; rebuild from the min-heap contents.
	pruneQueue := s.Candidates
	pruneQueue.Reset()
	for candidates.Len() > 0 {
		item, _ := candidates.PopItem()
		pruneQueue.PushItem(item)
	}

	selected := h.selectNeighbors(pruneQueue, maxM, sc)

	final := sc.connections[:0]
	for _, nb := range selected {
		final = append(final, Neighbor{ID: nb.Node, Dist: nb.Distance})
	}
	sc.connections = final
	src.setConnectionsLocked(level, final)
}

// selectNeighbors selects the best neighbors from candidates (a max-heap).
func (h *HNSW) selectNeighbors(candidates *searcher.PriorityQueue, m int, sc *scratch) []searcher.PriorityQueueItem {
	sorted := candidates.DrainAscending(sc.heuristicCandidates[:0])
	sc.heuristicCandidates = sorted

	if !h.opts.Heuristic || len(sorted) <= m {
		res := append(sc.heuristicResult[:0], sorted[:min(m, len(sorted))]...)
		sc.heuristicResult = res
		return res
	}

	result := h.applyHeuristic(sorted, m, sc)
	if len(result) < m {
		result = h.fillUpNeighbors(result, sorted, m)
		sc.heuristicResult = result
	}
	return result
}

func (h *HNSW) applyHeuristic(candidates []searcher.PriorityQueueItem, m int, sc *scratch) []searcher.PriorityQueueItem {
	result := sc.heuristicResult[:0]
	resultVecs := sc.heuristicResultVecs[:0]

	for _, cand := range candidates {
		if len(result) >= m {
			break
		}

		// Keep the candidate only if it is closer to the source than to any
		// already selected neighbor (relative neighborhood graph property).
		candVec := h.vectors[cand.Node]
		good := true
		for _, resVec := range resultVecs {
			if h.distanceFunc(candVec, resVec) < cand.Distance {
				good = false
				break
			}
		}

		if good {
			result = append(result, cand)
			resultVecs = append(resultVecs, candVec)
		}
	}

	sc.heuristicResult = result
	sc.heuristicResultVecs = resultVecs

	return result
}

func (h *HNSW) fillUpNeighbors(result, candidates []searcher.PriorityQueueItem, m int) []searcher.PriorityQueueItem {
	for _, cand := range candidates {
		if len(result) >= m {
			break
		}
		found := false
		for _, r := range result {
			if r.Node == cand.Node {
				found = true
				break
			}
		}
		if !found {
			result = append(result, cand)
		}
	}
	return result
}

// searchLayer runs the ef-bounded best-first search on one layer.
// Results are left in s.Candidates (max-heap). A non-negative skip is
// excluded from results and expansion (the node being inserted).
func (h *HNSW) searchLayer(s *searcher.Searcher, epID uint32, epDist float32, level, ef int, skip int64, distFunc func(uint32) float32) {
	s.Visited.Reset()
	s.ScratchCandidates.Reset()
	s.Candidates.Reset()

	s.Visited.Visit(epID)
	if skip >= 0 {
		s.Visited.Visit(uint32(skip))
	}
	s.ScratchCandidates.PushItem(searcher.PriorityQueueItem{Node: epID, Distance: epDist})
	if int64(epID) != skip {
		s.Candidates.PushItem(searcher.PriorityQueueItem{Node: epID, Distance: epDist})
	}

	candidates := s.ScratchCandidates
	results := s.Candidates
	visited := s.Visited

	for candidates.Len() > 0 {
		curr, _ := candidates.PopItem()

		if results.Len() >= ef {
			worst, _ := results.TopItem()
			if curr.Distance > worst.Distance {
				break
			}
		}

		cur := h.nodes[curr.Node].Load()
		if cur == nil {
			continue
		}

		cur.visit(level, func(next Neighbor) {
			if visited.Visited(next.ID) {
				return
			}
			visited.Visit(next.ID)

			nextDist := distFunc(next.ID)

			if results.Len() >= ef {
				worst, _ := results.TopItem()
				if nextDist > worst.Distance {
					return
				}
			}

			candidates.PushItem(searcher.PriorityQueueItem{Node: next.ID, Distance: nextDist})
			results.PushItemBounded(searcher.PriorityQueueItem{Node: next.ID, Distance: nextDist}, ef)
		})
	}
}

// KNNSearch returns up to k nearest neighbors of q ordered by increasing
// distance. efSearch <= 0 falls back to the construction EF.
func (h *HNSW) KNNSearch(ctx context.Context, q []float32, k, efSearch int) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if len(q) != h.opts.Dimension {
		return nil, &ErrDimensionMismatch{Expected: h.opts.Dimension, Actual: len(q)}
	}

	cur := h.entry.Load()
	if cur == emptyEntry {
		return nil, nil
	}
	epID, epLevel := unpackEntry(cur)

	s := searcher.Get()
	defer searcher.Put(s)
	s.Visited.EnsureCapacity(len(h.nodes))

	s.ScratchVec = append(s.ScratchVec[:0], q...)
	distance.NormalizeL2InPlace(s.ScratchVec)
	query := s.ScratchVec

	distFunc := func(id uint32) float32 {
		return h.distanceFunc(query, h.vectors[id])
	}

	currID := epID
	currDist := distFunc(currID)
	for level := epLevel; level > 0; level-- {
		currID, currDist = h.greedyStep(currID, currDist, level, distFunc)
	}

	ef := efSearch
	if ef <= 0 {
		ef = h.opts.EF
	}
	ef = max(ef, k)

	h.searchLayer(s, currID, currDist, 0, ef, -1, distFunc)

	sorted := s.Candidates.DrainAscending(s.ScratchResults[:0])
	s.ScratchResults = sorted

	n := min(k, len(sorted))
	res := make([]SearchResult, n)
	for i := 0; i < n; i++ {
		res[i] = SearchResult{ID: sorted[i].Node, Distance: sorted[i].Distance}
	}
	return res, nil
}
