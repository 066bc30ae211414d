package hnsw

// LevelStats describes one layer of the graph.
type LevelStats struct {
	Level int
	// Nodes counts nodes whose top layer is Level.
	Nodes          int
	Connections    int
	AvgConnections int
}

// Stats summarizes the graph shape.
type Stats struct {
	Nodes    int
	MaxLevel int
	Levels   []LevelStats
}

// Stats walks every node and reports per-layer counts. MaxLevel is -1 for an
// empty graph.
func (h *HNSW) Stats() Stats {
	maxLevel := -1
	if cur := h.entry.Load(); cur != emptyEntry {
		_, maxLevel = unpackEntry(cur)
	}

	levels := make([]LevelStats, maxLevel+1)
	linked := make([]int, maxLevel+1)
	for i := range levels {
		levels[i].Level = i
	}

	for i := range h.nodes {
		n := h.nodes[i].Load()
		if n == nil {
			continue
		}
		if n.level < len(levels) {
			levels[n.level].Nodes++
		}

		n.mu.RLock()
		for l := min(n.level, maxLevel); l >= 0; l-- {
			if count := len(n.friends[l]); count > 0 {
				levels[l].Connections += count
				linked[l]++
			}
		}
		n.mu.RUnlock()
	}

	for i := range levels {
		if linked[i] > 0 {
			levels[i].AvgConnections = levels[i].Connections / linked[i]
		}
	}

	return Stats{Nodes: h.VectorCount(), MaxLevel: maxLevel, Levels: levels}
}

// LevelNodes returns the node count per top layer, lowest first.
func (s Stats) LevelNodes() []int {
	out := make([]int, len(s.Levels))
	for i, l := range s.Levels {
		out[i] = l.Nodes
	}
	return out
}
