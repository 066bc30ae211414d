package hnsw

import "sync"

// node holds the adjacency lists of one graph element.
//
// friends[l] is the neighbor list on layer l; len(friends) == level+1.
// All access to friends goes through mu.
type node struct {
	level   int
	mu      sync.RWMutex
	friends [][]Neighbor
}

func newNode(level, maxConnectionsPerLayer, maxConnectionsLayer0 int) *node {
	n := &node{
		level:   level,
		friends: make([][]Neighbor, level+1),
	}
	n.friends[0] = make([]Neighbor, 0, maxConnectionsLayer0)
	for l := 1; l <= level; l++ {
		n.friends[l] = make([]Neighbor, 0, maxConnectionsPerLayer)
	}
	return n
}

// visit calls fn for every neighbor on layer while holding the read lock.
func (n *node) visit(layer int, fn func(Neighbor)) {
	if layer > n.level {
		return
	}
	n.mu.RLock()
	for _, c := range n.friends[layer] {
		fn(c)
	}
	n.mu.RUnlock()
}

// setConnections replaces the neighbor list on layer. Caller must hold mu.
func (n *node) setConnectionsLocked(layer int, conns []Neighbor) {
	n.friends[layer] = append(n.friends[layer][:0], conns...)
}

// hasConnectionLocked reports whether id is already linked on layer. Caller must hold mu.
func (n *node) hasConnectionLocked(layer int, id uint32) bool {
	for _, c := range n.friends[layer] {
		if c.ID == id {
			return true
		}
	}
	return false
}
