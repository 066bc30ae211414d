// Package blocktree builds a block-level Merkle tree over canonical tokens.
//
// Leaves hash one normalized token each; parents pair adjacent nodes level by
// level. A trailing odd node is lifted through a unary node so every level
// keeps leaf order. All hashing uses BLAKE2b-256 over a length-prefixed,
// tag-separated encoding, which keeps leaf, unary and binary hashes in
// disjoint domains.
package blocktree

import (
	"encoding/binary"
	"errors"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/invariant-sdk/kernel/identity"
)

// Tag identifies the node kind.
type Tag string

const (
	TagLeaf  Tag = "leaf"
	TagDyad1 Tag = "dyad1"
	TagDyad2 Tag = "dyad2"
)

// anchorPrefix marks a word-initial token in the anchor address space.
const anchorPrefix = "Ġ"

// ErrForeignNode is returned when a node does not belong to the tree.
var ErrForeignNode = errors.New("blocktree: node does not belong to tree")

// Hash is a BLAKE2b-256 digest.
type Hash [blake2b.Size256]byte

// Node is a tree node. Spans are inclusive leaf indices.
type Node struct {
	Hash      Hash
	Tag       Tag
	Level     int
	StartLeaf int
	EndLeaf   int

	Left  *Node
	Right *Node

	// Leaf only.
	Token    string
	AnchorID string

	parent *Node
}

// SpanSize is the number of leaves under n.
func (n *Node) SpanSize() int {
	return n.EndLeaf - n.StartLeaf + 1
}

// Tree is an immutable block Merkle tree.
type Tree struct {
	Root   *Node
	Leaves []*Node
	levels [][]*Node
}

// Encode returns tag || (uint32 BE len || child)*.
func Encode(tag Tag, children ...[]byte) []byte {
	size := len(tag)
	for _, c := range children {
		size += 4 + len(c)
	}
	out := make([]byte, 0, size)
	out = append(out, tag...)
	for _, c := range children {
		out = binary.BigEndian.AppendUint32(out, uint32(len(c)))
		out = append(out, c...)
	}
	return out
}

func sum(tag Tag, children ...[]byte) Hash {
	return blake2b.Sum256(Encode(tag, children...))
}

// Build constructs the tree for tokens. Each token passes through normalize
// first; a nil normalize lowercases. An empty token list yields a tree whose
// root is the hash of an empty leaf and which has no leaves.
func Build(tokens []string, normalize func(string) string) *Tree {
	if len(tokens) == 0 {
		root := &Node{Hash: sum(TagLeaf, nil), Tag: TagLeaf, StartLeaf: 0, EndLeaf: -1}
		return &Tree{Root: root, levels: [][]*Node{{root}}}
	}
	if normalize == nil {
		normalize = strings.ToLower
	}

	leaves := make([]*Node, len(tokens))
	for i, tok := range tokens {
		tok = normalize(tok)
		leaves[i] = &Node{
			Hash:      sum(TagLeaf, []byte(tok)),
			Tag:       TagLeaf,
			StartLeaf: i,
			EndLeaf:   i,
			Token:     tok,
			AnchorID:  identity.Hash16Hex([]byte(anchorPrefix + tok))[:16],
		}
	}

	levels := [][]*Node{leaves}
	current := leaves
	for level := 1; len(current) > 1; level++ {
		next := make([]*Node, 0, (len(current)+1)/2)
		for j := 0; j < len(current); j += 2 {
			var p *Node
			if j+1 < len(current) {
				l, r := current[j], current[j+1]
				p = &Node{
					Hash:      sum(TagDyad2, l.Hash[:], r.Hash[:]),
					Tag:       TagDyad2,
					Level:     level,
					StartLeaf: l.StartLeaf,
					EndLeaf:   r.EndLeaf,
					Left:      l,
					Right:     r,
				}
				l.parent, r.parent = p, p
			} else {
				c := current[j]
				p = &Node{
					Hash:      sum(TagDyad1, c.Hash[:]),
					Tag:       TagDyad1,
					Level:     level,
					StartLeaf: c.StartLeaf,
					EndLeaf:   c.EndLeaf,
					Left:      c,
				}
				c.parent = p
			}
			next = append(next, p)
		}
		levels = append(levels, next)
		current = next
	}

	return &Tree{Root: current[0], Leaves: leaves, levels: levels}
}

// Height is the number of levels above the leaves.
func (t *Tree) Height() int {
	return len(t.levels) - 1
}

// NodesAtLevel returns the nodes of level l ordered by StartLeaf, or nil.
func (t *Tree) NodesAtLevel(l int) []*Node {
	if l < 0 || l >= len(t.levels) {
		return nil
	}
	return append([]*Node(nil), t.levels[l]...)
}

// AllNodes returns every node ordered by level, then StartLeaf.
func (t *Tree) AllNodes() []*Node {
	var out []*Node
	for _, lvl := range t.levels {
		out = append(out, lvl...)
	}
	return out
}

// LeavesUnder returns the normalized tokens spanned by n.
func (t *Tree) LeavesUnder(n *Node) []string {
	if n.EndLeaf < n.StartLeaf {
		return nil
	}
	out := make([]string, 0, n.SpanSize())
	for i := n.StartLeaf; i <= n.EndLeaf; i++ {
		out = append(out, t.Leaves[i].Token)
	}
	return out
}

// ProofStep is one hop from a node towards the root. For TagDyad1 steps
// SiblingRight and Sibling are unused.
type ProofStep struct {
	Tag          Tag
	SiblingRight bool
	Sibling      Hash
}

// Proof returns the inclusion path from n to the root. The root's proof is empty.
func (t *Tree) Proof(n *Node) ([]ProofStep, error) {
	if !t.owns(n) {
		return nil, ErrForeignNode
	}
	var steps []ProofStep
	for cur := n; cur.parent != nil; cur = cur.parent {
		p := cur.parent
		switch {
		case p.Tag == TagDyad1:
			steps = append(steps, ProofStep{Tag: TagDyad1})
		case p.Left == cur:
			steps = append(steps, ProofStep{Tag: TagDyad2, SiblingRight: true, Sibling: p.Right.Hash})
		default:
			steps = append(steps, ProofStep{Tag: TagDyad2, Sibling: p.Left.Hash})
		}
	}
	return steps, nil
}

func (t *Tree) owns(n *Node) bool {
	if n == nil || n.Level < 0 || n.Level >= len(t.levels) {
		return false
	}
	for _, m := range t.levels[n.Level] {
		if m == n {
			return true
		}
	}
	return false
}

// Verify reports whether applying proof to h yields root.
func Verify(h Hash, proof []ProofStep, root Hash) bool {
	cur := h
	for _, s := range proof {
		switch s.Tag {
		case TagDyad1:
			cur = sum(TagDyad1, cur[:])
		case TagDyad2:
			if s.SiblingRight {
				cur = sum(TagDyad2, cur[:], s.Sibling[:])
			} else {
				cur = sum(TagDyad2, s.Sibling[:], cur[:])
			}
		default:
			return false
		}
	}
	return cur == root
}
