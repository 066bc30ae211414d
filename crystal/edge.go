package crystal

import (
	"cmp"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Edge is a directed similarity relation between two vector indices.
type Edge struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Score  float32 `json:"score"`
}

func compareEdges(a, b Edge) int {
	if c := cmp.Compare(a.Source, b.Source); c != 0 {
		return c
	}
	return cmp.Compare(a.Target, b.Target)
}

// Sort orders edges in place by (Source, Target).
func Sort(edges []Edge) {
	slices.SortFunc(edges, compareEdges)
}

// Canonicalize returns a new slice in which every edge has Source < Target,
// sorted by (Source, Target), with duplicate pairs collapsed to the highest
// score. The input is not modified.
func Canonicalize(edges []Edge) []Edge {
	if len(edges) == 0 {
		return nil
	}
	out := make([]Edge, len(edges))
	for i, e := range edges {
		if e.Source > e.Target {
			e.Source, e.Target = e.Target, e.Source
		}
		out[i] = e
	}
	Sort(out)

	w := 0
	for _, e := range out {
		if w > 0 && compareEdges(out[w-1], e) == 0 {
			if e.Score > out[w-1].Score {
				out[w-1].Score = e.Score
			}
			continue
		}
		out[w] = e
		w++
	}
	return out[:w]
}

// Participants returns the set of indices that appear in any edge.
func Participants(edges []Edge) *roaring.Bitmap {
	bm := roaring.New()
	for _, e := range edges {
		bm.Add(uint32(e.Source))
		bm.Add(uint32(e.Target))
	}
	return bm
}
