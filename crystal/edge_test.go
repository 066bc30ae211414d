package crystal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	edges := []Edge{{2, 1, 0.5}, {0, 3, 0.1}, {0, 1, 0.9}, {2, 0, 0.7}}
	Sort(edges)
	assert.Equal(t, []Edge{{0, 1, 0.9}, {0, 3, 0.1}, {2, 0, 0.7}, {2, 1, 0.5}}, edges)
}

func TestCanonicalize(t *testing.T) {
	in := []Edge{{1, 0, 0.8}, {0, 1, 0.9}, {3, 2, 0.6}, {0, 2, 0.7}, {2, 3, 0.5}}
	orig := append([]Edge(nil), in...)

	got := Canonicalize(in)
	assert.Equal(t, []Edge{{0, 1, 0.9}, {0, 2, 0.7}, {2, 3, 0.6}}, got)
	assert.Equal(t, orig, in)

	assert.Nil(t, Canonicalize(nil))
}

func TestParticipants(t *testing.T) {
	bm := Participants([]Edge{{0, 5, 1}, {5, 9, 1}})
	assert.Equal(t, []uint32{0, 5, 9}, bm.ToArray())
	assert.True(t, Participants(nil).IsEmpty())
}
