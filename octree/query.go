package octree

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"go.viam.com/broadphase/spatialmath"
)

// CandidatePairs returns every unordered pair of objects that share at least one leaf, as sorted
// (lower, higher) index pairs. These are the broad-phase candidates a narrow-phase test should
// examine; objects in disjoint leaves can never touch.
func (t *Tree) CandidatePairs() [][2]int {
	seen := make(map[[2]int]struct{})
	for _, id := range t.leaves {
		residents := t.nodes[id].residents
		for a := 0; a < len(residents); a++ {
			for b := a + 1; b < len(residents); b++ {
				seen[orderedPair(residents[a], residents[b])] = struct{}{}
			}
		}
	}

	pairs := lo.Keys(seen)
	slices.SortFunc(pairs, func(x, y [2]int) int {
		if c := cmp.Compare(x[0], y[0]); c != 0 {
			return c
		}
		return cmp.Compare(x[1], y[1])
	})
	return pairs
}

func orderedPair(a, b int) [2]int {
	if a > b {
		return [2]int{b, a}
	}
	return [2]int{a, b}
}

// Query returns the sorted indices of the objects that overlap box. Only octants overlapping box
// are descended into, and each candidate resident is checked against its own bounds.
func (t *Tree) Query(box spatialmath.AABB) []int {
	seen := make(map[int]struct{})
	t.query(rootID, box, seen)
	out := lo.Keys(seen)
	slices.Sort(out)
	return out
}

func (t *Tree) query(id uint32, box spatialmath.AABB, seen map[int]struct{}) {
	nd := &t.nodes[id]
	if !nd.aabb().Overlaps(box) {
		return
	}
	if !nd.isLeaf() {
		for i := 0; i < nd.numChildren; i++ {
			t.query(nd.children[i], box, seen)
		}
		return
	}
	for _, objectIndex := range nd.residents {
		if _, ok := seen[objectIndex]; ok {
			continue
		}
		if objectIndex < t.source.Count() && spatialmath.NewAABB(t.source.Bounds(objectIndex)).Overlaps(box) {
			seen[objectIndex] = struct{}{}
		}
	}
}
