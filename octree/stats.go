package octree

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the shape of a constructed tree.
type Stats struct {
	Octants        int
	Leaves         int
	OccupiedLeaves int
	MaxDepth       uint32
	// Assignments counts (object, leaf) pairs, so objects straddling octant boundaries are counted
	// once per leaf.
	Assignments     int
	MeanResidents   float64
	StdDevResidents float64
}

// ComputeStats walks the tree and returns its octant counts and the distribution of residents over
// occupied leaves.
func ComputeStats(t *Tree) Stats {
	var s Stats
	t.ForEachNode(func(n Node) bool {
		s.Octants++
		if n.Level() > s.MaxDepth {
			s.MaxDepth = n.Level()
		}
		if n.IsLeaf() {
			s.Leaves++
		}
		return true
	})

	residents := make([]float64, 0, len(t.leaves))
	for _, id := range t.leaves {
		count := len(t.nodes[id].residents)
		s.Assignments += count
		residents = append(residents, float64(count))
	}
	s.OccupiedLeaves = len(residents)

	switch len(residents) {
	case 0:
	case 1:
		s.MeanResidents = residents[0]
	default:
		s.MeanResidents, s.StdDevResidents = stat.MeanStdDev(residents, nil)
	}
	return s
}

// String returns a one line summary of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("octants=%d leaves=%d occupied=%d depth=%d assignments=%d residents=%.2f±%.2f",
		s.Octants, s.Leaves, s.OccupiedLeaves, s.MaxDepth, s.Assignments, s.MeanResidents, s.StdDevResidents)
}
