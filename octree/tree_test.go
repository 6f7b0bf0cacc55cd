package octree

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/broadphase/logging"
	"go.viam.com/broadphase/spatialmath"
	"go.viam.com/broadphase/testutils"
)

// clusterScene is six coincident boxes near (1.3, 1.3, 1.3) with two small corner boxes pinning
// the root to [-8, 8].
func clusterScene() testutils.SliceSource {
	scene := testutils.Cluster(r3.Vector{X: 1.3, Y: 1.3, Z: 1.3}, 0.2, 6)
	return append(scene,
		spatialmath.NewAABB(r3.Vector{X: -8, Y: -8, Z: -8}, r3.Vector{X: -7.9, Y: -7.9, Z: -7.9}),
		spatialmath.NewAABB(r3.Vector{X: 7.9, Y: 7.9, Z: 7.9}, r3.Vector{X: 8, Y: 8, Z: 8}),
	)
}

// octantScene is one unit box in every level one octant plus two extra boxes sharing octants 0
// and 6.
func octantScene() testutils.SliceSource {
	scene := testutils.SliceSource{}
	for _, offset := range spatialmath.OctantOffsets {
		scene = append(scene, spatialmath.NewAABBFromCenter(offset.Mul(4), r3.Vector{X: 1, Y: 1, Z: 1}))
	}
	small := r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}
	return append(scene,
		spatialmath.NewAABBFromCenter(r3.Vector{X: -4, Y: -4, Z: -4}, small),
		spatialmath.NewAABBFromCenter(r3.Vector{X: 4, Y: 4, Z: 4}, small),
	)
}

func TestBuild(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("nil source", func(t *testing.T) {
		_, err := Build(nil, nil, DefaultConfig(), logger)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := Build(testutils.SliceSource{}, nil, Config{MaxLevel: MaxSupportedLevel + 1}, logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "max_level")

		_, err = Build(testutils.SliceSource{}, nil, Config{MaxLevel: 2, IdealEntityCount: -1}, logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "ideal_entity_count")
	})

	t.Run("root encloses every object", func(t *testing.T) {
		tree, err := Build(clusterScene(), nil, DefaultConfig(), logger)
		test.That(t, err, test.ShouldBeNil)

		root := tree.Root()
		test.That(t, root.ID(), test.ShouldEqual, uint32(0))
		test.That(t, root.IsRoot(), test.ShouldBeTrue)
		test.That(t, root.IsLeaf(), test.ShouldBeTrue)
		test.That(t, root.Level(), test.ShouldEqual, uint32(0))
		test.That(t, root.Size(), test.ShouldAlmostEqual, 16)
		test.That(t, root.Center(), test.ShouldResemble, r3.Vector{})
		test.That(t, root.Min(), test.ShouldResemble, r3.Vector{X: -8, Y: -8, Z: -8})
		test.That(t, root.Max(), test.ShouldResemble, r3.Vector{X: 8, Y: 8, Z: 8})
		test.That(t, root.Root().ID(), test.ShouldEqual, uint32(0))
		_, ok := root.Parent()
		test.That(t, ok, test.ShouldBeFalse)
		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(1))
		test.That(t, tree.Leaves(), test.ShouldBeEmpty)
	})

	t.Run("root is a cube around a flat scene", func(t *testing.T) {
		scene := testutils.SliceSource{
			spatialmath.NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 10, Y: 2, Z: 0}),
		}
		tree, err := Build(scene, nil, DefaultConfig(), logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, tree.Root().Size(), test.ShouldAlmostEqual, 10)
		test.That(t, tree.Root().Center(), test.ShouldResemble, r3.Vector{X: 5, Y: 1, Z: 0})
	})

	t.Run("empty scene", func(t *testing.T) {
		tree, err := New(testutils.SliceSource{}, nil, DefaultConfig(), logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(1))
		test.That(t, tree.Root().Size(), test.ShouldEqual, 0.0)
		test.That(t, tree.Root().Center(), test.ShouldResemble, r3.Vector{})
		test.That(t, tree.Root().IsLeaf(), test.ShouldBeTrue)
		test.That(t, tree.Leaves(), test.ShouldBeEmpty)
		test.That(t, tree.CandidatePairs(), test.ShouldBeEmpty)
	})
}

func TestConstructTree(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("sparse scene stays a single leaf", func(t *testing.T) {
		scene := testutils.RandomScene(1, DefaultIdealEntityCount, 10, 1)
		sink := testutils.NewRecordingSink()
		tree, err := New(scene, sink, DefaultConfig(), logger)
		test.That(t, err, test.ShouldBeNil)

		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(1))
		test.That(t, tree.Root().IsLeaf(), test.ShouldBeTrue)
		test.That(t, tree.Root().Residents(), test.ShouldResemble, []int{0, 1, 2, 3, 4})
		test.That(t, len(tree.Leaves()), test.ShouldEqual, 1)
		for i := range scene {
			test.That(t, sink.Leaves(i), test.ShouldResemble, []uint32{0})
		}
	})

	t.Run("one object per octant", func(t *testing.T) {
		sink := testutils.NewRecordingSink()
		tree, err := New(octantScene(), sink, DefaultConfig(), logger)
		test.That(t, err, test.ShouldBeNil)

		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(9))
		test.That(t, tree.Root().NumChildren(), test.ShouldEqual, 8)
		test.That(t, len(tree.Leaves()), test.ShouldEqual, 8)

		for i := 0; i < 8; i++ {
			child, ok := tree.Root().Child(i)
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, child.ID(), test.ShouldEqual, uint32(i+1))
			test.That(t, child.Level(), test.ShouldEqual, uint32(1))
			test.That(t, child.IsLeaf(), test.ShouldBeTrue)
			test.That(t, child.Center(), test.ShouldResemble, spatialmath.OctantOffsets[i].Mul(2.25))
			test.That(t, sink.Leaves(i), test.ShouldResemble, []uint32{uint32(i + 1)})
		}
		test.That(t, sink.Leaves(8), test.ShouldResemble, []uint32{1})
		test.That(t, sink.Leaves(9), test.ShouldResemble, []uint32{7})
		test.That(t, tree.CandidatePairs(), test.ShouldResemble, [][2]int{{0, 8}, {6, 9}})
	})

	t.Run("dense cluster drives a single chain to max level", func(t *testing.T) {
		sink := testutils.NewRecordingSink()
		tree, err := New(clusterScene(), sink, DefaultConfig(), logger)
		test.That(t, err, test.ShouldBeNil)

		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(33))
		test.That(t, len(tree.Leaves()), test.ShouldEqual, 3)

		clusterLeaves := sink.Leaves(0)
		test.That(t, len(clusterLeaves), test.ShouldEqual, 1)
		leaf, ok := tree.FindByID(clusterLeaves[0])
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, leaf.Level(), test.ShouldEqual, uint32(DefaultMaxLevel))
		test.That(t, leaf.Size(), test.ShouldAlmostEqual, 1)
		test.That(t, leaf.Center(), test.ShouldResemble, r3.Vector{X: 1.5, Y: 1.5, Z: 1.5})
		test.That(t, leaf.Residents(), test.ShouldResemble, []int{0, 1, 2, 3, 4, 5})
		for i := 1; i < 6; i++ {
			test.That(t, sink.Leaves(i), test.ShouldResemble, clusterLeaves)
		}

		// walk back up to the root
		levels := []uint32{}
		for n, ok := leaf, true; ok; n, ok = n.Parent() {
			levels = append(levels, n.Level())
		}
		test.That(t, levels, test.ShouldResemble, []uint32{4, 3, 2, 1, 0})

		test.That(t, len(tree.CandidatePairs()), test.ShouldEqual, 15)
	})

	t.Run("coincident point objects are empty", func(t *testing.T) {
		scene := testutils.Cluster(r3.Vector{X: 3, Y: -2, Z: 1}, 0, 6)
		tree, err := New(scene, nil, Config{MaxLevel: 2, IdealEntityCount: 5}, logger)
		test.That(t, err, test.ShouldBeNil)

		test.That(t, tree.Root().Size(), test.ShouldEqual, 0.0)
		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(1))
		test.That(t, tree.Root().Residents(), test.ShouldBeEmpty)
		test.That(t, tree.CandidatePairs(), test.ShouldBeEmpty)
	})

	t.Run("coincident objects fill the tree", func(t *testing.T) {
		scene := testutils.Cluster(r3.Vector{X: 3, Y: -2, Z: 1}, 0.5, 6)
		tree, err := New(scene, nil, Config{MaxLevel: 2, IdealEntityCount: 5}, logger)
		test.That(t, err, test.ShouldBeNil)

		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(1+8+64))
		test.That(t, len(tree.Leaves()), test.ShouldEqual, 64)
		tree.ForEachLeaf(func(n Node) bool {
			test.That(t, n.Level(), test.ShouldEqual, uint32(2))
			test.That(t, len(n.Residents()), test.ShouldEqual, 6)
			return true
		})
	})

	t.Run("max level zero never subdivides", func(t *testing.T) {
		tree, err := New(clusterScene(), nil, Config{MaxLevel: 0, IdealEntityCount: 5}, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(1))
		test.That(t, len(tree.Root().Residents()), test.ShouldEqual, 8)
	})

	t.Run("ideal count zero subdivides every occupied octant", func(t *testing.T) {
		scene := testutils.SliceSource{
			spatialmath.NewAABBFromCenter(r3.Vector{X: -4, Y: -4, Z: -4}, r3.Vector{X: 1, Y: 1, Z: 1}),
			spatialmath.NewAABBFromCenter(r3.Vector{X: 4, Y: 4, Z: 4}, r3.Vector{X: 1, Y: 1, Z: 1}),
		}
		tree, err := New(scene, nil, Config{MaxLevel: 2, IdealEntityCount: 0}, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(1+8+8+8))
		tree.ForEachLeaf(func(n Node) bool {
			test.That(t, n.Level(), test.ShouldEqual, uint32(2))
			return true
		})
	})

	t.Run("depth is clamped", func(t *testing.T) {
		scene := testutils.Cluster(r3.Vector{}, 0, 2)
		observed, logs := logging.NewObservedTestLogger(t)
		tree, err := Build(scene, nil, Config{MaxLevel: 1, IdealEntityCount: 5}, observed)
		test.That(t, err, test.ShouldBeNil)
		tree.ConstructTree(MaxSupportedLevel + 10)
		test.That(t, tree.MaxLevel(), test.ShouldEqual, uint32(MaxSupportedLevel))
		test.That(t, logs.FilterMessage("clamping octree depth").Len(), test.ShouldEqual, 1)
		test.That(t, logs.FilterMessage("constructed octree").Len(), test.ShouldEqual, 1)
	})

	t.Run("only the root reconstructs", func(t *testing.T) {
		tree, err := New(clusterScene(), nil, DefaultConfig(), logger)
		test.That(t, err, test.ShouldBeNil)

		child, ok := tree.Root().Child(0)
		test.That(t, ok, test.ShouldBeTrue)
		child.ConstructTree(1)
		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(33))
		test.That(t, tree.MaxLevel(), test.ShouldEqual, uint32(DefaultMaxLevel))

		tree.Root().ConstructTree(1)
		test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(9))
		test.That(t, tree.MaxLevel(), test.ShouldEqual, uint32(1))
	})

	t.Run("sink is reset before every assignment", func(t *testing.T) {
		sink := testutils.NewRecordingSink()
		tree, err := New(octantScene(), sink, DefaultConfig(), logger)
		test.That(t, err, test.ShouldBeNil)
		tree.ConstructTree(DefaultMaxLevel)
		tree.ConstructTree(DefaultMaxLevel)
		test.That(t, sink.Resets, test.ShouldEqual, 3)
		test.That(t, sink.Leaves(8), test.ShouldResemble, []uint32{1})
	})
}

func TestKillBranches(t *testing.T) {
	tree, err := New(clusterScene(), nil, DefaultConfig(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, tree.killBranches(rootID), test.ShouldEqual, 32)
	test.That(t, len(tree.nodes), test.ShouldEqual, 1)
	test.That(t, tree.Root().IsLeaf(), test.ShouldBeTrue)
	test.That(t, tree.killBranches(rootID), test.ShouldEqual, 0)
}

func TestRebuild(t *testing.T) {
	logger := logging.NewTestLogger(t)
	scene := octantScene()
	sink := testutils.NewRecordingSink()
	tree, err := New(scene, sink, DefaultConfig(), logger)
	test.That(t, err, test.ShouldBeNil)

	// move the octant 6 box into octant 0 next to objects 0 and 8
	scene[6] = spatialmath.NewAABBFromCenter(r3.Vector{X: -4, Y: -4, Z: -4}, r3.Vector{X: 1, Y: 1, Z: 1})

	t.Run("construct keeps the root cube", func(t *testing.T) {
		tree.ConstructTree(DefaultMaxLevel)
		test.That(t, tree.Root().Size(), test.ShouldAlmostEqual, 9)
		test.That(t, tree.CandidatePairs(), test.ShouldResemble, [][2]int{{0, 6}, {0, 8}, {6, 8}})
		test.That(t, sink.Leaves(6), test.ShouldResemble, []uint32{1})
	})

	t.Run("rebuild recomputes the root cube", func(t *testing.T) {
		before := tree.Root().Center()
		scene[9] = spatialmath.NewAABBFromCenter(r3.Vector{X: 20, Y: 20, Z: 20}, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})
		tree.Rebuild()
		test.That(t, tree.Root().Center(), test.ShouldNotResemble, before)
		test.That(t, tree.MaxLevel(), test.ShouldEqual, uint32(DefaultMaxLevel))
		test.That(t, len(tree.nodes), test.ShouldEqual, int(tree.OctantCount()))
		pairs := tree.CandidatePairs()
		test.That(t, pairs, test.ShouldContain, [2]int{0, 6})
		test.That(t, pairs, test.ShouldContain, [2]int{0, 8})
		test.That(t, pairs, test.ShouldContain, [2]int{6, 8})
	})
}

func TestClone(t *testing.T) {
	tree, err := New(clusterScene(), nil, DefaultConfig(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	clone := tree.Clone()
	test.That(t, clone.OctantCount(), test.ShouldEqual, tree.OctantCount())
	test.That(t, clone.CandidatePairs(), test.ShouldResemble, tree.CandidatePairs())
	test.That(t, ComputeStats(clone), test.ShouldResemble, ComputeStats(tree))

	clone.ConstructTree(1)
	test.That(t, clone.OctantCount(), test.ShouldEqual, uint32(9))
	test.That(t, tree.OctantCount(), test.ShouldEqual, uint32(33))
	test.That(t, len(tree.Leaves()), test.ShouldEqual, 3)

	tree.ClearResidentLists()
	test.That(t, len(clone.Root().Residents()), test.ShouldEqual, 0)
	leaf, ok := clone.Root().Child(6)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, len(leaf.Residents()), test.ShouldEqual, 7)
}
