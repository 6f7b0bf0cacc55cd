package octree

import (
	"slices"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/broadphase/logging"
	"go.viam.com/broadphase/spatialmath"
)

// Tree is a bounded-depth octree over the objects of an ObjectSource. Nodes are kept in an arena
// owned by the tree; the tree-scoped settings (max level, density threshold, octant count) live on
// the Tree so separate trees never interfere.
//
// A Tree is not safe for concurrent use. Queries are only meaningful after ConstructTree returns.
type Tree struct {
	logger logging.Logger
	source ObjectSource
	sink   AssignmentSink

	maxLevel         uint32
	idealEntityCount int
	octantCount      uint32

	nodes  []node
	leaves []uint32
}

// Build computes the root cube over every object in source and returns a tree whose root is an
// unbuilt level 0 leaf. The root cube is centered on the union of all object boxes with an edge of
// twice the union's largest half extent. With no objects the root is a zero size cube at the
// origin. A nil sink discards memberships.
func Build(source ObjectSource, sink AssignmentSink, cfg Config, logger logging.Logger) (*Tree, error) {
	if source == nil {
		return nil, errors.New("octree requires an object source")
	}
	if err := cfg.Validate("octree"); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = discardSink{}
	}
	if logger == nil {
		logger = logging.NewBlankLogger("octree")
	}

	t := &Tree{
		logger:           logger,
		source:           source,
		sink:             sink,
		maxLevel:         cfg.MaxLevel,
		idealEntityCount: cfg.IdealEntityCount,
	}
	t.resetRoot()
	return t, nil
}

// New builds the root over source and constructs the full tree to cfg.MaxLevel.
func New(source ObjectSource, sink AssignmentSink, cfg Config, logger logging.Logger) (*Tree, error) {
	t, err := Build(source, sink, cfg, logger)
	if err != nil {
		return nil, err
	}
	t.ConstructTree(cfg.MaxLevel)
	return t, nil
}

func (t *Tree) resetRoot() {
	boxes := make([]spatialmath.AABB, 0, t.source.Count())
	for i := 0; i < t.source.Count(); i++ {
		boxes = append(boxes, spatialmath.NewAABB(t.source.Bounds(i)))
	}
	root := newNode(rootID, spatialmath.BoundingCube(spatialmath.Union(boxes...)))
	root.root = rootID

	t.nodes = []node{root}
	t.leaves = nil
	t.octantCount = 1
}

// ConstructTree discards the current subtree and rebuilds it to maxLevel: residents are cleared,
// branches are released, the root is subdivided while it is too dense, objects are assigned to the
// leaves they overlap and the leaf list is rebuilt. The root cube is kept; use Rebuild when objects
// may have left it.
func (t *Tree) ConstructTree(maxLevel uint32) {
	t.constructTree(maxLevel)
}

func (t *Tree) constructTree(maxLevel uint32) {
	start := time.Now()
	if maxLevel > MaxSupportedLevel {
		t.logger.Warnw("clamping octree depth", "requested", maxLevel, "max", MaxSupportedLevel)
		maxLevel = MaxSupportedLevel
	}

	t.maxLevel = maxLevel
	t.octantCount = 1

	t.clearResidentLists(rootID)

	released := t.killBranches(rootID)
	t.leaves = t.leaves[:0]

	if t.containsMoreThan(rootID, t.idealEntityCount) {
		t.subdivide(rootID)
	}

	if resetter, ok := t.sink.(MembershipResetter); ok {
		resetter.ResetMemberships()
	}
	t.assign(rootID)
	t.buildLeafList(rootID)

	instrumentConstruct(time.Since(start), t.octantCount)
	t.logger.Debugw("constructed octree",
		"octants", t.octantCount,
		"leaves", len(t.leaves),
		"released", released,
		"max_level", t.maxLevel,
		"objects", t.source.Count())
}

// Rebuild recomputes the root cube from the current objects and constructs the tree again with
// the current max level.
func (t *Tree) Rebuild() {
	t.killBranches(rootID)
	t.resetRoot()
	t.constructTree(t.maxLevel)
}

// Root returns the root octant.
func (t *Tree) Root() Node {
	return Node{tree: t, id: rootID}
}

// OctantCount returns the number of octants in the tree, which is also the next id to assign.
func (t *Tree) OctantCount() uint32 {
	return t.octantCount
}

// MaxLevel returns the depth the tree was last constructed to.
func (t *Tree) MaxLevel() uint32 {
	return t.maxLevel
}

// IdealEntityCount returns the density threshold above which an octant is subdivided.
func (t *Tree) IdealEntityCount() int {
	return t.idealEntityCount
}

// Leaves returns every leaf with at least one resident, in post-order.
func (t *Tree) Leaves() []Node {
	out := make([]Node, 0, len(t.leaves))
	for _, id := range t.leaves {
		out = append(out, Node{tree: t, id: id})
	}
	return out
}

// ClearResidentLists empties every octant's resident list without changing the structure.
func (t *Tree) ClearResidentLists() {
	t.clearResidentLists(rootID)
}

// Clone returns a deep copy of the tree. The copy shares the object source, sink and logger but
// none of the octants, so reconstructing either tree leaves the other untouched.
func (t *Tree) Clone() *Tree {
	nodes := make([]node, len(t.nodes))
	for i, nd := range t.nodes {
		nd.residents = slices.Clone(nd.residents)
		nodes[i] = nd
	}
	return &Tree{
		logger:           t.logger,
		source:           t.source,
		sink:             t.sink,
		maxLevel:         t.maxLevel,
		idealEntityCount: t.idealEntityCount,
		octantCount:      t.octantCount,
		nodes:            nodes,
		leaves:           slices.Clone(t.leaves),
	}
}
