package octree

import (
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r3"

	"go.viam.com/broadphase/spatialmath"
)

const (
	rootID = uint32(0)
	noNode = uint32(math.MaxUint32)
)

// node is one octant stored in the tree's arena. Children, parent and root are arena ids and a
// node's id is always its index in the arena.
type node struct {
	id    uint32
	cube  spatialmath.Cube
	min   r3.Vector
	max   r3.Vector
	level uint32

	children    [8]uint32
	numChildren int

	parent uint32
	root   uint32

	residents []int
}

func newNode(id uint32, cube spatialmath.Cube) node {
	n := node{
		id:     id,
		cube:   cube,
		min:    cube.Min(),
		max:    cube.Max(),
		parent: noNode,
		root:   noNode,
	}
	for i := range n.children {
		n.children[i] = noNode
	}
	return n
}

func (n *node) isLeaf() bool {
	return n.numChildren == 0
}

func (n *node) aabb() spatialmath.AABB {
	return spatialmath.NewAABB(n.min, n.max)
}

// Node is a handle to one octant of a Tree. Handles stay valid until the tree is reconstructed;
// the zero Node refers to no octant. Methods on an invalid handle return zero values and "none"
// results, and ConstructTree is a no-op.
type Node struct {
	tree *Tree
	id   uint32
}

// Valid reports whether the handle refers to an octant of a live tree.
func (n Node) Valid() bool {
	return n.tree != nil && int(n.id) < len(n.tree.nodes)
}

// get returns the arena slot, or a detached leaf with no parent when the handle is invalid.
func (n Node) get() *node {
	if !n.Valid() {
		nd := newNode(noNode, spatialmath.Cube{})
		return &nd
	}
	return &n.tree.nodes[n.id]
}

// ID returns the octant's id. Ids are assigned sequentially at construction and the root is 0.
func (n Node) ID() uint32 {
	return n.id
}

// Center returns the center of the octant's cube.
func (n Node) Center() r3.Vector {
	return n.get().cube.Center
}

// Size returns the edge length of the octant's cube.
func (n Node) Size() float64 {
	return n.get().cube.Size
}

// Min returns the minimum corner of the octant.
func (n Node) Min() r3.Vector {
	return n.get().min
}

// Max returns the maximum corner of the octant.
func (n Node) Max() r3.Vector {
	return n.get().max
}

// Cube returns the region covered by the octant.
func (n Node) Cube() spatialmath.Cube {
	return n.get().cube
}

// Level returns the depth of the octant; the root is level 0.
func (n Node) Level() uint32 {
	return n.get().level
}

// IsLeaf reports whether the octant has no children.
func (n Node) IsLeaf() bool {
	return n.get().isLeaf()
}

// NumChildren returns 0 for a leaf and 8 for an internal octant.
func (n Node) NumChildren() int {
	return n.get().numChildren
}

// Child returns the i-th child in the fixed octant layout. The second return is false for a leaf
// or when i is outside [0, 7].
func (n Node) Child(i int) (Node, bool) {
	nd := n.get()
	if i < 0 || i >= nd.numChildren {
		return Node{}, false
	}
	return Node{tree: n.tree, id: nd.children[i]}, true
}

// Parent returns the octant's parent. The root has none.
func (n Node) Parent() (Node, bool) {
	parent := n.get().parent
	if parent == noNode {
		return Node{}, false
	}
	return Node{tree: n.tree, id: parent}, true
}

// Root returns the root of the tree this octant belongs to.
func (n Node) Root() Node {
	return Node{tree: n.tree, id: n.get().root}
}

// IsRoot reports whether this octant is the root of its tree.
func (n Node) IsRoot() bool {
	return n.Valid() && n.get().parent == noNode
}

// Residents returns the indices of the objects assigned to this octant. Only leaves hold
// residents.
func (n Node) Residents() []int {
	return slices.Clone(n.get().residents)
}

// Overlaps reports whether the object at objectIndex overlaps the octant. Out of range indices
// never overlap.
func (n Node) Overlaps(objectIndex int) bool {
	if !n.Valid() {
		return false
	}
	return n.tree.overlaps(n.id, objectIndex)
}

// ContainsMoreThan reports whether strictly more than threshold objects overlap the octant.
func (n Node) ContainsMoreThan(threshold int) bool {
	if !n.Valid() {
		return false
	}
	return n.tree.containsMoreThan(n.id, threshold)
}

// ConstructTree rebuilds the whole tree to maxLevel. It is a no-op unless called on the root.
func (n Node) ConstructTree(maxLevel uint32) {
	if !n.IsRoot() {
		return
	}
	n.tree.constructTree(maxLevel)
}

// Find searches this octant's subtree depth first for the octant with the given id.
func (n Node) Find(id uint32) (Node, bool) {
	if !n.Valid() {
		return Node{}, false
	}
	found := noNode
	n.tree.walk(n.id, func(nd *node) bool {
		if nd.id == id {
			found = nd.id
			return false
		}
		return true
	})
	if found == noNode {
		return Node{}, false
	}
	return Node{tree: n.tree, id: found}, true
}

// Walk visits this octant and its descendants in pre-order until fn returns false.
func (n Node) Walk(fn func(Node) bool) {
	if !n.Valid() {
		return
	}
	n.tree.walk(n.id, func(nd *node) bool {
		return fn(Node{tree: n.tree, id: nd.id})
	})
}

// String returns a human readable string that represents the octant.
func (n Node) String() string {
	if !n.Valid() {
		return "octant <none>"
	}
	nd := n.get()
	return fmt.Sprintf("octant %d | level %d | %v | children %d | residents %d",
		nd.id, nd.level, nd.cube, nd.numChildren, len(nd.residents))
}
