package octree

import (
	"fmt"

	"go.viam.com/broadphase/spatialmath"
)

// subdivide splits the octant into eight children laid out as spatialmath.OctantOffsets. All eight
// siblings are allocated first so they get consecutive ids, then each one that is still too dense
// is subdivided in turn. Octants that already have children or sit at the max level are left as
// they are.
func (t *Tree) subdivide(id uint32) {
	parent := t.nodes[id]
	if parent.level >= t.maxLevel || !parent.isLeaf() {
		return
	}

	var created [8]uint32
	for i := range spatialmath.OctantOffsets {
		cube, _ := parent.cube.Octant(i)
		created[i] = t.newOctant(cube)
	}
	t.nodes[id].children = created
	t.nodes[id].numChildren = len(created)

	for _, childID := range created {
		child := &t.nodes[childID]
		child.root = parent.root
		child.parent = id
		child.level = parent.level + 1
		if t.containsMoreThan(childID, t.idealEntityCount) {
			t.subdivide(childID)
		}
	}
}

// newOctant appends a fresh octant to the arena and gives it the next id.
func (t *Tree) newOctant(cube spatialmath.Cube) uint32 {
	id := t.octantCount
	if int(id) != len(t.nodes) {
		panic(fmt.Sprintf("octree arena out of sync: next id %d, %d octants allocated", id, len(t.nodes)))
	}
	t.nodes = append(t.nodes, newNode(id, cube))
	t.octantCount++
	return id
}

// containsMoreThan counts the objects overlapping the octant and stops as soon as the count
// exceeds threshold.
func (t *Tree) containsMoreThan(id uint32, threshold int) bool {
	count := 0
	objects := t.source.Count()
	for i := 0; i < objects; i++ {
		if t.overlaps(id, i) {
			count++
		}
		if count > threshold {
			return true
		}
	}
	return false
}

// killBranches releases every descendant of the octant in post-order and returns how many were
// released. Released slots are zeroed; when the root is pruned the arena shrinks back to the root
// alone.
func (t *Tree) killBranches(id uint32) int {
	released := 0
	for i := 0; i < t.nodes[id].numChildren; i++ {
		childID := t.nodes[id].children[i]
		released += t.killBranches(childID)
		t.nodes[childID] = node{}
		t.nodes[id].children[i] = noNode
		released++
	}
	t.nodes[id].numChildren = 0
	if id == rootID {
		t.nodes = t.nodes[:1]
	}
	return released
}

// overlaps is the AABB test between the octant and the object's current world space box.
func (t *Tree) overlaps(id uint32, objectIndex int) bool {
	if objectIndex < 0 || objectIndex >= t.source.Count() {
		return false
	}
	objBox := spatialmath.NewAABB(t.source.Bounds(objectIndex))
	return t.nodes[id].aabb().Overlaps(objBox)
}

// assign visits children first; every leaf collects the objects it overlaps and reports each pair
// to the sink.
func (t *Tree) assign(id uint32) {
	for i := 0; i < t.nodes[id].numChildren; i++ {
		t.assign(t.nodes[id].children[i])
	}
	if !t.nodes[id].isLeaf() {
		return
	}

	objects := t.source.Count()
	for i := 0; i < objects; i++ {
		if t.overlaps(id, i) {
			t.nodes[id].residents = append(t.nodes[id].residents, i)
			t.sink.RecordMembership(i, id)
		}
	}
}

// buildLeafList appends, in post-order, every octant with residents to the root's leaf list.
func (t *Tree) buildLeafList(id uint32) {
	for i := 0; i < t.nodes[id].numChildren; i++ {
		t.buildLeafList(t.nodes[id].children[i])
	}
	if len(t.nodes[id].residents) > 0 {
		t.leaves = append(t.leaves, id)
	}
}

func (t *Tree) clearResidentLists(id uint32) {
	for i := 0; i < t.nodes[id].numChildren; i++ {
		t.clearResidentLists(t.nodes[id].children[i])
	}
	t.nodes[id].residents = nil
}
