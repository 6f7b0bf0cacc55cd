package octree

// walk visits the octant and its descendants in pre-order. It returns false once fn has asked to
// stop so callers higher up the recursion stop too.
func (t *Tree) walk(id uint32, fn func(*node) bool) bool {
	if !fn(&t.nodes[id]) {
		return false
	}
	for i := 0; i < t.nodes[id].numChildren; i++ {
		if !t.walk(t.nodes[id].children[i], fn) {
			return false
		}
	}
	return true
}

// ForEachNode visits every octant in pre-order until fn returns false.
func (t *Tree) ForEachNode(fn func(Node) bool) {
	t.Root().Walk(fn)
}

// ForEachLeaf visits every leaf with residents, in leaf list order, until fn returns false.
func (t *Tree) ForEachLeaf(fn func(Node) bool) {
	for _, id := range t.leaves {
		if !fn(Node{tree: t, id: id}) {
			return
		}
	}
}

// FindByID searches the tree depth first for the octant with the given id.
func (t *Tree) FindByID(id uint32) (Node, bool) {
	return t.Root().Find(id)
}
