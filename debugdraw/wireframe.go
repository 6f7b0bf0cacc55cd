// Package debugdraw turns an octree into a wireframe render list for debugging, and rasterizes
// that list into an orthographic image.
package debugdraw

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"

	"go.viam.com/broadphase/octree"
	"go.viam.com/broadphase/spatialmath"
)

// ObjectColor is the color scene boxes are drawn in.
var ObjectColor = colorful.Color{R: 0.45, G: 0.45, B: 0.45}

// WireCube is one entry of the render list.
type WireCube struct {
	Box   spatialmath.AABB
	Color colorful.Color
	// Level is the octant depth, or -1 for a scene box.
	Level int
	// Label is the octant id, or "#" and the object index for a scene box.
	Label string
}

// Line is one edge of a wire cube.
type Line struct {
	A, B  r3.Vector
	Color colorful.Color
}

// Wireframe collects wire cubes. The zero value is an empty render list.
type Wireframe struct {
	cubes []WireCube
}

// LevelColor returns the color octants at the given depth are drawn in. Hues step around the
// color wheel so neighboring levels stay distinct.
func LevelColor(level uint32) colorful.Color {
	hue := math.Mod(float64(level)*67, 360)
	return colorful.Hsv(hue, 0.85, 0.85)
}

func (w *Wireframe) addOctant(n octree.Node) {
	w.cubes = append(w.cubes, WireCube{
		Box:   n.Cube().AABB(),
		Color: LevelColor(n.Level()),
		Level: int(n.Level()),
		Label: fmt.Sprint(n.ID()),
	})
}

// DisplayAll adds every octant of the tree, children before their parent.
func (w *Wireframe) DisplayAll(t *octree.Tree) {
	var visit func(n octree.Node)
	visit = func(n octree.Node) {
		for i := 0; i < n.NumChildren(); i++ {
			child, _ := n.Child(i)
			visit(child)
		}
		w.addOctant(n)
	}
	visit(t.Root())
}

// DisplayOctant adds only the octant with the given id. It reports whether the octant exists.
func (w *Wireframe) DisplayOctant(t *octree.Tree, id uint32) bool {
	n, ok := t.FindByID(id)
	if !ok {
		return false
	}
	w.addOctant(n)
	return true
}

// DisplayLeaves adds every leaf that holds objects, followed by the root for context.
func (w *Wireframe) DisplayLeaves(t *octree.Tree) {
	t.ForEachLeaf(func(n octree.Node) bool {
		w.addOctant(n)
		return true
	})
	w.addOctant(t.Root())
}

// DisplayObjects adds the box of every object in src.
func (w *Wireframe) DisplayObjects(src octree.ObjectSource) {
	for i := 0; i < src.Count(); i++ {
		box := spatialmath.NewAABB(src.Bounds(i))
		if box.Inverted() {
			continue
		}
		w.cubes = append(w.cubes, WireCube{
			Box:   box,
			Color: ObjectColor,
			Level: -1,
			Label: fmt.Sprintf("#%d", i),
		})
	}
}

// Cubes returns the render list.
func (w *Wireframe) Cubes() []WireCube {
	return w.cubes
}

// Len returns the number of cubes in the render list.
func (w *Wireframe) Len() int {
	return len(w.cubes)
}

// Clear empties the render list.
func (w *Wireframe) Clear() {
	w.cubes = w.cubes[:0]
}

// Lines returns the twelve edges of every cube in render list order.
func (w *Wireframe) Lines() []Line {
	lines := make([]Line, 0, 12*len(w.cubes))
	for _, c := range w.cubes {
		for _, e := range c.Box.Edges() {
			lines = append(lines, Line{A: e[0], B: e[1], Color: c.Color})
		}
	}
	return lines
}
