package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/broadphase/utils"
)

// OctantOffsets is the ordered list of child directions used when a cube is split in eight.
// The bottom ring (-y) comes first starting from the back left corner (-x, -z) and walking
// around to the right, front right and front left; the top ring (+y) repeats the same x/z order.
var OctantOffsets = [8]r3.Vector{
	{X: -1, Y: -1, Z: -1},
	{X: 1, Y: -1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: 1},
}

// Ordered list of cube vertices.
var cubeVertices = [8]r3.Vector{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: -1},
}

// The 12 edges of a cube, as pairs of vertex indices (vertices differing in exactly one coordinate).
var cubeEdgeIndices = [12][2]int{
	{0, 1}, {0, 2}, {0, 4},
	{1, 3}, {1, 5},
	{2, 3}, {2, 6},
	{3, 7},
	{4, 5}, {4, 6},
	{5, 7},
	{6, 7},
}

// Cube is an axis-aligned cube with a center point and an edge length.
type Cube struct {
	Center r3.Vector `json:"center"`
	Size   float64   `json:"size"`
}

// BoundingCube returns the cube centered on the box's center whose edge is twice the box's largest
// half extent, so the box fits inside it.
func BoundingCube(b AABB) Cube {
	half := b.HalfSize()
	largest := utils.MaxFloat64(half.X, half.Y, half.Z)
	return Cube{Center: b.Center(), Size: 2 * largest}
}

// Min returns the minimum corner of the cube.
func (c Cube) Min() r3.Vector {
	return c.Center.Sub(r3.Vector{X: c.Size, Y: c.Size, Z: c.Size}.Mul(0.5))
}

// Max returns the maximum corner of the cube.
func (c Cube) Max() r3.Vector {
	return c.Center.Add(r3.Vector{X: c.Size, Y: c.Size, Z: c.Size}.Mul(0.5))
}

// AABB returns the cube as a bounding box.
func (c Cube) AABB() AABB {
	return AABB{Min: c.Min(), Max: c.Max()}
}

// Octant returns the i-th child cube in the OctantOffsets layout. The second return is false when i
// is outside [0, 7].
func (c Cube) Octant(i int) (Cube, bool) {
	if i < 0 || i >= len(OctantOffsets) {
		return Cube{}, false
	}
	quarter := c.Size / 4
	return Cube{
		Center: c.Center.Add(OctantOffsets[i].Mul(quarter)),
		Size:   c.Size / 2,
	}, true
}

// Vertices returns the eight corners of the cube.
func (c Cube) Vertices() [8]r3.Vector {
	var out [8]r3.Vector
	half := c.Size / 2
	for i, v := range cubeVertices {
		out[i] = c.Center.Add(v.Mul(half))
	}
	return out
}

// Edges returns the twelve edges of the cube as pairs of endpoints.
func (c Cube) Edges() [12][2]r3.Vector {
	return edgesOf(c.Vertices())
}

func edgesOf(verts [8]r3.Vector) [12][2]r3.Vector {
	var out [12][2]r3.Vector
	for i, e := range cubeEdgeIndices {
		out[i] = [2]r3.Vector{verts[e[0]], verts[e[1]]}
	}
	return out
}

// String returns a human readable string that represents the cube.
func (c Cube) String() string {
	return fmt.Sprintf("Type: Cube | Position: X:%.2f, Y:%.2f, Z:%.2f | Size: %.2f",
		c.Center.X, c.Center.Y, c.Center.Z, c.Size)
}
