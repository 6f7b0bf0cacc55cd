// Package spatialmath defines the axis-aligned volumes used by the broad-phase octree.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/broadphase/utils"
)

// AABB is an axis-aligned bounding box described by its minimum and maximum corners.
type AABB struct {
	Min r3.Vector `json:"min"`
	Max r3.Vector `json:"max"`
}

// NewAABB returns the box spanning min and max. The corners are stored as given; a box whose
// min exceeds its max on any axis is inverted and never overlaps anything.
func NewAABB(min, max r3.Vector) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromCenter returns the box centered on center with the given full dimensions.
func NewAABBFromCenter(center, dims r3.Vector) AABB {
	half := dims.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// BoundingAABB returns the smallest box containing every given point. With no points the result
// is the zero box at the origin.
func BoundingAABB(points ...r3.Vector) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	minPt := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	maxPt := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range points {
		minPt = r3.Vector{X: math.Min(minPt.X, p.X), Y: math.Min(minPt.Y, p.Y), Z: math.Min(minPt.Z, p.Z)}
		maxPt = r3.Vector{X: math.Max(maxPt.X, p.X), Y: math.Max(maxPt.Y, p.Y), Z: math.Max(maxPt.Z, p.Z)}
	}
	return AABB{Min: minPt, Max: maxPt}
}

// Union returns the smallest box containing all of the given boxes.
func Union(boxes ...AABB) AABB {
	points := make([]r3.Vector, 0, 2*len(boxes))
	for _, b := range boxes {
		points = append(points, b.Min, b.Max)
	}
	return BoundingAABB(points...)
}

// Center returns the midpoint of the box.
func (b AABB) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfSize returns the half extents of the box along each axis.
func (b AABB) HalfSize() r3.Vector {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Inverted reports whether min exceeds max along any axis.
func (b AABB) Inverted() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Empty reports whether the box is inverted or collapses to a single point. Empty boxes overlap
// nothing.
func (b AABB) Empty() bool {
	return b.Inverted() || b.Min == b.Max
}

// Overlaps reports whether the two boxes intersect. Boxes that only touch on a face, edge or
// corner overlap. Empty boxes overlap nothing.
func (b AABB) Overlaps(other AABB) bool {
	if b.Empty() || other.Empty() {
		return false
	}
	if b.Max.X < other.Min.X || b.Min.X > other.Max.X {
		return false
	}
	if b.Max.Y < other.Min.Y || b.Min.Y > other.Max.Y {
		return false
	}
	if b.Max.Z < other.Min.Z || b.Min.Z > other.Max.Z {
		return false
	}
	return true
}

// ContainsPoint reports whether p lies inside or on the boundary of the box.
func (b AABB) ContainsPoint(p r3.Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Translate returns the box moved by delta.
func (b AABB) Translate(delta r3.Vector) AABB {
	return AABB{Min: b.Min.Add(delta), Max: b.Max.Add(delta)}
}

// AlmostEqual compares two boxes corner by corner within epsilon.
func (b AABB) AlmostEqual(other AABB, epsilon float64) bool {
	return vectorAlmostEqual(b.Min, other.Min, epsilon) && vectorAlmostEqual(b.Max, other.Max, epsilon)
}

// Vertices returns the eight corners of the box in the same order as Cube.Vertices.
func (b AABB) Vertices() [8]r3.Vector {
	center, half := b.Center(), b.HalfSize()
	var out [8]r3.Vector
	for i, v := range cubeVertices {
		out[i] = center.Add(r3.Vector{X: v.X * half.X, Y: v.Y * half.Y, Z: v.Z * half.Z})
	}
	return out
}

// Edges returns the twelve edges of the box as pairs of endpoints.
func (b AABB) Edges() [12][2]r3.Vector {
	return edgesOf(b.Vertices())
}

// String returns a human readable string that represents the box.
func (b AABB) String() string {
	return fmt.Sprintf("AABB | Min: X:%.2f, Y:%.2f, Z:%.2f | Max: X:%.2f, Y:%.2f, Z:%.2f",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

func vectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
