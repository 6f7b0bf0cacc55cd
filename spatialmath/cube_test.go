package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBoundingCube(t *testing.T) {
	b := NewAABB(r3.Vector{X: -1, Y: 0, Z: 2}, r3.Vector{X: 3, Y: 1, Z: 4})
	c := BoundingCube(b)
	test.That(t, c.Center, test.ShouldResemble, r3.Vector{X: 1, Y: 0.5, Z: 3})
	test.That(t, c.Size, test.ShouldEqual, 4.0)
	test.That(t, c.Min(), test.ShouldResemble, r3.Vector{X: -1, Y: -1.5, Z: 1})
	test.That(t, c.Max(), test.ShouldResemble, r3.Vector{X: 3, Y: 2.5, Z: 5})

	// the box always fits inside its bounding cube
	test.That(t, c.AABB().ContainsPoint(b.Min), test.ShouldBeTrue)
	test.That(t, c.AABB().ContainsPoint(b.Max), test.ShouldBeTrue)

	t.Run("zero box", func(t *testing.T) {
		zero := BoundingCube(AABB{})
		test.That(t, zero.Size, test.ShouldEqual, 0.0)
		test.That(t, zero.Center, test.ShouldResemble, r3.Vector{})
	})
}

func TestCubeOctants(t *testing.T) {
	parent := Cube{Center: r3.Vector{X: 0, Y: 0, Z: 0}, Size: 4}

	expected := []r3.Vector{
		{X: -1, Y: -1, Z: -1},
		{X: 1, Y: -1, Z: -1},
		{X: 1, Y: -1, Z: 1},
		{X: -1, Y: -1, Z: 1},
		{X: -1, Y: 1, Z: -1},
		{X: 1, Y: 1, Z: -1},
		{X: 1, Y: 1, Z: 1},
		{X: -1, Y: 1, Z: 1},
	}
	volume := 0.0
	for i, center := range expected {
		child, ok := parent.Octant(i)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, child.Center, test.ShouldResemble, center)
		test.That(t, child.Size, test.ShouldEqual, 2.0)
		volume += child.Size * child.Size * child.Size

		// every child lies inside the parent
		test.That(t, parent.AABB().ContainsPoint(child.Min()), test.ShouldBeTrue)
		test.That(t, parent.AABB().ContainsPoint(child.Max()), test.ShouldBeTrue)
	}
	test.That(t, volume, test.ShouldEqual, parent.Size*parent.Size*parent.Size)

	_, ok := parent.Octant(-1)
	test.That(t, ok, test.ShouldBeFalse)
	_, ok = parent.Octant(8)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestCubeEdges(t *testing.T) {
	c := Cube{Center: r3.Vector{X: 1, Y: 1, Z: 1}, Size: 2}
	for _, e := range c.Edges() {
		d := e[1].Sub(e[0])
		test.That(t, d.Norm(), test.ShouldAlmostEqual, 2.0)
		// edges are axis aligned so exactly one component differs
		nonZero := 0
		for _, v := range []float64{d.X, d.Y, d.Z} {
			if v != 0 {
				nonZero++
			}
		}
		test.That(t, nonZero, test.ShouldEqual, 1)
	}
	test.That(t, c.String(), test.ShouldContainSubstring, "Size: 2.00")
}
