// Package testutils provides fixtures shared by the broadphase tests.
package testutils

import (
	"math/rand"
	"sort"

	"github.com/golang/geo/r3"

	"go.viam.com/broadphase/spatialmath"
)

// SliceSource serves object bounds straight from a slice.
type SliceSource []spatialmath.AABB

// Count returns the number of boxes.
func (s SliceSource) Count() int {
	return len(s)
}

// Bounds returns the corners of box i.
func (s SliceSource) Bounds(i int) (r3.Vector, r3.Vector) {
	return s[i].Min, s[i].Max
}

// RecordingSink remembers every membership reported to it.
type RecordingSink struct {
	Memberships map[int][]uint32
	Calls       int
	Resets      int
}

// NewRecordingSink returns an empty sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{Memberships: map[int][]uint32{}}
}

// RecordMembership appends leafID to the object's memberships.
func (s *RecordingSink) RecordMembership(objectIndex int, leafID uint32) {
	s.Memberships[objectIndex] = append(s.Memberships[objectIndex], leafID)
	s.Calls++
}

// ResetMemberships forgets every membership.
func (s *RecordingSink) ResetMemberships() {
	s.Memberships = map[int][]uint32{}
	s.Resets++
}

// Leaves returns the sorted leaf ids recorded for an object.
func (s *RecordingSink) Leaves(objectIndex int) []uint32 {
	out := append([]uint32(nil), s.Memberships[objectIndex]...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Cluster returns n identical boxes of the given size centered on center.
func Cluster(center r3.Vector, size float64, n int) SliceSource {
	out := make(SliceSource, n)
	for i := range out {
		out[i] = spatialmath.NewAABBFromCenter(center, r3.Vector{X: size, Y: size, Z: size})
	}
	return out
}

// RandomScene returns n boxes with centers uniformly drawn from [-extent, extent]^3 and edges up to
// maxSize, generated from seed so tests are repeatable.
func RandomScene(seed int64, n int, extent, maxSize float64) SliceSource {
	//nolint:gosec
	r := rand.New(rand.NewSource(seed))
	coord := func() float64 { return (r.Float64()*2 - 1) * extent }
	out := make(SliceSource, n)
	for i := range out {
		center := r3.Vector{X: coord(), Y: coord(), Z: coord()}
		dims := r3.Vector{X: r.Float64() * maxSize, Y: r.Float64() * maxSize, Z: r.Float64() * maxSize}
		out[i] = spatialmath.NewAABBFromCenter(center, dims)
	}
	return out
}
