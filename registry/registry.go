// Package registry holds the scene's entities. A Registry is the object source an octree is built
// over and the sink it reports leaf memberships to, so each entity knows which leaves (its
// dimensions) it currently occupies.
package registry

import (
	"slices"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/broadphase/logging"
	"go.viam.com/broadphase/octree"
	"go.viam.com/broadphase/spatialmath"
)

var (
	_ octree.ObjectSource       = (*Registry)(nil)
	_ octree.AssignmentSink     = (*Registry)(nil)
	_ octree.MembershipResetter = (*Registry)(nil)
)

// ErrNotFound is returned when an id names no entity in the registry.
var ErrNotFound = errors.New("entity not found")

// NewNotFoundError is used when an entity is looked up by an id the registry does not hold.
func NewNotFoundError(id uuid.UUID) error {
	return errors.Wrapf(ErrNotFound, "id %s", id)
}

// Entity is a snapshot of one registered object.
type Entity struct {
	ID     uuid.UUID
	Label  string
	Bounds spatialmath.AABB
	// Dimensions are the sorted ids of the octree leaves the entity was last assigned to.
	Dimensions []uint32
}

type entity struct {
	id         uuid.UUID
	label      string
	bounds     spatialmath.AABB
	dimensions []uint32
}

func (e *entity) snapshot() Entity {
	return Entity{
		ID:         e.id,
		Label:      e.label,
		Bounds:     e.bounds,
		Dimensions: slices.Clone(e.dimensions),
	}
}

// Registry is an ordered set of entities safe for concurrent use. An entity's index is its
// position in insertion order; removing an entity shifts the ones after it, so a tree built over
// the registry must be rebuilt after a removal.
type Registry struct {
	logger logging.Logger

	mu       sync.RWMutex
	entities []*entity
	byID     map[uuid.UUID]int
	byLabel  map[string]uuid.UUID
}

// New returns an empty registry.
func New(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewBlankLogger("registry")
	}
	return &Registry{
		logger:  logger,
		byID:    make(map[uuid.UUID]int),
		byLabel: make(map[string]uuid.UUID),
	}
}

// Add registers a new entity and returns its id. Labels are optional but must be unique.
func (r *Registry) Add(label string, bounds spatialmath.AABB) (uuid.UUID, error) {
	if bounds.Inverted() {
		return uuid.Nil, errors.Errorf("entity %q has inverted bounds %v", label, bounds)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if label != "" {
		if _, ok := r.byLabel[label]; ok {
			return uuid.Nil, errors.Errorf("entity label %q already registered", label)
		}
	}

	id := uuid.New()
	r.byID[id] = len(r.entities)
	r.entities = append(r.entities, &entity{id: id, label: label, bounds: bounds})
	if label != "" {
		r.byLabel[label] = id
	}
	r.logger.Debugw("added entity", "id", id, "label", label, "index", r.byID[id])
	return id, nil
}

// Remove unregisters an entity. Entities after it move down one index.
func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, ok := r.byID[id]
	if !ok {
		return NewNotFoundError(id)
	}
	removed := r.entities[index]
	r.entities = slices.Delete(r.entities, index, index+1)
	delete(r.byID, id)
	if removed.label != "" {
		delete(r.byLabel, removed.label)
	}
	for i := index; i < len(r.entities); i++ {
		r.byID[r.entities[i].id] = i
	}
	r.logger.Debugw("removed entity", "id", id, "label", removed.label)
	return nil
}

// Move translates an entity's bounds by delta.
func (r *Registry) Move(id uuid.UUID, delta r3.Vector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, ok := r.byID[id]
	if !ok {
		return NewNotFoundError(id)
	}
	r.entities[index].bounds = r.entities[index].bounds.Translate(delta)
	return nil
}

// SetBounds replaces an entity's bounds.
func (r *Registry) SetBounds(id uuid.UUID, bounds spatialmath.AABB) error {
	if bounds.Inverted() {
		return errors.Errorf("inverted bounds %v", bounds)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	index, ok := r.byID[id]
	if !ok {
		return NewNotFoundError(id)
	}
	r.entities[index].bounds = bounds
	return nil
}

// Entity returns a snapshot of the entity with the given id.
func (r *Registry) Entity(id uuid.UUID) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, ok := r.byID[id]
	if !ok {
		return Entity{}, false
	}
	return r.entities[index].snapshot(), true
}

// EntityByLabel returns a snapshot of the entity with the given label.
func (r *Registry) EntityByLabel(label string) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLabel[label]
	if !ok {
		return Entity{}, false
	}
	return r.entities[r.byID[id]].snapshot(), true
}

// EntityAt returns a snapshot of the entity at the given index.
func (r *Registry) EntityAt(index int) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.entities) {
		return Entity{}, false
	}
	return r.entities[index].snapshot(), true
}

// Index returns the current index of the entity with the given id.
func (r *Registry) Index(id uuid.UUID) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, ok := r.byID[id]
	return index, ok
}

// Entities returns snapshots of every entity in index order.
func (r *Registry) Entities() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.entities, func(e *entity, _ int) Entity {
		return e.snapshot()
	})
}

// Count returns the number of registered entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entities)
}

// Bounds returns the world space corners of the entity at index. An out of range index yields an
// inverted box, which overlaps nothing.
func (r *Registry) Bounds(index int) (r3.Vector, r3.Vector) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.entities) {
		return r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: -1, Y: -1, Z: -1}
	}
	b := r.entities[index].bounds
	return b.Min, b.Max
}

// RecordMembership adds leafID to the dimensions of the entity at index.
func (r *Registry) RecordMembership(index int, leafID uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.entities) {
		return
	}
	e := r.entities[index]
	pos, found := slices.BinarySearch(e.dimensions, leafID)
	if !found {
		e.dimensions = slices.Insert(e.dimensions, pos, leafID)
	}
}

// ResetMemberships clears every entity's dimensions before a tree assigns leaves again.
func (r *Registry) ResetMemberships() {
	r.ClearDimensions()
}

// ClearDimensions clears every entity's dimensions.
func (r *Registry) ClearDimensions() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entities {
		e.dimensions = nil
	}
}

// Dimensions returns the sorted leaf ids the entity occupies.
func (r *Registry) Dimensions(id uuid.UUID) ([]uint32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, ok := r.byID[id]
	if !ok {
		return nil, NewNotFoundError(id)
	}
	return slices.Clone(r.entities[index].dimensions), nil
}

// SharesDimension reports whether two entities occupy at least one common leaf. Entities that
// share no leaf cannot overlap and need no narrow-phase test.
func (r *Registry) SharesDimension(a, b uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ia, ok := r.byID[a]
	if !ok {
		return false, NewNotFoundError(a)
	}
	ib, ok := r.byID[b]
	if !ok {
		return false, NewNotFoundError(b)
	}
	return lo.Some(r.entities[ia].dimensions, r.entities[ib].dimensions), nil
}
