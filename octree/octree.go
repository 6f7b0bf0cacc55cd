// Package octree implements a bounded-depth octree used for broad-phase overlap queries among
// axis-aligned bounding boxes. The tree does not own the objects it indexes. It reads their
// bounds from an ObjectSource, subdivides space until each leaf holds at most the ideal number of
// objects or the maximum depth is reached, and reports every (object, leaf) overlap to an
// AssignmentSink.
//
// A tree is rebuilt wholesale with ConstructTree whenever the scene changes; there is no
// incremental insert or remove.
package octree

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

const (
	// DefaultMaxLevel is the default maximum depth of a tree. The root is level 0.
	DefaultMaxLevel = 4
	// DefaultIdealEntityCount is the default density threshold. A node overlapping more objects than
	// this is subdivided.
	DefaultIdealEntityCount = 5
	// MaxSupportedLevel bounds the depth a tree may be built to. A full tree at this depth already
	// holds more octants than any scene needs.
	MaxSupportedLevel = 16
)

// ObjectSource is the read-only view of the external object registry the tree is built over.
// Bounds must tolerate any index in [0, Count()) and return world space corners.
type ObjectSource interface {
	Count() int
	Bounds(index int) (min, max r3.Vector)
}

// AssignmentSink receives every (object, leaf) overlap found while assigning objects to leaves, so
// the registry can answer which leaves contain an object.
type AssignmentSink interface {
	RecordMembership(objectIndex int, leafID uint32)
}

// MembershipResetter is implemented by sinks that keep memberships across builds. The tree calls
// ResetMemberships before it assigns objects, so a rebuild never leaves stale leaf ids behind.
type MembershipResetter interface {
	ResetMemberships()
}

type discardSink struct{}

func (discardSink) RecordMembership(int, uint32) {}

// Config holds the tree-scoped construction settings.
type Config struct {
	MaxLevel         uint32 `json:"max_level"`
	IdealEntityCount int    `json:"ideal_entity_count"`
}

// DefaultConfig returns a config with the default depth and density threshold.
func DefaultConfig() Config {
	return Config{
		MaxLevel:         DefaultMaxLevel,
		IdealEntityCount: DefaultIdealEntityCount,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg Config) Validate(path string) error {
	if cfg.MaxLevel > MaxSupportedLevel {
		return utils.NewConfigValidationError(path,
			errors.Errorf("max_level %d exceeds the supported maximum of %d", cfg.MaxLevel, MaxSupportedLevel))
	}
	if cfg.IdealEntityCount < 0 {
		return utils.NewConfigValidationError(path,
			errors.Errorf("ideal_entity_count must be non-negative, got %d", cfg.IdealEntityCount))
	}
	return nil
}
