package config

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/broadphase/spatialmath"
)

// Scene is the list of boxes an octree is built over.
type Scene struct {
	Objects []SceneObject `json:"objects"`
}

// SceneObject is one box, given either as a center and dimensions or as min and max corners.
type SceneObject struct {
	Label  string     `json:"label,omitempty"`
	Center *r3.Vector `json:"center,omitempty"`
	Dims   *r3.Vector `json:"dims,omitempty"`
	Min    *r3.Vector `json:"min,omitempty"`
	Max    *r3.Vector `json:"max,omitempty"`
}

// Validate ensures the object describes exactly one well formed box.
func (o SceneObject) Validate(path string) error {
	centered := o.Center != nil || o.Dims != nil
	cornered := o.Min != nil || o.Max != nil
	switch {
	case centered && cornered:
		return utils.NewConfigValidationError(path, errors.New("use either center and dims or min and max, not both"))
	case centered:
		if o.Center == nil {
			return utils.NewConfigValidationFieldRequiredError(path, "center")
		}
		if o.Dims == nil {
			return utils.NewConfigValidationFieldRequiredError(path, "dims")
		}
		if o.Dims.X < 0 || o.Dims.Y < 0 || o.Dims.Z < 0 {
			return utils.NewConfigValidationError(path, errors.Errorf("dims must be non-negative, got %v", *o.Dims))
		}
	case cornered:
		if o.Min == nil {
			return utils.NewConfigValidationFieldRequiredError(path, "min")
		}
		if o.Max == nil {
			return utils.NewConfigValidationFieldRequiredError(path, "max")
		}
		if spatialmath.NewAABB(*o.Min, *o.Max).Inverted() {
			return utils.NewConfigValidationError(path, errors.Errorf("min %v exceeds max %v", *o.Min, *o.Max))
		}
	default:
		return utils.NewConfigValidationError(path, errors.New("object needs center and dims or min and max"))
	}
	return nil
}

// AABB returns the object's box. The object must be valid.
func (o SceneObject) AABB() spatialmath.AABB {
	if o.Center != nil {
		return spatialmath.NewAABBFromCenter(*o.Center, *o.Dims)
	}
	return spatialmath.NewAABB(*o.Min, *o.Max)
}

// Validate checks every object and returns all problems found.
func (s *Scene) Validate(path string) error {
	var errs error
	labels := make(map[string]int, len(s.Objects))
	for idx, obj := range s.Objects {
		objPath := fmt.Sprintf("%s.%d", path, idx)
		errs = multierr.Append(errs, obj.Validate(objPath))
		if obj.Label == "" {
			continue
		}
		if first, ok := labels[obj.Label]; ok {
			errs = multierr.Append(errs, utils.NewConfigValidationError(objPath,
				errors.Errorf("duplicate label %q, first used by object %d", obj.Label, first)))
			continue
		}
		labels[obj.Label] = idx
	}
	return errs
}

// Boxes returns the box of every object in order.
func (s *Scene) Boxes() []spatialmath.AABB {
	boxes := make([]spatialmath.AABB, 0, len(s.Objects))
	for _, obj := range s.Objects {
		boxes = append(boxes, obj.AABB())
	}
	return boxes
}
