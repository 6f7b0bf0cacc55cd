// Package config defines the file formats the octree tools read: a Config holding tree, logging
// and rendering settings, and a Scene listing the boxes to index. Both are JSON5.
package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/broadphase/octree"
)

// Display modes for the debug wireframe.
const (
	DisplayNone   = "none"
	DisplayAll    = "all"
	DisplayLeaves = "leaves"
	DisplayOctant = "octant"
)

// Projection planes for rendered images. The first axis runs right and the second runs up.
const (
	ViewXY = "xy"
	ViewXZ = "xz"
	ViewZY = "zy"
)

// Config is the top level configuration file.
type Config struct {
	ConfigFilePath string `json:"-"`

	Octree octree.Config `json:"octree"`
	Debug  bool          `json:"debug"`
	Render RenderConfig  `json:"render"`
}

// RenderConfig describes what the debug wireframe draws and how images are rasterized.
type RenderConfig struct {
	Display string `json:"display"`
	// Octant is the octant id drawn when Display is "octant".
	Octant     uint32  `json:"octant"`
	View       string  `json:"view"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Margin     float64 `json:"margin"`
	LineWidth  float64 `json:"line_width"`
	Background string  `json:"background"`
	// Labels draws each cube's label at its projected center.
	Labels   bool    `json:"labels"`
	FontSize float64 `json:"font_size"`
}

// Default returns a config with every setting at its default.
func Default() *Config {
	return &Config{
		Octree: octree.DefaultConfig(),
		Render: DefaultRenderConfig(),
	}
}

// DefaultRenderConfig returns the default render settings.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Display:    DisplayAll,
		View:       ViewXY,
		Width:      800,
		Height:     800,
		Margin:     20,
		LineWidth:  1,
		Background: "#ffffff",
		FontSize:   10,
	}
}

// Ensure validates the config and returns every problem found.
func (c *Config) Ensure() error {
	return multierr.Combine(
		c.Octree.Validate("octree"),
		c.Render.Validate("render"),
	)
}

// Validate ensures all parts of the config are valid.
func (rc RenderConfig) Validate(path string) error {
	var errs error
	switch rc.Display {
	case DisplayNone, DisplayAll, DisplayLeaves, DisplayOctant:
	default:
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("unknown display mode %q", rc.Display)))
	}
	switch rc.View {
	case ViewXY, ViewXZ, ViewZY:
	default:
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("unknown view %q", rc.View)))
	}
	if rc.Width <= 0 || rc.Height <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("image size must be positive, got %dx%d", rc.Width, rc.Height)))
	}
	if rc.Margin < 0 || 2*rc.Margin >= float64(min(rc.Width, rc.Height)) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("margin %v does not fit a %dx%d image", rc.Margin, rc.Width, rc.Height)))
	}
	if rc.LineWidth <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "line_width"))
	}
	if _, err := ParseHexColor(rc.Background); err != nil {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, err))
	}
	if rc.Labels && rc.FontSize <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "font_size"))
	}
	return errs
}
