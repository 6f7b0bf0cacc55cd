package config

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// ParseHexColor parses a "#rrggbb" or "#rgb" color.
func ParseHexColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrapf(err, "invalid color %q", s)
	}
	return c, nil
}
