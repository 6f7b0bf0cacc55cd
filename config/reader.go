package config

import (
	"bytes"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"go.viam.com/broadphase/logging"
)

// Read reads a config from the given file. Environment variables in the file are expanded first.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %q", filePath)
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
// Settings missing from the file keep their defaults.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	cfg.ConfigFilePath = originalPath
	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json5")
	}
	if err := cfg.Ensure(); err != nil {
		return nil, errors.Wrapf(err, "failed to process Config")
	}
	logger.Debugw("read config", "path", originalPath, "max_level", cfg.Octree.MaxLevel,
		"ideal_entity_count", cfg.Octree.IdealEntityCount, "debug", cfg.Debug)
	return cfg, nil
}

// ReadScene reads a scene from the given file. Environment variables in the file are expanded
// first.
func ReadScene(filePath string) (*Scene, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scene %q", filePath)
	}
	return SceneFromReader(bytes.NewReader(buf))
}

// SceneFromReader reads and validates a scene.
func SceneFromReader(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var scene Scene
	if err := json5.Unmarshal(data, &scene); err != nil {
		return nil, errors.Wrap(err, "failed to decode Scene from json5")
	}
	if err := scene.Validate("objects"); err != nil {
		return nil, err
	}
	return &scene, nil
}
