package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/broadphase/config"
	"go.viam.com/broadphase/debugdraw"
	"go.viam.com/broadphase/logging"
	"go.viam.com/broadphase/octree"
	"go.viam.com/broadphase/registry"
)

type buildOptions struct {
	configPath string
	scenePath  string
	pngPath    string
	display    string
	maxLevel   *uint32
	idealCount *int
}

// BuildAction is the corresponding Action for 'build'.
func BuildAction(c *cli.Context) error {
	_, err := runBuild(c.App.Writer, optionsFrom(c), loggerFrom(c))
	return err
}

// loadConfig reads the config file, if any, and applies command line overrides.
func loadConfig(opts buildOptions, logger logging.Logger) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Read(opts.configPath, logger)
		if err != nil {
			return nil, err
		}
	}
	if opts.maxLevel != nil {
		cfg.Octree.MaxLevel = *opts.maxLevel
	}
	if opts.idealCount != nil {
		cfg.Octree.IdealEntityCount = *opts.idealCount
	}
	if opts.display != "" {
		cfg.Render.Display = opts.display
	}
	if err := cfg.Ensure(); err != nil {
		return nil, err
	}
	config.UpdateFileConfigDebug(cfg.Debug)
	return cfg, nil
}

// registryFromScene registers every scene object in order, so object indices match the file.
func registryFromScene(scene *config.Scene, logger logging.Logger) (*registry.Registry, error) {
	reg := registry.New(logger)
	for idx, obj := range scene.Objects {
		if _, err := reg.Add(obj.Label, obj.AABB()); err != nil {
			return nil, errors.Wrapf(err, "object %d", idx)
		}
	}
	return reg, nil
}

func runBuild(out io.Writer, opts buildOptions, logger logging.Logger) (*octree.Tree, error) {
	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return nil, err
	}
	scene, err := config.ReadScene(opts.scenePath)
	if err != nil {
		return nil, err
	}
	reg, err := registryFromScene(scene, logger.Sublogger("registry"))
	if err != nil {
		return nil, err
	}

	tree, err := octree.New(reg, reg, cfg.Octree, logger.Sublogger("octree"))
	if err != nil {
		return nil, err
	}
	printf(out, "%s", leafTable(tree, reg))
	printf(out, "%s", octree.ComputeStats(tree))
	printf(out, "candidate pairs: %d", len(tree.CandidatePairs()))

	if opts.pngPath != "" {
		if err := renderTree(opts.pngPath, tree, reg, cfg.Render); err != nil {
			return nil, err
		}
		logger.Infow("rendered tree", "path", opts.pngPath, "display", cfg.Render.Display)
	}
	return tree, nil
}

// leafTable prints one row per occupied leaf, naming residents by label where they have one.
func leafTable(tree *octree.Tree, reg *registry.Registry) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Leaf", "Level", "Center", "Size", "Residents"})
	tree.ForEachLeaf(func(n octree.Node) bool {
		names := make([]string, 0, len(n.Residents()))
		for _, idx := range n.Residents() {
			name := fmt.Sprintf("#%d", idx)
			if ent, ok := reg.EntityAt(idx); ok && ent.Label != "" {
				name = ent.Label
			}
			names = append(names, name)
		}
		center := n.Center()
		t.AppendRow(table.Row{
			n.ID(),
			n.Level(),
			fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", center.X, center.Y, center.Z),
			fmt.Sprintf("%.2f", n.Size()),
			strings.Join(names, ", "),
		})
		return true
	})
	return t.Render()
}

func renderTree(path string, tree *octree.Tree, reg *registry.Registry, rc config.RenderConfig) error {
	var w debugdraw.Wireframe
	w.DisplayObjects(reg)
	switch rc.Display {
	case config.DisplayAll:
		w.DisplayAll(tree)
	case config.DisplayLeaves:
		w.DisplayLeaves(tree)
	case config.DisplayOctant:
		if !w.DisplayOctant(tree, rc.Octant) {
			return errors.Errorf("octant %d does not exist, the tree has %d", rc.Octant, tree.OctantCount())
		}
	}
	return w.RenderPNG(path, rc)
}

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
