package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/broadphase/logging"
	"go.viam.com/broadphase/octree"
)

// WatchAction is the corresponding Action for 'watch'.
func WatchAction(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt)
	defer cancel()
	return watch(ctx, c.App.Writer, optionsFrom(c), c.Duration(debounceFlag), loggerFrom(c), nil)
}

// watch builds once, then rebuilds every time the scene or config file settles after a change,
// until ctx is done. Build failures are logged and the previous tree is kept. onBuild, if set, is
// called after every build attempt.
func watch(
	ctx context.Context,
	out io.Writer,
	opts buildOptions,
	interval time.Duration,
	logger logging.Logger,
	onBuild func(*octree.Tree, error),
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnw("failed to close file watcher", "error", err)
		}
	}()

	// Editors often replace files rather than write them, so watch the directories.
	watched := map[string]bool{}
	for _, path := range []string{opts.scenePath, opts.configPath} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return errors.Wrapf(err, "failed to watch %q", path)
		}
	}

	rebuild := make(chan struct{}, 1)
	trigger := func() {
		select {
		case rebuild <- struct{}{}:
		default:
		}
	}
	debounced := debounce.New(interval)

	build := func() {
		tree, err := runBuild(out, opts, logger)
		if err != nil {
			logger.Errorw("rebuild failed", "error", err)
		}
		if onBuild != nil {
			onBuild(tree, err)
		}
	}
	build()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuild:
			build()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debugw("scene changed", "file", event.Name, "op", event.Op.String())
			debounced(trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("file watcher error", "error", err)
		}
	}
}
