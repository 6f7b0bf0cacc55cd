// Package cli contains the octree command line tool.
package cli

import (
	"io"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/broadphase/config"
	"go.viam.com/broadphase/logging"
)

const (
	configFlag     = "config"
	sceneFlag      = "scene"
	debugFlag      = "debug"
	maxLevelFlag   = "max-level"
	idealCountFlag = "ideal-count"
	pngFlag        = "png"
	displayFlag    = "display"
	debounceFlag   = "debounce"
	logFileFlag    = "log-file"

	loggerKey  = "logger"
	logFileKey = "log-file"
)

// NewApp returns a new app with the octree commands, Writer set to out, and ErrWriter set to
// errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	buildFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     sceneFlag,
			Aliases:  []string{"s"},
			Usage:    "load the boxes to index from `FILE`",
			Required: true,
		},
		&cli.UintFlag{
			Name:  maxLevelFlag,
			Usage: "override the maximum tree depth",
		},
		&cli.IntFlag{
			Name:  idealCountFlag,
			Usage: "override the number of objects a leaf may hold before it is subdivided",
		},
		&cli.StringFlag{
			Name:  pngFlag,
			Usage: "render the tree to `FILE`",
		},
		&cli.StringFlag{
			Name:  displayFlag,
			Usage: "octants to render: none, all, leaves or octant",
		},
	}

	return &cli.App{
		Name:            "octree",
		Usage:           "build and inspect broad-phase octrees",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  logFileFlag,
				Usage: "also write logs to `FILE`, rotated at 10MB",
			},
		},
		Before: func(c *cli.Context) error {
			var logger logging.Logger
			if c.Bool(debugFlag) {
				logger = logging.NewDebugLogger("octree")
			} else {
				logger = logging.NewLogger("octree")
			}
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]interface{}{}
			}
			if path := c.String(logFileFlag); path != "" {
				logFile := logging.NewFileAppender(path, 10, 3)
				logger.AddAppender(logFile)
				c.App.Metadata[logFileKey] = logFile
			}
			config.InitLoggingSettings(logger, c.Bool(debugFlag))
			c.App.Metadata[loggerKey] = logger
			return nil
		},
		After: func(c *cli.Context) error {
			var errs error
			if logger, ok := c.App.Metadata[loggerKey].(logging.Logger); ok {
				errs = multierr.Append(errs, logger.Sync())
			}
			if logFile, ok := c.App.Metadata[logFileKey].(*logging.FileAppender); ok {
				errs = multierr.Append(errs, logFile.Close())
			}
			return errs
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "build a tree over a scene and print its leaves",
				Flags:  buildFlags,
				Action: BuildAction,
			},
			{
				Name:  "watch",
				Usage: "rebuild the tree whenever the scene or config changes",
				Flags: append(buildFlags, &cli.DurationFlag{
					Name:  debounceFlag,
					Usage: "wait this long after the last change before rebuilding",
					Value: 200 * time.Millisecond,
				}),
				Action: WatchAction,
			},
		},
	}
}

func loggerFrom(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerKey].(logging.Logger); ok {
		return logger
	}
	return logging.NewLogger("octree")
}

func optionsFrom(c *cli.Context) buildOptions {
	opts := buildOptions{
		configPath: c.String(configFlag),
		scenePath:  c.String(sceneFlag),
		pngPath:    c.String(pngFlag),
		display:    c.String(displayFlag),
	}
	if c.IsSet(maxLevelFlag) {
		level := uint32(c.Uint(maxLevelFlag))
		opts.maxLevel = &level
	}
	if c.IsSet(idealCountFlag) {
		count := c.Int(idealCountFlag)
		opts.idealCount = &count
	}
	return opts
}
