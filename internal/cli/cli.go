// Package cli implements the phylotree command-line interface.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylotree/pkg/buildinfo"
	"github.com/matzehuels/phylotree/pkg/cache"
	"github.com/matzehuels/phylotree/pkg/config"
	"github.com/matzehuels/phylotree/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "phylotree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the user's
// config file loaded (built-in defaults if none exists).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}

	cfg, err := config.Load("")
	if err != nil {
		c.Logger.Warn("ignoring config file", "err", err)
		cfg = config.Default()
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Phylotree builds and visualizes phylogenetic trees",
		Long:         `Phylotree is a CLI tool for building phylogenetic trees from sequence data (via MAFFT and IQ-TREE) and rendering them as circular, rectangular, radial or heatmap figures.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner wired to the configured cache
// backend. Cache setup failures degrade to no caching rather than
// blocking the run.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	runner := pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
	if days := c.Config.Cache.TTLDays; days > 0 {
		ttl := time.Duration(days) * 24 * time.Hour
		runner.TTLTree = ttl
		runner.TTLArtifact = ttl
	}
	return runner
}

func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Backend == "off" {
		return cache.NewNullCache()
	}

	if c.Config.Cache.Backend == "redis" {
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled",
				"addr", c.Config.Cache.RedisAddr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	}

	fc, err := cache.NewFileCache(c.cacheDir())
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the file cache directory, honoring the config
// override and falling back to ~/.cache/phylotree.
func (c *CLI) cacheDir() string {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	return config.DefaultCacheDir()
}
