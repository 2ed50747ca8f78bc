package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/pkg/buildinfo"
	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/config"
	"github.com/matzehuels/archdiagram/pkg/observability"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.Name
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfgFile string
	cfg     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the configuration is loaded, the logger is
// attached to the command context, and logging observability hooks are
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "archdiagram draws cloud architecture diagrams",
		Long: `archdiagram declares infrastructure services as nodes, groups them into nested
clusters, connects them, and renders the result with Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default ./archdiagram.yaml)")

	// Register all subcommands
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.Logger.GetLevel() > log.DebugLevel {
		if level, err := log.ParseLevel(strings.ToLower(cfg.Logging.Level)); err == nil {
			c.SetLogLevel(level)
		}
	}

	hooks := &logHooks{logger: c.Logger}
	observability.SetRenderHooks(hooks)
	observability.SetCacheHooks(hooks)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// settings returns the loaded configuration, or the defaults when commands
// run without the root pre-run (as in tests).
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine creates the rendering engine for CLI use, wrapped in the
// configured artifact cache. The returned close function releases the cache.
func (c *CLI) newEngine(ctx context.Context, noCache bool, scale float64) (render.Engine, func(), error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	engine := render.Cached(&render.Graphviz{Scale: scale}, store, c.settings().Cache.TTL)
	return engine, func() { store.Close() }, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.settings()
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		store, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return store, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			loggerFromContext(ctx).Warnf("Artifact cache disabled: %v", err)
			return cache.NewNullCache(), nil
		}
		store, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return store, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: cache.dir from the config, or
// the XDG cache home (~/.cache/archdiagram/).
func (c *CLI) cacheDir() (string, error) {
	return c.settings().CacheDir()
}
