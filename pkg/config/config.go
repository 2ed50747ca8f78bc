// Package config loads archdiagram settings from a config file and the
// environment.
//
// Settings are read, lowest precedence first, from built-in defaults, an
// archdiagram.yaml file (in the working directory or
// $XDG_CONFIG_HOME/archdiagram), and ARCHDIAGRAM_* environment variables
// (ARCHDIAGRAM_CACHE_BACKEND for cache.backend). Command-line flags are
// applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/render"
)

const (
	// Name is the config file base name and the config directory name.
	Name = "archdiagram"

	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "ARCHDIAGRAM"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete archdiagram configuration.
type Config struct {
	// Output controls where and how diagrams are written.
	Output OutputConfig `mapstructure:"output"`

	// Cache controls the rendered artifact cache.
	Cache CacheConfig `mapstructure:"cache"`

	// Logging controls CLI log output.
	Logging LoggingConfig `mapstructure:"logging"`
}

// OutputConfig holds rendering defaults.
type OutputConfig struct {
	// Dir is the directory artifacts are written to.
	Dir string `mapstructure:"dir"`

	// Formats lists the output formats (png, svg, jpg, pdf, dot, json).
	Formats []string `mapstructure:"formats"`

	// Direction is the rank direction (TB, BT, LR, RL). Empty keeps the
	// diagram's own.
	Direction string `mapstructure:"direction"`

	// Layout is the Graphviz layout engine (dot, neato, fdp, circo, twopi).
	Layout string `mapstructure:"layout"`
}

// CacheConfig holds artifact cache settings.
type CacheConfig struct {
	// Backend is one of file, redis or none.
	Backend string `mapstructure:"backend"`

	// Dir is the file cache directory. Empty uses $XDG_CACHE_HOME/archdiagram.
	Dir string `mapstructure:"dir"`

	// TTL is how long rendered artifacts stay valid.
	TTL time.Duration `mapstructure:"ttl"`

	// Redis configures the redis backend.
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`
}

// Layouts lists the Graphviz layout engines accepted in output.layout.
var Layouts = []string{"dot", "neato", "fdp", "sfdp", "circo", "twopi", "osage"}

// Load reads the configuration. An explicit cfgFile must exist; otherwise
// a missing config file is not an error and defaults apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, Name))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults always decode.
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.formats", []string{string(render.DefaultFormat)})
	v.SetDefault("output.direction", "")
	v.SetDefault("output.layout", "dot")

	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.ttl", "168h")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", Name+":")

	v.SetDefault("logging.level", "info")
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := c.Formats(); err != nil {
		return err
	}

	if c.Output.Direction != "" {
		if _, err := diagram.ParseDirection(c.Output.Direction); err != nil {
			return err
		}
	}

	if !contains(Layouts, c.Output.Layout) {
		return fmt.Errorf("invalid layout %q (must be one of %s)", c.Output.Layout, strings.Join(Layouts, ", "))
	}

	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("invalid cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}

	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for the redis backend")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}

	return nil
}

// Formats parses Output.Formats.
func (c *Config) Formats() ([]render.Format, error) {
	return render.ParseFormats(strings.Join(c.Output.Formats, ","))
}

// CacheDir returns the file cache directory, defaulting to the XDG cache
// home.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, Name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", Name), nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
