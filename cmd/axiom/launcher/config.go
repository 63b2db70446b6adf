// This file maps CLI context to the launcher config: defaults first, then an
// optional JSON config file, then flag overrides.

package launcher

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node    NodeConfig
	Network NetworkConfig
	Store   StoreConfig
}

type NodeConfig struct {
	DataDir     string
	Name        string
	NodeKeyPath string
	IPCPath     string
	Logging     LoggingConfig
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

type NetworkConfig struct {
	Name        string
	GenesisPath string
}

type StoreConfig struct {
	Preset  string
	CacheMB int
	GCMode  string
}

func defaultConfig() Config {
	defaults := DefaultConfig()
	return Config{
		Node: NodeConfig{
			DataDir: resolvePath(defaults.Node.DataDir),
			Name:    defaults.Node.Name,
			IPCPath: defaults.Node.IPCPath,
			Logging: LoggingConfig{
				Verbosity: defaults.Logging.Verbosity,
				Format:    defaults.Logging.Format,
				Color:     defaults.Logging.Color,
			},
		},
		Network: NetworkConfig{
			Name: defaults.Network.Name,
		},
		Store: StoreConfig{
			Preset: defaults.Storage.Preset,
		},
	}
}

// MakeAllConfigs merges defaults, an optional config file, and CLI flag
// overrides into a single config struct.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "load config file %s", file)
		}
	}

	applyCLIOverrides(ctx, &cfg)
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.String("datadir"))
	}
	if ctx.IsSet("identity") {
		cfg.Node.Name = ctx.String("identity")
	}
	if ctx.IsSet("nodekey") {
		cfg.Node.NodeKeyPath = resolvePath(ctx.String("nodekey"))
	}
	if ctx.IsSet("ipc.path") {
		cfg.Node.IPCPath = ctx.String("ipc.path")
	}

	if ctx.IsSet("log.format") {
		cfg.Node.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Node.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Node.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Node.Logging.SentryDSN = ctx.String("sentry.dsn")
	}

	if ctx.IsSet("network") {
		cfg.Network.Name = ctx.String("network")
	}
	if ctx.IsSet("genesis") {
		cfg.Network.GenesisPath = resolvePath(ctx.String("genesis"))
	}

	if ctx.IsSet("db.preset") {
		cfg.Store.Preset = ctx.String("db.preset")
	}
	if ctx.IsSet("cache") {
		cfg.Store.CacheMB = ctx.Int("cache")
	}
	if ctx.IsSet("gcmode") {
		cfg.Store.GCMode = ctx.String("gcmode")
	}
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(guessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func guessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
