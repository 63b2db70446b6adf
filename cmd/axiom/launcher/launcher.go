package launcher

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/evalphobia/logrus_sentry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/axiomchain/go-axiom/chain"
	"github.com/axiomchain/go-axiom/chaindb"
	"github.com/axiomchain/go-axiom/flags"
	"github.com/axiomchain/go-axiom/genesis"
	"github.com/axiomchain/go-axiom/kvdb"
	"github.com/axiomchain/go-axiom/node"
	"github.com/axiomchain/go-axiom/remote"
)

// Launch runs the node: bootstrap the data directory, open and initialize
// the chain database, and serve the chain objects on the host endpoint until
// interrupted.
func Launch(args []string) error {
	app := flags.NewApp()
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NodeFlags()...)
	app.Flags = append(app.Flags, flags.NetworkFlags()...)
	app.Action = launch
	return app.Run(args)
}

func launch(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Node.Logging); err != nil {
		return err
	}

	layout := &node.Layout{
		DataDir:     cfg.Node.DataDir,
		Name:        cfg.Node.Name,
		NodeKeyPath: cfg.Node.NodeKeyPath,
		IPCEndpoint: cfg.Node.IPCPath,
	}
	if err := node.Ensure(layout); err != nil {
		return err
	}

	logFile, err := os.OpenFile(layout.LogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "open log file %s", layout.LogFile())
	}
	defer logFile.Close()
	logrus.SetOutput(io.MultiWriter(os.Stderr, logFile))

	profile, err := resolveProfile(cfg.Network)
	if err != nil {
		return err
	}

	preset, err := resolvePreset(cfg.Store)
	if err != nil {
		return err
	}
	store, err := kvdb.OpenLevelDB(layout.DatabaseDir(), preset)
	if err != nil {
		return err
	}
	defer store.Close()

	db := chaindb.New(store)
	if err := chaindb.Initialize(profile, db); err != nil {
		return err
	}

	host := remote.NewHost(layout.IPCPath())
	capabilities := []*remote.Capability{
		remote.DBCapability(db.Store()),
		remote.ChainDBCapability(db),
		remote.HeaderDBCapability(chaindb.NewHeaderDB(db)),
		remote.HeaderChainCapability(chaindb.NewHeaderChain(db)),
		remote.ChainCapability(chain.New(profile, db)),
	}
	for _, c := range capabilities {
		if err := host.Register(c); err != nil {
			return err
		}
	}
	if err := host.Start(); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"network":  profile.Name,
		"datadir":  cfg.Node.DataDir,
		"endpoint": host.Addr(),
	}).Info("node started")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-interrupt
	logrus.Info("shutting down")

	return host.Shutdown()
}

// resolveProfile picks the network: a custom genesis file wins over the
// preset name.
func resolveProfile(cfg NetworkConfig) (genesis.Profile, error) {
	if cfg.GenesisPath != "" {
		f, err := os.Open(cfg.GenesisPath)
		if err != nil {
			return genesis.Profile{}, errors.Wrapf(err, "open genesis config %s", cfg.GenesisPath)
		}
		defer f.Close()
		raw, err := genesis.FromJSON(f)
		if err != nil {
			return genesis.Profile{}, err
		}
		return genesis.FromRaw(raw)
	}

	switch cfg.Name {
	case "mainnet":
		return genesis.Mainnet(), nil
	case "ropsten":
		return genesis.Ropsten(), nil
	default:
		return genesis.Profile{}, errors.Errorf("unknown network %q (valid: mainnet, ropsten)", cfg.Name)
	}
}

// resolvePreset loads the named preset and lets single-knob flags override
// fields inside it.
func resolvePreset(cfg StoreConfig) (kvdb.Preset, error) {
	preset, err := kvdb.GetPresetByName(cfg.Preset)
	if err != nil {
		return kvdb.Preset{}, err
	}
	kvdb.ApplyPreset(&preset, kvdb.Preset{CacheMB: cfg.CacheMB, GCMode: cfg.GCMode})
	return preset, nil
}

var verbosityLevels = []logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

func setupLogging(cfg LoggingConfig) error {
	switch cfg.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			FullTimestamp: true,
		})
	default:
		return errors.Errorf("unknown log format %q (valid: text, json)", cfg.Format)
	}

	if cfg.Verbosity < 0 || cfg.Verbosity >= len(verbosityLevels) {
		return errors.Errorf("log verbosity %d out of range [0, %d]", cfg.Verbosity, len(verbosityLevels)-1)
	}
	logrus.SetLevel(verbosityLevels[cfg.Verbosity])

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return errors.Wrap(err, "set up sentry reporting")
		}
		logrus.AddHook(hook)
	}
	return nil
}
