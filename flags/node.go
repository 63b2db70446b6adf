package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// NodeFlags holds knobs specific to the local node instance (datadir layout, identity, database tuning).

func NodeFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "identity",
			Usage: "Custom node instance name (names the log file)",
		},
		cli.StringFlag{
			Name:  "nodekey",
			Usage: "Override path to the node identity key (defaults to <datadir>/nodekey)",
		},
		cli.StringFlag{
			Name:  "db.preset",
			Usage: "Database tuning preset (default|lite|full|archive)",
			Value: "default",
		},
		cli.IntFlag{
			Name:  "cache",
			Usage: "Megabytes of memory allocated to database caching (overrides the preset)",
		},
		cli.StringFlag{
			Name:  "gcmode",
			Usage: "State retention strategy (light|full|archive, overrides the preset)",
		},
	}
}
