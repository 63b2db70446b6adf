package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// NetworkFlags selects the chain the node serves.

func NetworkFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "network",
			Usage: "Network preset to run (mainnet|ropsten)",
			Value: "mainnet",
		},
		cli.StringFlag{
			Name:  "genesis",
			Usage: "Path to a custom genesis config JSON (overrides --network)",
		},
	}
}
