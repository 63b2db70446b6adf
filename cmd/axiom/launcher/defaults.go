package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before config files and flags override them.

type Defaults struct {
	Node    NodeDefaults
	Network NetworkDefaults
	Storage StorageDefaults
	Logging LoggingDefaults
}

// NodeDefaults captures top-level node settings (datadir, identity).
type NodeDefaults struct {
	DataDir string // Filesystem root where the node stores everything (database, logs, nodekey). Changing it lets you run multiple nodes or keep test data isolated.
	Name    string // Human-readable node instance name; it names the log file so operators can tell instances apart.
	IPCPath string // Filename of the chain database host socket, resolved under DataDir unless absolute. Client processes attach here to share the node's chain objects, the same way geth attach talks to geth.ipc.
}

// NetworkDefaults selects the chain the node serves.
type NetworkDefaults struct {
	Name string // Network preset name (mainnet, ropsten). A custom genesis file on the command line takes precedence over the preset.
}

// StorageDefaults configures database/cache behaviour.
type StorageDefaults struct {
	Preset string // Database tuning preset name; individual cache/gcmode flags override single knobs inside the chosen preset.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    // Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string // Log output format (text vs json).
	Color     bool   // Whether to use ANSI color codes in logs (helpful on terminals, best disabled when piping to files).
}

// DefaultConfig returns a fully populated Defaults instance.
func DefaultConfig() Defaults {
	return Defaults{
		Node: NodeDefaults{
			DataDir: "~/.axiom",
			Name:    "axiom",
			IPCPath: "chaindb.ipc",
		},
		Network: NetworkDefaults{
			Name: "mainnet",
		},
		Storage: StorageDefaults{
			Preset: "default",
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
	}
}
