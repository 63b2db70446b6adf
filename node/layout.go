// Package node establishes a node instance's on-disk layout and identity.
//
// A Layout describes where a node keeps its database, logs and nodekey under
// one base data directory:
//
//	<DataDir>/database/
//	<DataDir>/logs/<Name>.log
//	<DataDir>/nodekey
//
// Ensure creates the layout idempotently. Directories outside the managed
// root are never created lazily; they must pre-exist or bootstrap fails with
// a MissingPathError.
package node

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultInstanceName names the node instance, and thereby its log file,
// when the operator does not pass an identity.
const DefaultInstanceName = "axiom"

// MissingPathError reports a required directory outside the managed root
// that does not exist. It is fatal to node startup.
type MissingPathError struct {
	Path string
}

func (e *MissingPathError) Error() string {
	return fmt.Sprintf("required directory does not exist: `%s`", e.Path)
}

// Layout describes a node's filesystem layout. The zero value is not usable;
// DataDir must be set.
type Layout struct {
	// DataDir is the base directory the node stores everything under.
	DataDir string

	// Name is the instance name; it names the log file. Empty means
	// DefaultInstanceName.
	Name string

	// ManagedRoot is the directory under which missing base directories may
	// be created automatically. Empty means DefaultDataRoot().
	ManagedRoot string

	// NodeKeyPath optionally overrides where the node identity key lives.
	// Empty means <DataDir>/nodekey.
	NodeKeyPath string

	// IPCEndpoint optionally overrides the host endpoint address. Relative
	// paths resolve under DataDir. Empty means <DataDir>/chaindb.ipc.
	IPCEndpoint string

	// nodeKey is populated by Ensure (or an IsInitialized probe that finds
	// a valid key on disk).
	nodeKey *ecdsa.PrivateKey
}

// DatabaseDir returns the chain database directory.
func (l *Layout) DatabaseDir() string {
	return filepath.Join(l.DataDir, "database")
}

// LogDir returns the log directory.
func (l *Layout) LogDir() string {
	return filepath.Join(l.DataDir, "logs")
}

// LogFile returns the instance's log file path.
func (l *Layout) LogFile() string {
	return filepath.Join(l.LogDir(), l.instanceName()+".log")
}

// IPCPath returns the host endpoint address for this data directory. One
// endpoint exists per data directory.
func (l *Layout) IPCPath() string {
	if l.IPCEndpoint != "" {
		if filepath.IsAbs(l.IPCEndpoint) {
			return l.IPCEndpoint
		}
		return filepath.Join(l.DataDir, l.IPCEndpoint)
	}
	return filepath.Join(l.DataDir, "chaindb.ipc")
}

// NodeKey returns the node identity key. It is non-nil once Ensure has
// succeeded.
func (l *Layout) NodeKey() *ecdsa.PrivateKey {
	return l.nodeKey
}

func (l *Layout) instanceName() string {
	if l.Name == "" {
		return DefaultInstanceName
	}
	return l.Name
}

func (l *Layout) nodekeyPath() string {
	if l.NodeKeyPath != "" {
		return l.NodeKeyPath
	}
	return filepath.Join(l.DataDir, "nodekey")
}

func (l *Layout) managedRoot() string {
	if l.ManagedRoot != "" {
		return l.ManagedRoot
	}
	return DefaultDataRoot()
}

// DefaultDataRoot returns the managed root: the default base directory under
// which node data directories may be created automatically.
func DefaultDataRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".axiom")
}

// underManagedRoot reports whether path lies under root. Both paths are
// compared in cleaned absolute form.
func underManagedRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	if absPath == absRoot {
		return true
	}
	return strings.HasPrefix(absPath, absRoot+string(filepath.Separator))
}
