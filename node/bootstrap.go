package node

import (
	"crypto/ecdsa"
	"io/ioutil"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// IsInitialized reports whether the layout has been fully bootstrapped:
// the base, database and log directories exist, the log file exists, the
// nodekey file exists and parses. It is a read-only probe; the filesystem is
// never modified.
func IsInitialized(l *Layout) bool {
	if !pathExists(l.DataDir) {
		return false
	}
	if !pathExists(l.DatabaseDir()) {
		return false
	}
	if !pathExists(l.LogDir()) {
		return false
	}
	if !pathExists(l.LogFile()) {
		return false
	}
	if !pathExists(l.nodekeyPath()) {
		return false
	}
	key, err := loadNodeKey(l.nodekeyPath())
	if err != nil {
		return false
	}
	l.nodeKey = key
	return true
}

// Ensure idempotently establishes the on-disk layout and the node identity
// key. Repeat calls leave an already-correct layout unchanged and never
// regenerate an existing nodekey.
func Ensure(l *Layout) error {
	log := logrus.WithField("datadir", l.DataDir)

	// Base dir: created lazily only under the managed root.
	if !pathExists(l.DataDir) {
		if !underManagedRoot(l.DataDir, l.managedRoot()) {
			return &MissingPathError{Path: l.DataDir}
		}
		if err := os.MkdirAll(l.DataDir, 0o755); err != nil {
			return errors.Wrap(err, "create data dir")
		}
		log.Info("created node data directory")
	}

	// Log dir follows the same managed-root rule; the log file is touched
	// once the dir exists.
	if !pathExists(l.LogDir()) {
		if !underManagedRoot(l.LogDir(), l.managedRoot()) {
			return &MissingPathError{Path: l.LogDir()}
		}
		if err := os.MkdirAll(l.LogDir(), 0o755); err != nil {
			return errors.Wrap(err, "create log dir")
		}
	}
	if !pathExists(l.LogFile()) {
		f, err := os.OpenFile(l.LogFile(), os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "create log file")
		}
		f.Close()
	}

	// The database dir is always created, managed root or not.
	if err := os.MkdirAll(l.DatabaseDir(), 0o755); err != nil {
		return errors.Wrap(err, "create database dir")
	}

	// Nodekey: generate once, then reuse forever.
	keyPath := l.nodekeyPath()
	if pathExists(keyPath) {
		key, err := loadNodeKey(keyPath)
		if err != nil {
			return errors.Wrapf(err, "load nodekey %s", keyPath)
		}
		l.nodeKey = key
		return nil
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return errors.Wrap(err, "generate nodekey")
	}
	if err := ioutil.WriteFile(keyPath, crypto.FromECDSA(key), 0o600); err != nil {
		return errors.Wrapf(err, "persist nodekey %s", keyPath)
	}
	l.nodeKey = key
	log.WithField("path", keyPath).Info("generated node identity key")
	return nil
}

// loadNodeKey reads a raw secp256k1 private key from disk.
func loadNodeKey(path string) (*ecdsa.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return crypto.ToECDSA(raw)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
