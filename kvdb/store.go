// Package kvdb provides the raw key-value storage layer: a minimal Store
// interface, a LevelDB-backed implementation for on-disk databases, and
// named tuning presets for the database caches.
package kvdb

// Store is the raw key-value store contract the chain database is built on.
// Get on a missing key returns the backend's not-found error; callers that
// only need existence use Has.
type Store interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Close() error
}
