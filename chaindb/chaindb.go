// Package chaindb implements the chain database: header, body and receipt
// storage over a raw key-value Store, canonical-head tracking, and the
// idempotent genesis initializer.
//
// Key concepts:
//   - ChainDB: full chain database (headers + bodies + receipts)
//   - HeaderDB / HeaderChain: header-scoped views over the same store
//   - Initialize: persists the genesis header exactly once per database
//
// The hosting process is the sole mutator. Serialization across client
// connections is the object host's job; ChainDB additionally guards the
// canonical-head update itself, since several header views share one store.
package chaindb

import (
	"sync"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/axiomchain/go-axiom/kvdb"
)

// ChainDB stores the chain's headers, bodies and receipts in a raw
// key-value store and tracks the canonical head.
type ChainDB struct {
	store kvdb.Store

	// headMu makes the head read-decide-advance in PersistHeader atomic.
	// Several views (HeaderDB, HeaderChain, the chain object) share one
	// ChainDB; their writes must not interleave the head update even when
	// they arrive through different capabilities.
	headMu sync.Mutex
}

// New wraps a raw store as a chain database.
func New(store kvdb.Store) *ChainDB {
	return &ChainDB{store: store}
}

// Store exposes the underlying raw store. The object host registers it as
// the `db` capability.
func (db *ChainDB) Store() kvdb.Store {
	return db.store
}

// PersistHeader stores a header and maintains the canonical chain:
// a genesis header on an empty database becomes the head, and a header
// extending the current head advances it. Any other header is stored as a
// side header without touching the canonical mapping.
func (db *ChainDB) PersistHeader(header *types.Header) error {
	db.headMu.Lock()
	defer db.headMu.Unlock()

	encoded, err := rlp.EncodeToBytes(header)
	if err != nil {
		return errors.Wrap(err, "encode header")
	}
	hash := header.Hash()
	number := header.Number.Uint64()

	if err := db.store.Put(headerKey(number, hash), encoded); err != nil {
		return errors.Wrap(err, "store header")
	}
	if err := db.store.Put(headerNumberKey(hash), bigendian.Uint64ToBytes(number)); err != nil {
		return errors.Wrap(err, "store header number index")
	}

	advance := false
	head, err := db.GetCanonicalHead()
	switch {
	case err == nil:
		advance = header.ParentHash == head.Hash() && number == head.Number.Uint64()+1
	case IsNotFound(err):
		advance = number == 0
	default:
		return err
	}
	if !advance {
		return nil
	}

	if err := db.store.Put(canonicalHashKey(number), hash.Bytes()); err != nil {
		return errors.Wrap(err, "store canonical hash")
	}
	if err := db.store.Put(headHeaderKey, hash.Bytes()); err != nil {
		return errors.Wrap(err, "store head pointer")
	}
	return nil
}

// GetCanonicalHead returns the current canonical tip header. On a database
// with no head yet it fails with a NotFoundError.
func (db *ChainDB) GetCanonicalHead() (*types.Header, error) {
	ok, err := db.store.Has(headHeaderKey)
	if err != nil {
		return nil, errors.Wrap(err, "probe head pointer")
	}
	if !ok {
		return nil, errCanonicalHeadNotFound()
	}
	raw, err := db.store.Get(headHeaderKey)
	if err != nil {
		return nil, errors.Wrap(err, "read head pointer")
	}
	return db.GetHeaderByHash(common.BytesToHash(raw))
}

// GetHeader returns the header with the given hash and number.
func (db *ChainDB) GetHeader(hash common.Hash, number uint64) (*types.Header, error) {
	ok, err := db.store.Has(headerKey(number, hash))
	if err != nil {
		return nil, errors.Wrap(err, "probe header")
	}
	if !ok {
		return nil, &NotFoundError{Msg: "header " + hash.Hex() + " not found"}
	}
	raw, err := db.store.Get(headerKey(number, hash))
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	header := new(types.Header)
	if err := rlp.DecodeBytes(raw, header); err != nil {
		return nil, errors.Wrap(err, "decode header")
	}
	return header, nil
}

// GetHeaderByHash returns the header with the given hash, resolving its
// number through the hash-to-number index.
func (db *ChainDB) GetHeaderByHash(hash common.Hash) (*types.Header, error) {
	ok, err := db.store.Has(headerNumberKey(hash))
	if err != nil {
		return nil, errors.Wrap(err, "probe header number")
	}
	if !ok {
		return nil, &NotFoundError{Msg: "header " + hash.Hex() + " not found"}
	}
	raw, err := db.store.Get(headerNumberKey(hash))
	if err != nil {
		return nil, errors.Wrap(err, "read header number")
	}
	return db.GetHeader(hash, bigendian.BytesToUint64(raw))
}

// GetCanonicalHash returns the canonical hash at the given height.
func (db *ChainDB) GetCanonicalHash(number uint64) (common.Hash, error) {
	ok, err := db.store.Has(canonicalHashKey(number))
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "probe canonical hash")
	}
	if !ok {
		return common.Hash{}, &NotFoundError{Msg: "no canonical block at height"}
	}
	raw, err := db.store.Get(canonicalHashKey(number))
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "read canonical hash")
	}
	return common.BytesToHash(raw), nil
}

// GetHeaderByNumber returns the canonical header at the given height.
func (db *ChainDB) GetHeaderByNumber(number uint64) (*types.Header, error) {
	hash, err := db.GetCanonicalHash(number)
	if err != nil {
		return nil, err
	}
	return db.GetHeader(hash, number)
}

// HasHeader reports whether the header with the given hash and number is
// stored.
func (db *ChainDB) HasHeader(hash common.Hash, number uint64) (bool, error) {
	return db.store.Has(headerKey(number, hash))
}

// PersistBody stores a block body's raw RLP.
func (db *ChainDB) PersistBody(number uint64, hash common.Hash, body []byte) error {
	return errors.Wrap(db.store.Put(bodyKey(number, hash), body), "store body")
}

// GetBody returns a block body's raw RLP.
func (db *ChainDB) GetBody(number uint64, hash common.Hash) ([]byte, error) {
	ok, err := db.store.Has(bodyKey(number, hash))
	if err != nil {
		return nil, errors.Wrap(err, "probe body")
	}
	if !ok {
		return nil, &NotFoundError{Msg: "body " + hash.Hex() + " not found"}
	}
	return db.store.Get(bodyKey(number, hash))
}

// PersistReceipts stores a block's receipts as raw RLP.
func (db *ChainDB) PersistReceipts(number uint64, hash common.Hash, receipts []byte) error {
	return errors.Wrap(db.store.Put(receiptsKey(number, hash), receipts), "store receipts")
}

// GetReceipts returns a block's receipts as raw RLP.
func (db *ChainDB) GetReceipts(number uint64, hash common.Hash) ([]byte, error) {
	ok, err := db.store.Has(receiptsKey(number, hash))
	if err != nil {
		return nil, errors.Wrap(err, "probe receipts")
	}
	if !ok {
		return nil, &NotFoundError{Msg: "receipts " + hash.Hex() + " not found"}
	}
	return db.store.Get(receiptsKey(number, hash))
}
