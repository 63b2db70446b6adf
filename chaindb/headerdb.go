package chaindb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// HeaderDB is the header-scoped view of a chain database. It is registered
// as its own capability so header-only workers never see body or receipt
// operations.
type HeaderDB struct {
	db *ChainDB
}

// NewHeaderDB wraps a chain database as a header-only view.
func NewHeaderDB(db *ChainDB) *HeaderDB {
	return &HeaderDB{db: db}
}

func (h *HeaderDB) PersistHeader(header *types.Header) error {
	return h.db.PersistHeader(header)
}

func (h *HeaderDB) GetCanonicalHead() (*types.Header, error) {
	return h.db.GetCanonicalHead()
}

func (h *HeaderDB) GetHeaderByHash(hash common.Hash) (*types.Header, error) {
	return h.db.GetHeaderByHash(hash)
}

func (h *HeaderDB) GetHeaderByNumber(number uint64) (*types.Header, error) {
	return h.db.GetHeaderByNumber(number)
}

func (h *HeaderDB) HasHeader(hash common.Hash, number uint64) (bool, error) {
	return h.db.HasHeader(hash, number)
}

// HeaderChain maintains a linked run of headers on top of the canonical
// chain. It validates linkage before persisting anything.
type HeaderChain struct {
	db *ChainDB
}

// NewHeaderChain wraps a chain database as a header chain.
func NewHeaderChain(db *ChainDB) *HeaderChain {
	return &HeaderChain{db: db}
}

func (hc *HeaderChain) GetCanonicalHead() (*types.Header, error) {
	return hc.db.GetCanonicalHead()
}

// PersistHeaderChain persists a run of headers. The first header must extend
// the current canonical head and each following header must link to its
// predecessor; nothing is written when validation fails.
func (hc *HeaderChain) PersistHeaderChain(headers []*types.Header) error {
	if len(headers) == 0 {
		return nil
	}

	head, err := hc.db.GetCanonicalHead()
	if err != nil {
		return err
	}
	prevHash, prevNumber := head.Hash(), head.Number.Uint64()
	for i, header := range headers {
		if header.ParentHash != prevHash {
			return errors.Errorf("header %d does not link to its parent", i)
		}
		if header.Number.Uint64() != prevNumber+1 {
			return errors.Errorf("header %d has non-sequential number %d", i, header.Number.Uint64())
		}
		prevHash, prevNumber = header.Hash(), header.Number.Uint64()
	}

	for _, header := range headers {
		if err := hc.db.PersistHeader(header); err != nil {
			return err
		}
	}
	return nil
}
