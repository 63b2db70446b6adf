package chaindb

import (
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomchain/go-axiom/genesis"
)

func newTestDB() *ChainDB {
	return New(memorydb.New())
}

// childHeader builds a header extending parent.
func childHeader(parent *types.Header) *types.Header {
	return &types.Header{
		ParentHash:  parent.Hash(),
		UncleHash:   types.EmptyUncleHash,
		Root:        common.HexToHash("0xfe"),
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  big.NewInt(1),
		Number:      new(big.Int).Add(parent.Number, big.NewInt(1)),
		GasLimit:    parent.GasLimit,
		Time:        parent.Time + 1,
	}
}

func TestGetCanonicalHead_emptyDB(t *testing.T) {
	db := newTestDB()

	_, err := db.GetCanonicalHead()
	require.Error(t, err)
	assert.True(t, IsNotFound(err), "expected NotFoundError, got %T: %v", err, err)
	assert.Equal(t, "canonical head not found", err.Error())
}

// TestPersistHeader_genesisBecomesHead verifies that a genesis header on an
// empty database becomes the canonical head.
func TestPersistHeader_genesisBecomesHead(t *testing.T) {
	db := newTestDB()
	gen := genesis.Mainnet().Genesis()

	require.NoError(t, db.PersistHeader(gen))

	head, err := db.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, gen.Hash(), head.Hash())

	hash, err := db.GetCanonicalHash(0)
	require.NoError(t, err)
	assert.Equal(t, gen.Hash(), hash)
}

// TestPersistHeader_extendsHead verifies that headers linking to the head
// advance the canonical chain one by one.
func TestPersistHeader_extendsHead(t *testing.T) {
	db := newTestDB()
	gen := genesis.Mainnet().Genesis()
	require.NoError(t, db.PersistHeader(gen))

	h1 := childHeader(gen)
	h2 := childHeader(h1)
	require.NoError(t, db.PersistHeader(h1))
	require.NoError(t, db.PersistHeader(h2))

	head, err := db.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, h2.Hash(), head.Hash())

	byNumber, err := db.GetHeaderByNumber(1)
	require.NoError(t, err)
	assert.Equal(t, h1.Hash(), byNumber.Hash())
}

// TestPersistHeader_sideHeaderKeepsHead verifies that a header not linking
// to the head is stored without moving the canonical pointer.
func TestPersistHeader_sideHeaderKeepsHead(t *testing.T) {
	db := newTestDB()
	gen := genesis.Mainnet().Genesis()
	require.NoError(t, db.PersistHeader(gen))

	side := childHeader(gen)
	side.ParentHash = common.HexToHash("0xbad")
	require.NoError(t, db.PersistHeader(side))

	head, err := db.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, gen.Hash(), head.Hash())

	// the side header itself is still retrievable by hash
	stored, err := db.GetHeaderByHash(side.Hash())
	require.NoError(t, err)
	assert.Equal(t, side.Hash(), stored.Hash())
}

func TestGetHeaderByHash_missing(t *testing.T) {
	db := newTestDB()

	_, err := db.GetHeaderByHash(common.HexToHash("0x01"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestBodiesAndReceipts(t *testing.T) {
	db := newTestDB()
	hash := common.HexToHash("0x42")

	require.NoError(t, db.PersistBody(1, hash, []byte("body-rlp")))
	require.NoError(t, db.PersistReceipts(1, hash, []byte("receipts-rlp")))

	body, err := db.GetBody(1, hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("body-rlp"), body)

	receipts, err := db.GetReceipts(1, hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("receipts-rlp"), receipts)

	_, err = db.GetBody(2, hash)
	assert.True(t, IsNotFound(err))
}

// TestHeaderChain_persistRun verifies linked-run persistence and the
// all-or-nothing validation.
func TestHeaderChain_persistRun(t *testing.T) {
	db := newTestDB()
	gen := genesis.Ropsten().Genesis()
	require.NoError(t, db.PersistHeader(gen))

	hc := NewHeaderChain(db)
	h1 := childHeader(gen)
	h2 := childHeader(h1)
	h3 := childHeader(h2)

	require.NoError(t, hc.PersistHeaderChain([]*types.Header{h1, h2, h3}))
	head, err := hc.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, h3.Hash(), head.Hash())

	// a broken run is rejected before anything is written
	h4 := childHeader(h3)
	h5 := childHeader(h3) // wrong: does not link to h4
	h5.Extra = []byte{1}
	err = hc.PersistHeaderChain([]*types.Header{h4, h5})
	require.Error(t, err)

	head, err = hc.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, h3.Hash(), head.Hash(), "broken run must not advance the head")
}

func TestHeaderDB_delegates(t *testing.T) {
	db := newTestDB()
	hdb := NewHeaderDB(db)
	gen := genesis.Mainnet().Genesis()

	require.NoError(t, hdb.PersistHeader(gen))

	head, err := hdb.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, gen.Hash(), head.Hash())

	ok, err := hdb.HasHeader(gen.Hash(), 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestPersistHeader_concurrentViews verifies that competing writes arriving
// through different views over one ChainDB never interleave the head update:
// exactly one of the competing children wins and the rest land as side
// headers.
func TestPersistHeader_concurrentViews(t *testing.T) {
	db := newTestDB()
	gen := genesis.Mainnet().Genesis()
	require.NoError(t, db.PersistHeader(gen))

	hdb := NewHeaderDB(db)
	candidates := make([]*types.Header, 8)
	for i := range candidates {
		h := childHeader(gen)
		h.Extra = []byte{byte(i)}
		candidates[i] = h
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(candidates))
	for i, h := range candidates {
		wg.Add(1)
		go func(i int, h *types.Header) {
			defer wg.Done()
			if i%2 == 0 {
				errs <- db.PersistHeader(h)
			} else {
				errs <- hdb.PersistHeader(h)
			}
		}(i, h)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	head, err := db.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), head.Number.Uint64())
	assert.Equal(t, gen.Hash(), head.ParentHash)

	hash, err := db.GetCanonicalHash(1)
	require.NoError(t, err)
	assert.Equal(t, head.Hash(), hash)

	// every candidate is stored, winner or not
	for _, h := range candidates {
		ok, err := db.HasHeader(h.Hash(), 1)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
