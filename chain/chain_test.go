package chain

import (
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomchain/go-axiom/chaindb"
	"github.com/axiomchain/go-axiom/genesis"
	"github.com/axiomchain/go-axiom/inter"
)

func newTestChain(t *testing.T, profile genesis.Profile) (*Chain, *chaindb.ChainDB) {
	db := chaindb.New(memorydb.New())
	require.NoError(t, chaindb.Initialize(profile, db))
	return New(profile, db), db
}

// nextBlock builds a block extending the given header.
func nextBlock(parent *types.Header) *inter.Block {
	return &inter.Block{
		Number:     idx.Block(parent.Number.Uint64() + 1),
		Time:       inter.FromUnix(int64(parent.Time) + 1),
		ParentHash: parent.Hash(),
		Root:       common.HexToHash("0x99"),
		GasLimit:   parent.GasLimit,
		GasUsed:    21_000,
	}
}

func TestImportBlock_advancesHead(t *testing.T) {
	c, db := newTestChain(t, genesis.Mainnet())
	gen, err := db.GetCanonicalHead()
	require.NoError(t, err)

	b1 := nextBlock(gen)
	h1, err := c.ImportBlock(b1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), h1.Number.Uint64())

	head, err := db.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, h1.Hash(), head.Hash())

	b2 := nextBlock(h1)
	h2, err := c.ImportBlock(b2)
	require.NoError(t, err)

	head, err = db.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, h2.Hash(), head.Hash())
}

// TestImportBlock_rejectsNonExtending verifies that a block not linking to
// the head fails with a ValidationError and leaves the head untouched.
func TestImportBlock_rejectsNonExtending(t *testing.T) {
	c, db := newTestChain(t, genesis.Mainnet())
	gen, err := db.GetCanonicalHead()
	require.NoError(t, err)

	stale := nextBlock(gen)
	stale.ParentHash = common.HexToHash("0xdead")

	_, err = c.ImportBlock(stale)
	require.Error(t, err)
	var vErr *ValidationError
	require.IsType(t, vErr, err)

	head, err := db.GetCanonicalHead()
	require.NoError(t, err)
	assert.Equal(t, gen.Hash(), head.Hash())
}

func TestImportBlock_rejectsWrongNumber(t *testing.T) {
	c, db := newTestChain(t, genesis.Mainnet())
	gen, err := db.GetCanonicalHead()
	require.NoError(t, err)

	b := nextBlock(gen)
	b.Number = 5

	_, err = c.ImportBlock(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not follow head")
}

func TestValidateChain(t *testing.T) {
	c, db := newTestChain(t, genesis.Mainnet())
	gen, err := db.GetCanonicalHead()
	require.NoError(t, err)

	h1, err := c.ImportBlock(nextBlock(gen))
	require.NoError(t, err)
	h2, err := c.ImportBlock(nextBlock(h1))
	require.NoError(t, err)

	require.NoError(t, c.ValidateChain([]*types.Header{gen, h1, h2}))

	// break the linkage
	require.Error(t, c.ValidateChain([]*types.Header{gen, h2}))
}

// TestVMClassForBlockNumber verifies the fork schedule lookup against the
// mainnet schedule boundaries.
func TestVMClassForBlockNumber(t *testing.T) {
	c, _ := newTestChain(t, genesis.Mainnet())

	tests := []struct {
		number uint64
		want   string
	}{
		{0, "Frontier"},
		{1149999, "Frontier"},
		{1150000, "Homestead"},
		{4370000, "Byzantium"},
		{12964999, "Berlin"},
		{12965000, "London"},
		{20000000, "London"},
	}

	for _, tt := range tests {
		got, err := c.VMClassForBlockNumber(tt.number)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("VMClassForBlockNumber(%d) = %q, want %q", tt.number, got, tt.want)
		}
	}
}

func TestVMClass_atHead(t *testing.T) {
	c, _ := newTestChain(t, genesis.Mainnet())

	// head is the genesis block
	class, err := c.VMClass()
	require.NoError(t, err)
	assert.Equal(t, "Frontier", class)
}

// TestVMClass_privateChain verifies that a private chain with an empty VM
// configuration fails VM queries with a NotFoundError.
func TestVMClass_privateChain(t *testing.T) {
	raw := genesis.Raw{
		"chainId":    "0x539",
		"difficulty": "0x20000",
		"gasLimit":   "0x47e7c4",
		"nonce":      "0x0000000000000042",
		"extraData":  "0x",
	}
	profile, err := genesis.FromRaw(raw)
	require.NoError(t, err)
	c, _ := newTestChain(t, profile)

	assert.Empty(t, c.VMConfiguration())

	_, err = c.VMClass()
	require.Error(t, err)
	assert.True(t, chaindb.IsNotFound(err))
}
