// Package inter defines the data structures shared between the hosting
// process and its clients: the finalized Block that crosses the capability
// boundary, and the Timestamp type used throughout.
//
// Key concepts:
//   - Block: a finalized block as produced by the consensus layer
//   - Atropos: the consensus event hash that decided the block
//   - EthHeader: conversion into the EVM-compatible header persisted by the
//     chain database
//
// Blocks are RLP-encodable so they can be carried inside call envelopes.
package inter

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Block is a finalized block handed to the chain object for import. It
// carries the consensus metadata plus the execution results needed to build
// the persisted header.
type Block struct {
	// Number is the block height; it must follow the current canonical head.
	Number idx.Block

	// Time is the consensus timestamp of the block decision.
	Time Timestamp

	// Atropos is the hash of the consensus event that decided this block.
	// It doubles as the block's unique identifier.
	Atropos hash.Event

	// ParentHash is the hash of the canonical head this block extends.
	ParentHash common.Hash

	// Root is the state root after executing the block.
	Root common.Hash

	// TxHash is the transactions root.
	TxHash common.Hash

	// Txs lists the hashes of the transactions included in the block. The
	// transaction data itself is stored separately.
	Txs []common.Hash

	GasLimit uint64
	GasUsed  uint64

	// Extra is opaque extra data carried into the header.
	Extra []byte
}

// EthHeader converts the block into the EVM-compatible header form persisted
// by the chain database. The conversion is lossy: consensus-only fields
// (Atropos, Txs) do not appear in the header beyond the derived hashes.
func (b *Block) EthHeader() *types.Header {
	txHash := b.TxHash
	if txHash == (common.Hash{}) {
		txHash = types.EmptyRootHash
	}
	return &types.Header{
		ParentHash:  b.ParentHash,
		UncleHash:   types.EmptyUncleHash,
		Root:        b.Root,
		TxHash:      txHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  new(big.Int),
		Number:      new(big.Int).SetUint64(uint64(b.Number)),
		GasLimit:    b.GasLimit,
		GasUsed:     b.GasUsed,
		Time:        uint64(b.Time.Unix()),
		Extra:       b.Extra,
	}
}

// EstimateSize returns an approximate in-memory size of the block in bytes,
// used for buffer sizing and transfer estimates.
func (b *Block) EstimateSize() int {
	// Atropos + ParentHash + Root + TxHash + per-tx hashes, 32 bytes each
	hashBytes := (len(b.Txs) + 4) * 32
	// Number + Time + GasLimit + GasUsed
	fixedBytes := 4 * 8
	return hashBytes + fixedBytes + len(b.Extra)
}
