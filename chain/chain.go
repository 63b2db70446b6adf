// Package chain implements the chain object the hosting process shares with
// its clients: block import onto the canonical head, header-chain
// validation, and VM fork-schedule queries.
//
// Import and validation here cover canonical-head consistency only; full
// header and transaction validation rules live in the execution layer and
// are out of scope.
package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/axiomchain/go-axiom/chaindb"
	"github.com/axiomchain/go-axiom/genesis"
	"github.com/axiomchain/go-axiom/inter"
)

// ValidationError reports a block or header chain that does not extend the
// canonical chain consistently.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Chain is the shared chain object. The hosting process constructs exactly
// one per database and registers it as the `chain` capability.
type Chain struct {
	profile genesis.Profile
	db      *chaindb.ChainDB
	log     logrus.FieldLogger
}

// New constructs the chain object over an initialized chain database.
func New(profile genesis.Profile, db *chaindb.ChainDB) *Chain {
	return &Chain{
		profile: profile,
		db:      db,
		log:     logrus.WithField("network", profile.Name),
	}
}

// ImportBlock imports a finalized block on top of the canonical head and
// returns the newly persisted header. The block must link to the current
// head and carry the following block number; otherwise it fails with a
// ValidationError and the head is unchanged.
func (c *Chain) ImportBlock(block *inter.Block) (*types.Header, error) {
	head, err := c.db.GetCanonicalHead()
	if err != nil {
		return nil, err
	}

	header := block.EthHeader()
	if header.ParentHash != head.Hash() {
		return nil, &ValidationError{Msg: fmt.Sprintf(
			"block %d does not extend the canonical head (parent %s, head %s)",
			block.Number, header.ParentHash.Hex(), head.Hash().Hex())}
	}
	if header.Number.Uint64() != head.Number.Uint64()+1 {
		return nil, &ValidationError{Msg: fmt.Sprintf(
			"block number %d does not follow head %d",
			header.Number.Uint64(), head.Number.Uint64())}
	}

	if err := c.db.PersistHeader(header); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"number": header.Number.Uint64(),
		"hash":   header.Hash().Hex(),
	}).Debug("imported block")
	return header, nil
}

// ValidateChain checks that a run of headers is internally linked with
// monotonically increasing numbers. It reads nothing and writes nothing.
func (c *Chain) ValidateChain(headers []*types.Header) error {
	for i := 1; i < len(headers); i++ {
		if headers[i].ParentHash != headers[i-1].Hash() {
			return &ValidationError{Msg: fmt.Sprintf("header %d does not link to header %d", i, i-1)}
		}
		if headers[i].Number.Uint64() != headers[i-1].Number.Uint64()+1 {
			return &ValidationError{Msg: fmt.Sprintf("header %d has non-sequential number", i)}
		}
	}
	return nil
}

// VMConfiguration returns the chain's VM fork schedule. Private chains have
// an empty schedule.
func (c *Chain) VMConfiguration() []VMFork {
	return vmConfiguration(c.profile.NetworkID)
}

// VMClass returns the VM ruleset active at the canonical head.
func (c *Chain) VMClass() (string, error) {
	head, err := c.db.GetCanonicalHead()
	if err != nil {
		return "", err
	}
	return vmClassAt(c.VMConfiguration(), head.Number.Uint64())
}

// VMClassForBlockNumber returns the VM ruleset active at the given height.
func (c *Chain) VMClassForBlockNumber(number uint64) (string, error) {
	return vmClassAt(c.VMConfiguration(), number)
}
