package remote

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/axiomchain/go-axiom/chain"
	"github.com/axiomchain/go-axiom/chaindb"
	"github.com/axiomchain/go-axiom/inter"
	"github.com/axiomchain/go-axiom/kvdb"
)

// Resource names addressed by clients. The hosting process registers one
// capability per name, all views over the same database.
const (
	DBResource          = "db"
	ChainDBResource     = "chaindb"
	HeaderDBResource    = "headerdb"
	HeaderChainResource = "header_chain"
	ChainResource       = "chain"
)

// Arguments cross the wire as JSON; binary payloads (keys, values, RLP) as
// hex strings via hexutil.Bytes.

func bytesArg(args []json.RawMessage, i int) ([]byte, error) {
	if i >= len(args) {
		return nil, errors.Errorf("missing argument %d", i)
	}
	var b hexutil.Bytes
	if err := json.Unmarshal(args[i], &b); err != nil {
		return nil, errors.Wrapf(err, "decode argument %d", i)
	}
	return b, nil
}

func uint64Arg(args []json.RawMessage, i int) (uint64, error) {
	if i >= len(args) {
		return 0, errors.Errorf("missing argument %d", i)
	}
	var n hexutil.Uint64
	if err := json.Unmarshal(args[i], &n); err != nil {
		return 0, errors.Wrapf(err, "decode argument %d", i)
	}
	return uint64(n), nil
}

func hashArg(args []json.RawMessage, i int) (common.Hash, error) {
	if i >= len(args) {
		return common.Hash{}, errors.Errorf("missing argument %d", i)
	}
	var h common.Hash
	if err := json.Unmarshal(args[i], &h); err != nil {
		return common.Hash{}, errors.Wrapf(err, "decode argument %d", i)
	}
	return h, nil
}

func headerArg(args []json.RawMessage, i int) (*types.Header, error) {
	raw, err := bytesArg(args, i)
	if err != nil {
		return nil, err
	}
	header := new(types.Header)
	if err := rlp.DecodeBytes(raw, header); err != nil {
		return nil, errors.Wrapf(err, "decode header argument %d", i)
	}
	return header, nil
}

func headersArg(args []json.RawMessage, i int) ([]*types.Header, error) {
	raw, err := bytesArg(args, i)
	if err != nil {
		return nil, err
	}
	var headers []*types.Header
	if err := rlp.DecodeBytes(raw, &headers); err != nil {
		return nil, errors.Wrapf(err, "decode headers argument %d", i)
	}
	return headers, nil
}

func blockArg(args []json.RawMessage, i int) (*inter.Block, error) {
	raw, err := bytesArg(args, i)
	if err != nil {
		return nil, err
	}
	block := new(inter.Block)
	if err := rlp.DecodeBytes(raw, block); err != nil {
		return nil, errors.Wrapf(err, "decode block argument %d", i)
	}
	return block, nil
}

func headerValue(header *types.Header) (interface{}, error) {
	raw, err := rlp.EncodeToBytes(header)
	if err != nil {
		return nil, errors.Wrap(err, "encode header")
	}
	return hexutil.Bytes(raw), nil
}

// DBCapability exposes the raw key-value store. All operations are sync.
func DBCapability(store kvdb.Store) *Capability {
	c := NewCapability(DBResource)

	c.Sync("get", func(args []json.RawMessage) (interface{}, error) {
		key, err := bytesArg(args, 0)
		if err != nil {
			return nil, err
		}
		ok, err := store.Has(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &chaindb.NotFoundError{Msg: "key not found"}
		}
		value, err := store.Get(key)
		if err != nil {
			return nil, err
		}
		return hexutil.Bytes(value), nil
	})

	c.Sync("set", func(args []json.RawMessage) (interface{}, error) {
		key, err := bytesArg(args, 0)
		if err != nil {
			return nil, err
		}
		value, err := bytesArg(args, 1)
		if err != nil {
			return nil, err
		}
		return nil, store.Put(key, value)
	})

	c.Sync("delete", func(args []json.RawMessage) (interface{}, error) {
		key, err := bytesArg(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, store.Delete(key)
	})

	return c
}

// ChainDBCapability exposes the full chain database.
func ChainDBCapability(db *chaindb.ChainDB) *Capability {
	c := NewCapability(ChainDBResource)

	c.Sync("persist_header", func(args []json.RawMessage) (interface{}, error) {
		header, err := headerArg(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, db.PersistHeader(header)
	})

	c.Sync("get_canonical_head", func(args []json.RawMessage) (interface{}, error) {
		head, err := db.GetCanonicalHead()
		if err != nil {
			return nil, err
		}
		return headerValue(head)
	})

	c.Sync("get_header_by_number", func(args []json.RawMessage) (interface{}, error) {
		number, err := uint64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		header, err := db.GetHeaderByNumber(number)
		if err != nil {
			return nil, err
		}
		return headerValue(header)
	})

	c.Sync("get_canonical_hash", func(args []json.RawMessage) (interface{}, error) {
		number, err := uint64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		return db.GetCanonicalHash(number)
	})

	c.Sync("has_header", func(args []json.RawMessage) (interface{}, error) {
		hash, err := hashArg(args, 0)
		if err != nil {
			return nil, err
		}
		number, err := uint64Arg(args, 1)
		if err != nil {
			return nil, err
		}
		return db.HasHeader(hash, number)
	})

	c.Sync("persist_body", func(args []json.RawMessage) (interface{}, error) {
		number, err := uint64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		hash, err := hashArg(args, 1)
		if err != nil {
			return nil, err
		}
		body, err := bytesArg(args, 2)
		if err != nil {
			return nil, err
		}
		return nil, db.PersistBody(number, hash, body)
	})

	c.Sync("get_body", func(args []json.RawMessage) (interface{}, error) {
		number, err := uint64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		hash, err := hashArg(args, 1)
		if err != nil {
			return nil, err
		}
		body, err := db.GetBody(number, hash)
		if err != nil {
			return nil, err
		}
		return hexutil.Bytes(body), nil
	})

	c.Sync("persist_receipts", func(args []json.RawMessage) (interface{}, error) {
		number, err := uint64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		hash, err := hashArg(args, 1)
		if err != nil {
			return nil, err
		}
		receipts, err := bytesArg(args, 2)
		if err != nil {
			return nil, err
		}
		return nil, db.PersistReceipts(number, hash, receipts)
	})

	c.Sync("get_receipts", func(args []json.RawMessage) (interface{}, error) {
		number, err := uint64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		hash, err := hashArg(args, 1)
		if err != nil {
			return nil, err
		}
		receipts, err := db.GetReceipts(number, hash)
		if err != nil {
			return nil, err
		}
		return hexutil.Bytes(receipts), nil
	})

	return c
}

// HeaderDBCapability exposes the header-only view.
func HeaderDBCapability(hdb *chaindb.HeaderDB) *Capability {
	c := NewCapability(HeaderDBResource)

	c.Sync("persist_header", func(args []json.RawMessage) (interface{}, error) {
		header, err := headerArg(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, hdb.PersistHeader(header)
	})

	c.Sync("get_canonical_head", func(args []json.RawMessage) (interface{}, error) {
		head, err := hdb.GetCanonicalHead()
		if err != nil {
			return nil, err
		}
		return headerValue(head)
	})

	c.Sync("get_header_by_hash", func(args []json.RawMessage) (interface{}, error) {
		hash, err := hashArg(args, 0)
		if err != nil {
			return nil, err
		}
		header, err := hdb.GetHeaderByHash(hash)
		if err != nil {
			return nil, err
		}
		return headerValue(header)
	})

	c.Sync("get_header_by_number", func(args []json.RawMessage) (interface{}, error) {
		number, err := uint64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		header, err := hdb.GetHeaderByNumber(number)
		if err != nil {
			return nil, err
		}
		return headerValue(header)
	})

	c.Sync("has_header", func(args []json.RawMessage) (interface{}, error) {
		hash, err := hashArg(args, 0)
		if err != nil {
			return nil, err
		}
		number, err := uint64Arg(args, 1)
		if err != nil {
			return nil, err
		}
		return hdb.HasHeader(hash, number)
	})

	return c
}

// HeaderChainCapability exposes linked header-run persistence. Persisting a
// run may be long, so it is async.
func HeaderChainCapability(hc *chaindb.HeaderChain) *Capability {
	c := NewCapability(HeaderChainResource)

	c.Sync("get_canonical_head", func(args []json.RawMessage) (interface{}, error) {
		head, err := hc.GetCanonicalHead()
		if err != nil {
			return nil, err
		}
		return headerValue(head)
	})

	c.Async("persist_header_chain", func(args []json.RawMessage) (interface{}, error) {
		headers, err := headersArg(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, hc.PersistHeaderChain(headers)
	})

	return c
}

// ChainCapability exposes the chain object. Imports and validation are
// async; VM queries are sync.
func ChainCapability(ch *chain.Chain) *Capability {
	c := NewCapability(ChainResource)

	c.Async("import_block", func(args []json.RawMessage) (interface{}, error) {
		block, err := blockArg(args, 0)
		if err != nil {
			return nil, err
		}
		header, err := ch.ImportBlock(block)
		if err != nil {
			return nil, err
		}
		return headerValue(header)
	})

	c.Async("validate_chain", func(args []json.RawMessage) (interface{}, error) {
		headers, err := headersArg(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, ch.ValidateChain(headers)
	})

	c.Sync("get_vm_configuration", func(args []json.RawMessage) (interface{}, error) {
		return ch.VMConfiguration(), nil
	})

	c.Sync("get_vm_class", func(args []json.RawMessage) (interface{}, error) {
		return ch.VMClass()
	})

	c.Sync("get_vm_class_for_block_number", func(args []json.RawMessage) (interface{}, error) {
		number, err := uint64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		return ch.VMClassForBlockNumber(number)
	})

	return c
}
