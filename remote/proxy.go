package remote

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/axiomchain/go-axiom/chain"
	"github.com/axiomchain/go-axiom/inter"
)

// Typed proxies over a client connection. A proxy call looks like a local
// method call; failures come back with their original kind, message and the
// remote trace attached.

func decodeBytes(raw json.RawMessage) ([]byte, error) {
	var b hexutil.Bytes
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, errors.Wrap(err, "decode result")
	}
	return b, nil
}

func decodeHeader(raw json.RawMessage) (*types.Header, error) {
	encoded, err := decodeBytes(raw)
	if err != nil {
		return nil, err
	}
	header := new(types.Header)
	if err := rlp.DecodeBytes(encoded, header); err != nil {
		return nil, errors.Wrap(err, "decode header result")
	}
	return header, nil
}

func encodeHeaders(headers []*types.Header) (hexutil.Bytes, error) {
	raw, err := rlp.EncodeToBytes(headers)
	if err != nil {
		return nil, errors.Wrap(err, "encode headers")
	}
	return hexutil.Bytes(raw), nil
}

// DBProxy is the client view of the raw key-value store.
type DBProxy struct {
	c *Conn
}

func (c *Conn) DB() *DBProxy {
	return &DBProxy{c: c}
}

func (p *DBProxy) Get(key []byte) ([]byte, error) {
	raw, err := p.c.Call(DBResource, "get", hexutil.Bytes(key))
	if err != nil {
		return nil, err
	}
	return decodeBytes(raw)
}

func (p *DBProxy) Set(key, value []byte) error {
	_, err := p.c.Call(DBResource, "set", hexutil.Bytes(key), hexutil.Bytes(value))
	return err
}

func (p *DBProxy) Delete(key []byte) error {
	_, err := p.c.Call(DBResource, "delete", hexutil.Bytes(key))
	return err
}

// ChainDBProxy is the client view of the full chain database.
type ChainDBProxy struct {
	c *Conn
}

func (c *Conn) ChainDB() *ChainDBProxy {
	return &ChainDBProxy{c: c}
}

func (p *ChainDBProxy) PersistHeader(header *types.Header) error {
	raw, err := rlp.EncodeToBytes(header)
	if err != nil {
		return errors.Wrap(err, "encode header")
	}
	_, err = p.c.Call(ChainDBResource, "persist_header", hexutil.Bytes(raw))
	return err
}

func (p *ChainDBProxy) GetCanonicalHead() (*types.Header, error) {
	raw, err := p.c.Call(ChainDBResource, "get_canonical_head")
	if err != nil {
		return nil, err
	}
	return decodeHeader(raw)
}

func (p *ChainDBProxy) GetHeaderByNumber(number uint64) (*types.Header, error) {
	raw, err := p.c.Call(ChainDBResource, "get_header_by_number", hexutil.Uint64(number))
	if err != nil {
		return nil, err
	}
	return decodeHeader(raw)
}

func (p *ChainDBProxy) GetCanonicalHash(number uint64) (common.Hash, error) {
	raw, err := p.c.Call(ChainDBResource, "get_canonical_hash", hexutil.Uint64(number))
	if err != nil {
		return common.Hash{}, err
	}
	var hash common.Hash
	if err := json.Unmarshal(raw, &hash); err != nil {
		return common.Hash{}, errors.Wrap(err, "decode hash result")
	}
	return hash, nil
}

func (p *ChainDBProxy) HasHeader(hash common.Hash, number uint64) (bool, error) {
	raw, err := p.c.Call(ChainDBResource, "has_header", hash, hexutil.Uint64(number))
	if err != nil {
		return false, err
	}
	var ok bool
	if err := json.Unmarshal(raw, &ok); err != nil {
		return false, errors.Wrap(err, "decode bool result")
	}
	return ok, nil
}

func (p *ChainDBProxy) PersistBody(number uint64, hash common.Hash, body []byte) error {
	_, err := p.c.Call(ChainDBResource, "persist_body",
		hexutil.Uint64(number), hash, hexutil.Bytes(body))
	return err
}

func (p *ChainDBProxy) GetBody(number uint64, hash common.Hash) ([]byte, error) {
	raw, err := p.c.Call(ChainDBResource, "get_body", hexutil.Uint64(number), hash)
	if err != nil {
		return nil, err
	}
	return decodeBytes(raw)
}

func (p *ChainDBProxy) PersistReceipts(number uint64, hash common.Hash, receipts []byte) error {
	_, err := p.c.Call(ChainDBResource, "persist_receipts",
		hexutil.Uint64(number), hash, hexutil.Bytes(receipts))
	return err
}

func (p *ChainDBProxy) GetReceipts(number uint64, hash common.Hash) ([]byte, error) {
	raw, err := p.c.Call(ChainDBResource, "get_receipts", hexutil.Uint64(number), hash)
	if err != nil {
		return nil, err
	}
	return decodeBytes(raw)
}

// HeaderDBProxy is the client view of the header-only database.
type HeaderDBProxy struct {
	c *Conn
}

func (c *Conn) HeaderDB() *HeaderDBProxy {
	return &HeaderDBProxy{c: c}
}

func (p *HeaderDBProxy) PersistHeader(header *types.Header) error {
	raw, err := rlp.EncodeToBytes(header)
	if err != nil {
		return errors.Wrap(err, "encode header")
	}
	_, err = p.c.Call(HeaderDBResource, "persist_header", hexutil.Bytes(raw))
	return err
}

func (p *HeaderDBProxy) GetCanonicalHead() (*types.Header, error) {
	raw, err := p.c.Call(HeaderDBResource, "get_canonical_head")
	if err != nil {
		return nil, err
	}
	return decodeHeader(raw)
}

func (p *HeaderDBProxy) GetHeaderByHash(hash common.Hash) (*types.Header, error) {
	raw, err := p.c.Call(HeaderDBResource, "get_header_by_hash", hash)
	if err != nil {
		return nil, err
	}
	return decodeHeader(raw)
}

func (p *HeaderDBProxy) GetHeaderByNumber(number uint64) (*types.Header, error) {
	raw, err := p.c.Call(HeaderDBResource, "get_header_by_number", hexutil.Uint64(number))
	if err != nil {
		return nil, err
	}
	return decodeHeader(raw)
}

func (p *HeaderDBProxy) HasHeader(hash common.Hash, number uint64) (bool, error) {
	raw, err := p.c.Call(HeaderDBResource, "has_header", hash, hexutil.Uint64(number))
	if err != nil {
		return false, err
	}
	var ok bool
	if err := json.Unmarshal(raw, &ok); err != nil {
		return false, errors.Wrap(err, "decode bool result")
	}
	return ok, nil
}

// HeaderChainProxy is the client view of linked header-run persistence.
type HeaderChainProxy struct {
	c *Conn
}

func (c *Conn) HeaderChain() *HeaderChainProxy {
	return &HeaderChainProxy{c: c}
}

func (p *HeaderChainProxy) GetCanonicalHead() (*types.Header, error) {
	raw, err := p.c.Call(HeaderChainResource, "get_canonical_head")
	if err != nil {
		return nil, err
	}
	return decodeHeader(raw)
}

// PersistHeaderChain submits a header run asynchronously. The returned
// handle's Wait reports whether the run was accepted.
func (p *HeaderChainProxy) PersistHeaderChain(headers []*types.Header) (*PendingAck, error) {
	encoded, err := encodeHeaders(headers)
	if err != nil {
		return nil, err
	}
	pending, err := p.c.Go(HeaderChainResource, "persist_header_chain", true, encoded)
	if err != nil {
		return nil, err
	}
	return &PendingAck{p: pending}, nil
}

// ChainProxy is the client view of the chain object.
type ChainProxy struct {
	c *Conn
}

func (c *Conn) Chain() *ChainProxy {
	return &ChainProxy{c: c}
}

// PendingHeader is an in-flight call resolving to a header.
type PendingHeader struct {
	p *Pending
}

func (ph *PendingHeader) Wait() (*types.Header, error) {
	raw, err := ph.p.Wait()
	if err != nil {
		return nil, err
	}
	return decodeHeader(raw)
}

// PendingAck is an in-flight call resolving to success or failure only.
type PendingAck struct {
	p *Pending
}

func (pa *PendingAck) Wait() error {
	_, err := pa.p.Wait()
	return err
}

// ImportBlock submits a block asynchronously and returns a handle resolving
// to the persisted header.
func (p *ChainProxy) ImportBlock(block *inter.Block) (*PendingHeader, error) {
	raw, err := rlp.EncodeToBytes(block)
	if err != nil {
		return nil, errors.Wrap(err, "encode block")
	}
	pending, err := p.c.Go(ChainResource, "import_block", true, hexutil.Bytes(raw))
	if err != nil {
		return nil, err
	}
	return &PendingHeader{p: pending}, nil
}

// ValidateChain submits a header run for validation asynchronously.
func (p *ChainProxy) ValidateChain(headers []*types.Header) (*PendingAck, error) {
	encoded, err := encodeHeaders(headers)
	if err != nil {
		return nil, err
	}
	pending, err := p.c.Go(ChainResource, "validate_chain", true, encoded)
	if err != nil {
		return nil, err
	}
	return &PendingAck{p: pending}, nil
}

func (p *ChainProxy) GetVMConfiguration() ([]chain.VMFork, error) {
	raw, err := p.c.Call(ChainResource, "get_vm_configuration")
	if err != nil {
		return nil, err
	}
	var config []chain.VMFork
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, errors.Wrap(err, "decode VM configuration")
	}
	return config, nil
}

func (p *ChainProxy) GetVMClass() (string, error) {
	return p.vmClassCall("get_vm_class")
}

func (p *ChainProxy) GetVMClassForBlockNumber(number uint64) (string, error) {
	return p.vmClassCall("get_vm_class_for_block_number", hexutil.Uint64(number))
}

func (p *ChainProxy) vmClassCall(method string, args ...interface{}) (string, error) {
	raw, err := p.c.Call(ChainResource, method, args...)
	if err != nil {
		return "", err
	}
	var class string
	if err := json.Unmarshal(raw, &class); err != nil {
		return "", errors.Wrap(err, "decode VM class")
	}
	return class, nil
}
