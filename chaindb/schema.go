package chaindb

import (
	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/common"
)

// Key layout. Headers are stored by number+hash; the canonical mapping and
// the head pointer are maintained separately so side headers can coexist
// with the canonical chain.
var (
	headHeaderKey = []byte("LastHeader") // -> canonical head hash

	headerPrefix       = []byte("h") // "h" + num(8, BE) + hash -> RLP header
	headerHashSuffix   = []byte("n") // "h" + num(8, BE) + "n"  -> canonical hash
	headerNumberPrefix = []byte("H") // "H" + hash              -> num(8, BE)

	bodyPrefix     = []byte("b") // "b" + num(8, BE) + hash -> RLP body
	receiptsPrefix = []byte("r") // "r" + num(8, BE) + hash -> RLP receipts
)

func headerKey(number uint64, hash common.Hash) []byte {
	return append(append(headerPrefix, bigendian.Uint64ToBytes(number)...), hash.Bytes()...)
}

func canonicalHashKey(number uint64) []byte {
	return append(append(headerPrefix, bigendian.Uint64ToBytes(number)...), headerHashSuffix...)
}

func headerNumberKey(hash common.Hash) []byte {
	return append(headerNumberPrefix, hash.Bytes()...)
}

func bodyKey(number uint64, hash common.Hash) []byte {
	return append(append(bodyPrefix, bigendian.Uint64ToBytes(number)...), hash.Bytes()...)
}

func receiptsKey(number uint64, hash common.Hash) []byte {
	return append(append(receiptsPrefix, bigendian.Uint64ToBytes(number)...), hash.Bytes()...)
}
