// Package genesis parses and validates raw genesis configurations and turns
// them into canonical genesis headers plus a network identity.
//
// Key concepts:
//   - Raw: a decoded genesis config object (usually from a genesis.json file)
//   - Validate: checks the required keys in a fixed order
//   - Derive: builds the canonical block-zero header and extracts the network id
//   - Profile: a known network (mainnet, ropsten) or a custom private chain,
//     each bundling its genesis header
//
// Derivation is pure and deterministic: the same raw config always yields a
// byte-identical header.
package genesis

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// Raw is a decoded genesis config. Values are kept loosely typed because the
// quantity fields (difficulty, gasLimit) may arrive either as hex strings or
// as plain JSON numbers.
type Raw map[string]interface{}

// ConfigError reports an invalid or incomplete genesis config. It is fatal
// to node startup.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("genesis config missing required '%s'", e.Field)
}

// requiredFields lists the mandatory genesis keys in the order they are
// checked. Validate reports the first missing one.
var requiredFields = []string{
	"chainId",
	"difficulty",
	"gasLimit",
	"nonce",
	"extraData",
}

// PrivateStateRoot is the state root used for every header derived from a
// raw config. Custom chains start from this fixed, pre-computed state.
var PrivateStateRoot = common.HexToHash("0xd7f8974fb5ac78d9ac099b9ad5018bedc2ce0a72dad1827a1709da30580f0544")

// FromJSON decodes a genesis config from its JSON representation.
func FromJSON(r io.Reader) (Raw, error) {
	var raw Raw
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode genesis config")
	}
	return raw, nil
}

// Validate checks that every required genesis key is present. It returns a
// *ConfigError naming the first missing key, in requiredFields order,
// regardless of which other keys are set.
func Validate(raw Raw) error {
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			return &ConfigError{Field: field}
		}
	}
	return nil
}

// Derive builds the canonical genesis header from a raw config and returns
// it together with the network id encoded in the config.
//
// The header uses the supplied difficulty, gasLimit, nonce and extraData.
// Everything else is fixed: block number zero, zero parent/mix hashes, blank
// transaction and receipt roots, the empty uncle list hash, zero timestamp
// and the fixed PrivateStateRoot.
//
// The chainId field is decoded as a byte sequence and interpreted big-endian
// as the legacy network identifier. It is not an EIP-155 replay-protection
// chain id; downstream code depends on the legacy meaning.
func Derive(raw Raw) (*types.Header, uint64, error) {
	if err := Validate(raw); err != nil {
		return nil, 0, err
	}

	difficulty, err := quantity(raw["difficulty"])
	if err != nil {
		return nil, 0, errors.Wrap(err, "genesis difficulty")
	}
	gasLimitBig, err := quantity(raw["gasLimit"])
	if err != nil {
		return nil, 0, errors.Wrap(err, "genesis gasLimit")
	}
	nonceBytes, err := byteseq(raw["nonce"])
	if err != nil {
		return nil, 0, errors.Wrap(err, "genesis nonce")
	}
	if len(nonceBytes) != 8 {
		return nil, 0, errors.Errorf("genesis nonce must be 8 bytes, got %d", len(nonceBytes))
	}
	extraData, err := byteseq(raw["extraData"])
	if err != nil {
		return nil, 0, errors.Wrap(err, "genesis extraData")
	}
	chainIDBytes, err := byteseq(raw["chainId"])
	if err != nil {
		return nil, 0, errors.Wrap(err, "genesis chainId")
	}

	var nonce types.BlockNonce
	copy(nonce[:], nonceBytes)

	header := &types.Header{
		ParentHash:  common.Hash{},
		UncleHash:   types.EmptyUncleHash,
		Coinbase:    common.Address{},
		Root:        PrivateStateRoot,
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Bloom:       types.Bloom{},
		Difficulty:  difficulty,
		Number:      new(big.Int),
		GasLimit:    gasLimitBig.Uint64(),
		GasUsed:     0,
		Time:        0,
		Extra:       extraData,
		MixDigest:   common.Hash{},
		Nonce:       nonce,
	}
	networkID := new(big.Int).SetBytes(chainIDBytes).Uint64()
	return header, networkID, nil
}

// maxExactJSONInteger is the largest integer a float64 represents exactly.
// JSON numbers above it have already lost precision in decoding; configs with
// larger quantities must use hex strings.
const maxExactJSONInteger = 1 << 53

// quantity parses a numeric genesis field that may be a hex string ("0x400"),
// a decimal string or a JSON number.
func quantity(v interface{}) (*big.Int, error) {
	switch val := v.(type) {
	case string:
		n, ok := math.ParseBig256(val)
		if !ok {
			return nil, errors.Errorf("invalid quantity %q", val)
		}
		return n, nil
	case float64:
		if val < 0 {
			return nil, errors.Errorf("negative quantity %v", val)
		}
		if val > maxExactJSONInteger {
			return nil, errors.Errorf("quantity %v too large for a JSON number, use a hex string", val)
		}
		if val != float64(uint64(val)) {
			return nil, errors.Errorf("non-integral quantity %v", val)
		}
		return new(big.Int).SetUint64(uint64(val)), nil
	case json.Number:
		n, ok := new(big.Int).SetString(val.String(), 10)
		if !ok {
			return nil, errors.Errorf("invalid quantity %q", val)
		}
		return n, nil
	default:
		return nil, errors.Errorf("unsupported quantity type %T", v)
	}
}

// byteseq parses a hex-string genesis field into its raw bytes. Malformed hex
// is an error; odd-length strings are padded with a leading zero nibble.
func byteseq(v interface{}) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errors.Errorf("expected hex string, got %T", v)
	}
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Errorf("invalid hex string %q", v)
	}
	return b, nil
}
