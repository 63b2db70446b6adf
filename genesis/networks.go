package genesis

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Network identification constants. These are the legacy network ids carried
// in the genesis config's chainId field.
const (
	// MainNetworkID identifies the Ethereum mainnet.
	MainNetworkID uint64 = 1

	// RopstenNetworkID identifies the Ropsten test network.
	RopstenNetworkID uint64 = 3
)

// Profile is a network identity: a known chain preset or a custom private
// chain, bundling the numeric network id with the chain's genesis header.
// The set of constructors (Mainnet, Ropsten, Private) is closed; there is no
// numeric-id dispatch anywhere else.
type Profile struct {
	Name      string
	NetworkID uint64

	genesis *types.Header
}

// Genesis returns a copy of the profile's genesis header. Callers may mutate
// the copy freely; the profile's own header is immutable.
func (p Profile) Genesis() *types.Header {
	return types.CopyHeader(p.genesis)
}

// Mainnet returns the Ethereum mainnet profile.
func Mainnet() Profile {
	return Profile{Name: "mainnet", NetworkID: MainNetworkID, genesis: mainnetGenesisHeader()}
}

// Ropsten returns the Ropsten testnet profile.
func Ropsten() Profile {
	return Profile{Name: "ropsten", NetworkID: RopstenNetworkID, genesis: ropstenGenesisHeader()}
}

// Private returns a custom-chain profile carrying a caller-supplied genesis
// header.
func Private(networkID uint64, genesis *types.Header) Profile {
	return Profile{Name: "private", NetworkID: networkID, genesis: types.CopyHeader(genesis)}
}

// FromRaw validates a raw genesis config and builds a private-chain profile
// from it.
func FromRaw(raw Raw) (Profile, error) {
	header, networkID, err := Derive(raw)
	if err != nil {
		return Profile{}, err
	}
	return Private(networkID, header), nil
}

// mainnetGenesisHeader reconstructs the fixed mainnet genesis header. The
// constants are the canonical frontier genesis parameters.
func mainnetGenesisHeader() *types.Header {
	return &types.Header{
		UncleHash:   types.EmptyUncleHash,
		Root:        common.HexToHash("0xd7f8974fb5ac78d9ac099b9ad5018bedc2ce0a72dad1827a1709da30580f0544"),
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  big.NewInt(17179869184),
		Number:      new(big.Int),
		GasLimit:    5000,
		Extra:       common.FromHex("0x11bbe8db4e347b4e8c937c1c8370e4b5ed33adb3db69cbdb7a38e1e50b1b82fa"),
		Nonce:       types.EncodeNonce(0x42),
	}
}

// ropstenGenesisHeader reconstructs the fixed ropsten genesis header.
func ropstenGenesisHeader() *types.Header {
	return &types.Header{
		UncleHash:   types.EmptyUncleHash,
		Root:        common.HexToHash("0x217b0bbcfb72e2d57e28f33cb361b9983513177755dc3f33ce3e7022ed62b77b"),
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  big.NewInt(1048576),
		Number:      new(big.Int),
		GasLimit:    16777216,
		Extra:       common.FromHex("0x3535353535353535353535353535353535353535353535353535353535353535"),
		Nonce:       types.EncodeNonce(0x42),
	}
}
