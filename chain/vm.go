package chain

import (
	"github.com/axiomchain/go-axiom/chaindb"
	"github.com/axiomchain/go-axiom/genesis"
)

// VMFork is one entry of a chain's VM configuration: the ruleset name that
// activates at a given block height.
type VMFork struct {
	Block uint64 `json:"block"`
	Name  string `json:"name"`
}

// vmConfiguration returns the fork schedule for a network id. Private chains
// carry no schedule; VM queries on them fail with a NotFoundError.
func vmConfiguration(networkID uint64) []VMFork {
	switch networkID {
	case genesis.MainNetworkID:
		return []VMFork{
			{Block: 0, Name: "Frontier"},
			{Block: 1150000, Name: "Homestead"},
			{Block: 2463000, Name: "TangerineWhistle"},
			{Block: 2675000, Name: "SpuriousDragon"},
			{Block: 4370000, Name: "Byzantium"},
			{Block: 7280000, Name: "Petersburg"},
			{Block: 9069000, Name: "Istanbul"},
			{Block: 9200000, Name: "MuirGlacier"},
			{Block: 12244000, Name: "Berlin"},
			{Block: 12965000, Name: "London"},
		}
	case genesis.RopstenNetworkID:
		return []VMFork{
			{Block: 0, Name: "TangerineWhistle"},
			{Block: 10, Name: "SpuriousDragon"},
			{Block: 1700000, Name: "Byzantium"},
			{Block: 4939394, Name: "Petersburg"},
			{Block: 6485846, Name: "Istanbul"},
			{Block: 7117117, Name: "MuirGlacier"},
			{Block: 9812189, Name: "Berlin"},
			{Block: 10499401, Name: "London"},
		}
	default:
		return nil
	}
}

// vmClassAt resolves the active ruleset name at a block height.
func vmClassAt(config []VMFork, number uint64) (string, error) {
	if len(config) == 0 {
		return "", &chaindb.NotFoundError{Msg: "no VM configuration for this chain"}
	}
	active := config[0].Name
	for _, fork := range config {
		if fork.Block > number {
			break
		}
		active = fork.Name
	}
	return active, nil
}
