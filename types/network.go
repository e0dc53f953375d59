package types

import "math/big"

// ChainFamily classifies a network into a blockchain family. The two families
// behave differently in almost every step of the swap pipeline (units, gas
// policy, approval semantics), so the tag is threaded through instead of
// re-deriving it per call site.
type ChainFamily string

const (
	FamilyHedera ChainFamily = "hedera"
	FamilyEVM    ChainFamily = "evm"
)

// Network identifies a supported blockchain network.
type Network string

const (
	NetworkHederaMainnet Network = "hedera-mainnet"
	NetworkHederaTestnet Network = "hedera-testnet"
	NetworkBSC           Network = "bsc"
)

func (n Network) Family() ChainFamily {
	if n.IsHedera() {
		return FamilyHedera
	}
	return FamilyEVM
}

func (n Network) IsHedera() bool {
	return n == NetworkHederaMainnet || n == NetworkHederaTestnet
}

func (n Network) IsEVM() bool {
	return n == NetworkBSC
}

func (n Network) IsTestnet() bool {
	return n == NetworkHederaTestnet
}

func (n Network) String() string {
	return string(n)
}

// ChainID returns the EVM chain id of the network's JSON-RPC surface.
// Hedera exposes chain ids through its EVM compatibility relay.
func (n Network) ChainID() *big.Int {
	switch n {
	case NetworkHederaMainnet:
		return big.NewInt(295)
	case NetworkHederaTestnet:
		return big.NewInt(296)
	case NetworkBSC:
		return big.NewInt(56)
	}
	return nil
}

// NetworkForChainID is the inverse of ChainID.
func NetworkForChainID(id *big.Int) (Network, bool) {
	if id == nil {
		return "", false
	}
	switch id.Int64() {
	case 295:
		return NetworkHederaMainnet, true
	case 296:
		return NetworkHederaTestnet, true
	case 56:
		return NetworkBSC, true
	}
	return "", false
}

// RouterVersion distinguishes classic AMM routers from the single-hop
// concentrated-liquidity router, which has its own function surface.
type RouterVersion string

const (
	RouterV2 RouterVersion = "v2"
	RouterV3 RouterVersion = "v3"
)
