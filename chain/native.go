package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hgraphpay/swapflow/types"
)

// ZeroAddress is the sentinel both chain families use for the native asset.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// hederaZeroID is the ledger-form sentinel on the hash-graph chain.
const hederaZeroID = "0.0.0"

// IsNative reports whether (address, symbol) identifies the network's native
// asset. True when the address is the zero/native sentinel or the symbol is
// one of the chain's native symbols. Total and side-effect-free: unknown
// networks simply classify nothing as native.
func IsNative(tokenAddress, tokenSymbol string, network types.Network) bool {
	p, ok := ParamsFor(network)
	if !ok {
		return false
	}
	if isZeroAddress(tokenAddress) {
		return true
	}
	if network.IsHedera() && tokenAddress == hederaZeroID {
		return true
	}
	return p.isNativeSymbol(tokenSymbol)
}

func isZeroAddress(addr string) bool {
	if addr == "" {
		return false
	}
	if !common.IsHexAddress(addr) {
		return false
	}
	return common.HexToAddress(addr) == (common.Address{})
}

// IsWrappedNative reports whether addr is the network's wrapped-native
// deployment.
func IsWrappedNative(addr string, network types.Network) bool {
	p, ok := ParamsFor(network)
	if !ok {
		return false
	}
	return common.IsHexAddress(addr) &&
		common.HexToAddress(addr) == common.HexToAddress(p.WrappedNative)
}

// WrappedNativeFor returns the wrapped-native address for a network, or ""
// when the network is unknown.
func WrappedNativeFor(network types.Network) string {
	p, ok := ParamsFor(network)
	if !ok {
		return ""
	}
	return p.WrappedNative
}

// NormalizeAddress lower-cases and checksums a hex address for comparisons.
func NormalizeAddress(addr string) string {
	if !common.IsHexAddress(addr) {
		return strings.TrimSpace(addr)
	}
	return common.HexToAddress(addr).Hex()
}
