// Package chain holds the per-network constants and numeric conversions the
// swap pipeline branches on. Everything here is pure data and arithmetic;
// network I/O lives in clients.
package chain

import (
	"math/big"
	"strings"

	"github.com/hgraphpay/swapflow/types"
)

// GasPricePolicy selects how a transaction's gas price is populated.
type GasPricePolicy string

const (
	// GasPriceOmit leaves gasPrice unset; the network relay prices the
	// transaction itself. Hedera's JSON-RPC relay rejects client pricing.
	GasPriceOmit GasPricePolicy = "omit"
	// GasPriceLegacy supplies a legacy gasPrice from fee data.
	GasPriceLegacy GasPricePolicy = "legacy"
)

// ApprovalPolicy decides what happens when an approve transaction fails.
type ApprovalPolicy string

const (
	// ApprovalFailOpen lets the swap proceed after a failed approval. Some
	// Hedera HTS tokens do not expose the ERC-20 approve facade; the router
	// call itself still enforces the allowance requirement.
	ApprovalFailOpen ApprovalPolicy = "fail-open"
	// ApprovalFailClosed aborts the swap before submission.
	ApprovalFailClosed ApprovalPolicy = "fail-closed"
)

// Params is the chain-family constant set for one network.
type Params struct {
	Network types.Network
	Family  types.ChainFamily

	// NativeSymbols are the symbols classified as the chain's native asset,
	// compared case-insensitively.
	NativeSymbols []string

	// WrappedNative substitutes for native endpoints in swap paths.
	WrappedNative string

	// LedgerDecimals is the decimal base of native balances as reported by
	// the chain's own ledger (tinybar for Hedera). CallDecimals is the base
	// contract calls use; on Hedera the two differ by 10 decimal places.
	LedgerDecimals int
	CallDecimals   int

	// Gas policy.
	DefaultGasLimit uint64 // used when estimation fails
	MaxGasLimit     uint64 // hard cap after buffering; 0 means uncapped
	GasPrice        GasPricePolicy
	// FallbackGasPrice is used on legacy-priced chains when fee-data
	// retrieval fails and no recent base fee is available.
	FallbackGasPrice *big.Int
	// ReserveGasUnits is the conservative unit estimate used by the balance
	// validator when no real estimate is available yet.
	ReserveGasUnits uint64

	Approval ApprovalPolicy
}

// wrapped-native deployments per network
const (
	whbarMainnet = "0x0000000000000000000000000000000000163B5a"
	whbarTestnet = "0x0000000000000000000000000000000000003aD2"
	wbnbMainnet  = "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"
)

var paramsTable = map[types.Network]Params{
	types.NetworkHederaMainnet: {
		Network:         types.NetworkHederaMainnet,
		Family:          types.FamilyHedera,
		NativeSymbols:   []string{"HBAR"},
		WrappedNative:   whbarMainnet,
		LedgerDecimals:  8,
		CallDecimals:    18,
		DefaultGasLimit: 300_000,
		MaxGasLimit:     1_000_000,
		GasPrice:        GasPriceOmit,
		ReserveGasUnits: 0, // the network validates gas funding itself
		Approval:        ApprovalFailOpen,
	},
	types.NetworkHederaTestnet: {
		Network:         types.NetworkHederaTestnet,
		Family:          types.FamilyHedera,
		NativeSymbols:   []string{"HBAR"},
		WrappedNative:   whbarTestnet,
		LedgerDecimals:  8,
		CallDecimals:    18,
		DefaultGasLimit: 300_000,
		MaxGasLimit:     1_000_000,
		GasPrice:        GasPriceOmit,
		ReserveGasUnits: 0,
		Approval:        ApprovalFailOpen,
	},
	types.NetworkBSC: {
		Network:          types.NetworkBSC,
		Family:           types.FamilyEVM,
		NativeSymbols:    []string{"BNB", "tBNB"},
		WrappedNative:    wbnbMainnet,
		LedgerDecimals:   18,
		CallDecimals:     18,
		DefaultGasLimit:  1_500_000,
		MaxGasLimit:      0,
		GasPrice:         GasPriceLegacy,
		FallbackGasPrice: big.NewInt(3_000_000_000), // 3 gwei
		ReserveGasUnits:  250_000,
		Approval:         ApprovalFailClosed,
	},
}

// ParamsFor returns the constant set for a network. The bool is false for
// networks the pipeline does not support.
func ParamsFor(n types.Network) (Params, bool) {
	p, ok := paramsTable[n]
	return p, ok
}

// DefaultFeeTier is assumed for single-hop concentrated-liquidity swaps when
// the intent does not specify one (0.30%).
const DefaultFeeTier = 3000

func (p Params) isNativeSymbol(symbol string) bool {
	for _, s := range p.NativeSymbols {
		if strings.EqualFold(s, symbol) {
			return true
		}
	}
	return false
}
