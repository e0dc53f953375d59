package chain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimal bases of the two native representations on the hash-graph chain.
// The ledger accounts in tinybars (1e-8 hbar) while the EVM compatibility
// layer encodes the same asset with 18 decimals for contract calls. The two
// values for one amount must be converted separately, never aliased.
const (
	TinybarDecimals = 8
	WeibarDecimals  = 18
)

// tinybarWeibarRatio is 10^(18-8), the factor between the two bases.
var tinybarWeibarRatio = new(big.Int).Exp(big.NewInt(10), big.NewInt(WeibarDecimals-TinybarDecimals), nil)

// ParseUnits converts a human-decimal amount string into smallest-unit
// integer form with the given decimal base. Fractional digits beyond the
// base are rejected rather than silently truncated.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("negative amount %q", amount)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}
	return scaled.BigInt(), nil
}

// FormatUnits renders a smallest-unit integer as a human-decimal string in
// the given base. The inverse of ParseUnits for normalized inputs.
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -int32(decimals)).String()
}

// ParseTinybar converts a human hbar amount to tinybars (ledger base).
func ParseTinybar(amount string) (*big.Int, error) {
	return ParseUnits(amount, TinybarDecimals)
}

// ParseWeibar converts a human hbar amount to the 18-decimal contract-call
// base.
func ParseWeibar(amount string) (*big.Int, error) {
	return ParseUnits(amount, WeibarDecimals)
}

// TinybarToWeibar rescales a ledger-base native amount to the contract-call
// base.
func TinybarToWeibar(tinybar *big.Int) *big.Int {
	return new(big.Int).Mul(tinybar, tinybarWeibarRatio)
}

// WeibarToTinybar rescales a contract-call-base native amount to the ledger
// base, truncating sub-tinybar dust.
func WeibarToTinybar(weibar *big.Int) *big.Int {
	return new(big.Int).Quo(weibar, tinybarWeibarRatio)
}
