// Package router selects AMM router functions and builds their call
// parameters for both chain families.
package router

import (
	"github.com/hgraphpay/swapflow/types"
)

// Classic AMM router function surface plus the single-hop
// concentrated-liquidity function.
const (
	FnSwapExactETHForTokens    = "swapExactETHForTokens"
	FnSwapETHForExactTokens    = "swapETHForExactTokens"
	FnSwapExactTokensForETH    = "swapExactTokensForETH"
	FnSwapTokensForExactETH    = "swapTokensForExactETH"
	FnSwapExactTokensForTokens = "swapExactTokensForTokens"
	FnSwapTokensForExactTokens = "swapTokensForExactTokens"
	FnExactInputSingle         = "exactInputSingle"
)

// SelectFunction picks the router function for a swap. Deterministic and
// pure: same inputs always yield the same name.
//
// Native-to-native is rejected outright. On the single-hop
// concentrated-liquidity router the native flags are irrelevant because
// wrapping is implicit, so the exact-input single function is always used.
func SelectFunction(tokenInIsNative, tokenOutIsNative, exactInput bool, routerVersion types.RouterVersion) (string, error) {
	if tokenInIsNative && tokenOutIsNative {
		return "", types.NewSwapError(types.ErrInvalidSwap, "cannot swap native to native")
	}

	if routerVersion == types.RouterV3 {
		return FnExactInputSingle, nil
	}

	switch {
	case tokenInIsNative && exactInput:
		return FnSwapExactETHForTokens, nil
	case tokenInIsNative:
		return FnSwapETHForExactTokens, nil
	case tokenOutIsNative && exactInput:
		return FnSwapExactTokensForETH, nil
	case tokenOutIsNative:
		return FnSwapTokensForExactETH, nil
	case exactInput:
		return FnSwapExactTokensForTokens, nil
	default:
		return FnSwapTokensForExactTokens, nil
	}
}
