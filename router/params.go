package router

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hgraphpay/swapflow/chain"
	"github.com/hgraphpay/swapflow/types"
)

// CallPlan is the fully resolved router invocation: function name, packed-in-
// order parameters, and the native value override for payable calls.
type CallPlan struct {
	Network      types.Network
	Router       common.Address
	FunctionName string
	Params       []interface{}
	// Value is the native amount attached to the call; nil for token-in
	// swaps.
	Value *big.Int
	// GasEstimateOnly hints the executor that the plan came from a dry run.
	GasEstimateOnly bool
}

// BuilderConfig carries the builder's policy inputs.
type BuilderConfig struct {
	// SlippageBps is the minimum-output tolerance in basis points. The
	// original system shipped with no slippage protection (amountOutMin
	// hardcoded to zero); zero preserves that behavior and is a known
	// safety gap.
	SlippageBps int
	// FeeTier overrides the concentrated-liquidity fee tier; zero means
	// chain.DefaultFeeTier.
	FeeTier int
}

// BuildSwapParams converts a swap intent into a CallPlan.
//
// All three amounts (in, min-out, out) are pre-converted to smallest units
// with the decimal base that is correct for the chain and token: native
// amounts on the hash-graph chain use the 18-decimal contract-call base even
// though its ledger accounts in 8-decimal tinybars.
func BuildSwapParams(intent *types.SwapIntent, recipient common.Address, deadline time.Time, cfg BuilderConfig) (*CallPlan, error) {
	p, ok := chain.ParamsFor(intent.Network)
	if !ok {
		return nil, types.NewSwapError(types.ErrInvalidSwap, "unsupported network %s", intent.Network)
	}

	inNative := chain.IsNative(intent.TokenInAddress, intent.TokenInSymbol, intent.Network)
	outNative := chain.IsNative(intent.TokenOutAddress, intent.TokenOutSymbol, intent.Network)

	fn, err := SelectFunction(inNative, outNative, intent.ExactInput, intent.RouterVersion)
	if err != nil {
		return nil, err
	}

	amountIn, err := parseLegAmount(intent.AmountIn, inNative, intent.TokenInDecimals, p)
	if err != nil {
		return nil, types.WrapSwapError(types.ErrInvalidSwap, err, "invalid amount in: %v", err)
	}

	var amountOut *big.Int
	if intent.AmountOut != "" {
		amountOut, err = parseLegAmount(intent.AmountOut, outNative, intent.TokenOutDecimals, p)
		if err != nil {
			return nil, types.WrapSwapError(types.ErrInvalidSwap, err, "invalid amount out: %v", err)
		}
	} else {
		amountOut = new(big.Int)
	}

	amountOutMin := minOut(amountOut, cfg.SlippageBps, intent.ExactInput)
	deadlineArg := big.NewInt(deadline.Unix())

	plan := &CallPlan{
		Network:      intent.Network,
		Router:       common.HexToAddress(intent.Router),
		FunctionName: fn,
	}
	if inNative {
		plan.Value = new(big.Int).Set(amountIn)
	}

	if fn == FnExactInputSingle {
		plan.Params = []interface{}{buildSingleHop(intent, p, recipient, deadlineArg, amountIn, amountOutMin, cfg)}
		return plan, nil
	}

	path := repairPath(intent, p, inNative, outNative)

	switch fn {
	case FnSwapExactETHForTokens:
		plan.Params = []interface{}{amountOutMin, path, recipient, deadlineArg}
	case FnSwapETHForExactTokens:
		plan.Params = []interface{}{amountOut, path, recipient, deadlineArg}
	case FnSwapExactTokensForETH, FnSwapExactTokensForTokens:
		plan.Params = []interface{}{amountIn, amountOutMin, path, recipient, deadlineArg}
	case FnSwapTokensForExactETH, FnSwapTokensForExactTokens:
		// the declared input amount acts as the spend ceiling
		plan.Params = []interface{}{amountOut, amountIn, path, recipient, deadlineArg}
	}
	return plan, nil
}

// parseLegAmount converts one leg's human amount to smallest units. Native
// legs always use the contract-call base.
func parseLegAmount(amount string, native bool, tokenDecimals int, p chain.Params) (*big.Int, error) {
	if native {
		return chain.ParseUnits(amount, p.CallDecimals)
	}
	return chain.ParseUnits(amount, tokenDecimals)
}

// minOut applies the slippage policy. For exact-output swaps the minimum is
// irrelevant and left at zero.
func minOut(amountOut *big.Int, slippageBps int, exactInput bool) *big.Int {
	if !exactInput || slippageBps <= 0 || amountOut.Sign() == 0 {
		return new(big.Int)
	}
	min := new(big.Int).Mul(amountOut, big.NewInt(int64(10_000-slippageBps)))
	return min.Div(min, big.NewInt(10_000))
}

// repairPath post-processes the hop list so it is valid for the target
// chain: sentinel/zero addresses become the wrapped-native address, and
// native endpoints are forced to wrapped-native even when the path was built
// generically without chain awareness. The repaired path always ends in the
// declared token-out (or its wrapped form).
func repairPath(intent *types.SwapIntent, p chain.Params, inNative, outNative bool) []common.Address {
	wrapped := common.HexToAddress(p.WrappedNative)

	hops := intent.Path
	if len(hops) == 0 {
		hops = []string{intent.TokenInAddress, intent.TokenOutAddress}
	}

	path := make([]common.Address, len(hops))
	for i, hop := range hops {
		if chain.IsNative(hop, "", intent.Network) {
			path[i] = wrapped
			continue
		}
		path[i] = common.HexToAddress(hop)
	}

	if inNative && path[0] != wrapped {
		path[0] = wrapped
	}
	last := len(path) - 1
	if outNative {
		if path[last] != wrapped {
			path[last] = wrapped
		}
	} else if out := common.HexToAddress(intent.TokenOutAddress); path[last] != out {
		path[last] = out
	}
	return path
}

// buildSingleHop builds the exactInputSingle tuple. Native endpoints are
// substituted with wrapped-native; the router wraps and unwraps implicitly.
func buildSingleHop(intent *types.SwapIntent, p chain.Params, recipient common.Address, deadline, amountIn, amountOutMin *big.Int, cfg BuilderConfig) ExactInputSingleParams {
	wrapped := common.HexToAddress(p.WrappedNative)

	tokenIn := common.HexToAddress(intent.TokenInAddress)
	if chain.IsNative(intent.TokenInAddress, intent.TokenInSymbol, intent.Network) {
		tokenIn = wrapped
	}
	tokenOut := common.HexToAddress(intent.TokenOutAddress)
	if chain.IsNative(intent.TokenOutAddress, intent.TokenOutSymbol, intent.Network) {
		tokenOut = wrapped
	}

	fee := cfg.FeeTier
	if fee == 0 {
		fee = chain.DefaultFeeTier
	}

	return ExactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		Fee:               big.NewInt(int64(fee)),
		Recipient:         recipient,
		Deadline:          deadline,
		AmountIn:          amountIn,
		AmountOutMinimum:  amountOutMin,
		SqrtPriceLimitX96: new(big.Int),
	}
}
