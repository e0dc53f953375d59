package executor

import (
	"context"
	"errors"

	"github.com/hgraphpay/swapflow/types"
	"github.com/hgraphpay/swapflow/wallet"
)

// EnsureNetwork guarantees the wallet's active chain matches the network
// the swap targets, requesting a switch when it does not.
//
// Switch requests are not guaranteed synchronous, so the chain id is re-read
// after a successful request and a lingering mismatch is a failure. A user
// declining the switch is reported distinctly from a technical failure.
func EnsureNetwork(ctx context.Context, signer wallet.Signer, required types.Network) error {
	want := required.ChainID()
	if want == nil {
		return types.NewSwapError(types.ErrNetworkSwitchFailed,
			"unknown network %s", required)
	}

	current, err := signer.ChainID(ctx)
	if err != nil {
		return types.WrapSwapError(types.ErrNetworkSwitchFailed, err,
			"could not read the wallet's active chain: %v", err)
	}
	if current.Cmp(want) == 0 {
		return nil
	}

	if err := signer.SwitchChain(ctx, want); err != nil {
		switch {
		case errors.Is(err, wallet.ErrUserRejected):
			return types.WrapSwapError(types.ErrNetworkSwitchRejected, err,
				"network switch to %s was declined", required)
		case errors.Is(err, wallet.ErrUnrecognizedChain):
			return types.WrapSwapError(types.ErrNetworkSwitchFailed, err,
				"your wallet does not know %s (chain id %s); please add the network manually and retry",
				required, want)
		default:
			return types.WrapSwapError(types.ErrNetworkSwitchFailed, err,
				"network switch to %s failed: %v", required, err)
		}
	}

	current, err = signer.ChainID(ctx)
	if err != nil {
		return types.WrapSwapError(types.ErrNetworkSwitchFailed, err,
			"could not confirm the network switch: %v", err)
	}
	if current.Cmp(want) != 0 {
		return types.NewSwapError(types.ErrNetworkSwitchFailed,
			"wallet is still on chain id %s after switching to %s", current, required)
	}
	return nil
}
