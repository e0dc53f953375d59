// Package approval drives the allowance-before-swap state machine for
// ERC-20-style tokens. Its status transitions are the UI's only view into
// the approval step, so every transition is written to the store before the
// next network call is made.
package approval

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/hgraphpay/swapflow/chain"
	"github.com/hgraphpay/swapflow/clients"
	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/store"
	"github.com/hgraphpay/swapflow/types"
	"github.com/hgraphpay/swapflow/wallet"
)

// approveGasFallback is used when the approve gas estimate fails.
const approveGasFallback = 120_000

// receiptWindow bounds how long an approve confirmation is awaited.
const receiptWindow = 2 * time.Minute

// Machine checks allowance and, when short, submits an approve transaction
// for 110% of the required amount (buffer against decimal/rounding drift).
type Machine struct {
	backend clients.Backend
	signer  wallet.Signer
	store   *store.Store
	log     logger.Logger
}

func NewMachine(backend clients.Backend, signer wallet.Signer, st *store.Store, log logger.Logger) *Machine {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Machine{backend: backend, signer: signer, store: st, log: log}
}

// Ensure guarantees the router may spend amount of the intent's input token,
// driving checking → (approved | needs_approval → approving → approved |
// error). Native-asset swaps skip the machine entirely: no allowance call is
// made and the status goes straight to not_needed.
//
// The returned error is always an ApprovalFailed SwapError; whether the
// caller aborts on it is the chain family's approval policy, not this
// package's concern.
func (m *Machine) Ensure(ctx context.Context, intent *types.SwapIntent, amount *big.Int) error {
	status := types.ApprovalStatus{
		TokenAddress: intent.TokenInAddress,
		TokenSymbol:  intent.TokenInSymbol,
		Spender:      intent.Router,
		Amount:       chain.FormatUnits(amount, intent.TokenInDecimals),
	}

	if chain.IsNative(intent.TokenInAddress, intent.TokenInSymbol, intent.Network) {
		status.State = types.ApprovalNotNeeded
		m.store.SetApproval(status)
		return nil
	}

	status.State = types.ApprovalChecking
	m.store.SetApproval(status)

	erc20 := clients.NewERC20(intent.TokenInAddress, m.backend)
	owner := m.signer.Address()
	spender := common.HexToAddress(intent.Router)

	allowance, err := erc20.Allowance(ctx, owner, spender)
	if err != nil {
		return m.fail(status, types.WrapSwapError(types.ErrApprovalFailed, err,
			"failed to read %s allowance: %v", intent.TokenInSymbol, err))
	}

	if allowance.Cmp(amount) >= 0 {
		status.State = types.ApprovalApproved
		m.store.SetApproval(status)
		return nil
	}

	status.State = types.ApprovalNeedsApproval
	m.store.SetApproval(status)

	// 10% headroom so repeated attempts with slightly different rounding
	// do not force a second approval
	approveAmount := new(big.Int).Mul(amount, big.NewInt(110))
	approveAmount.Div(approveAmount, big.NewInt(100))

	calldata, err := erc20.ApproveCalldata(spender, approveAmount)
	if err != nil {
		return m.fail(status, types.WrapSwapError(types.ErrApprovalFailed, err,
			"failed to encode approval for %s: %v", intent.TokenInSymbol, err))
	}

	status.State = types.ApprovalApproving
	m.store.SetApproval(status)

	tokenAddr := erc20.Address()
	hash, err := m.signer.SendTransaction(ctx, &wallet.TxRequest{
		To:       &tokenAddr,
		Data:     calldata,
		Value:    new(big.Int),
		GasLimit: approveGasFallback,
		GasPrice: m.approveGasPrice(ctx, intent.Network),
	})
	if err != nil {
		return m.fail(status, types.WrapSwapError(types.ErrApprovalFailed, err,
			"approval transaction for %s was not accepted: %v", intent.TokenInSymbol, err))
	}
	m.log.Info("approval submitted", map[string]any{
		"token": intent.TokenInSymbol, "spender": intent.Router, "hash": hash.Hex(),
	})

	receipt, err := clients.WaitForReceipt(ctx, m.backend, hash, receiptWindow)
	if err != nil {
		return m.fail(status, types.WrapSwapError(types.ErrApprovalFailed, err,
			"approval for %s was not confirmed: %v", intent.TokenInSymbol, err))
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return m.fail(status, types.NewSwapError(types.ErrApprovalFailed,
			"approval transaction for %s reverted", intent.TokenInSymbol))
	}

	// never report approved on receipt alone: re-confirm the allowance
	// actually covers the amount
	allowance, err = erc20.Allowance(ctx, owner, spender)
	if err != nil || allowance.Cmp(amount) < 0 {
		return m.fail(status, types.NewSwapError(types.ErrApprovalFailed,
			"allowance for %s still insufficient after approval", intent.TokenInSymbol))
	}

	status.State = types.ApprovalApproved
	m.store.SetApproval(status)
	return nil
}

func (m *Machine) fail(status types.ApprovalStatus, err *types.SwapError) error {
	status.State = types.ApprovalError
	status.Error = err.Message
	m.store.SetApproval(status)
	m.log.Warn("approval failed", map[string]any{
		"token": status.TokenSymbol, "error": err.Message,
	})
	return err
}

// approveGasPrice mirrors the executor's pricing policy: network-priced
// chains get nil, legacy chains get the node's suggestion.
func (m *Machine) approveGasPrice(ctx context.Context, network types.Network) *big.Int {
	p, ok := chain.ParamsFor(network)
	if !ok || p.GasPrice == chain.GasPriceOmit {
		return nil
	}
	price, err := m.backend.SuggestGasPrice(ctx)
	if err != nil {
		return p.FallbackGasPrice
	}
	return price
}
