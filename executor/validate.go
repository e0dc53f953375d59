// Package executor performs the pre-flight validation, submission and
// confirmation of swap transactions with chain-specific gas policies.
package executor

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hgraphpay/swapflow/chain"
	"github.com/hgraphpay/swapflow/clients"
	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/types"
)

// Validator runs the chain-specific balance/gas pre-flight check.
type Validator struct {
	backend clients.Backend
	mirror  *clients.MirrorClient // nil on pure EVM networks
	log     logger.Logger
}

func NewValidator(backend clients.Backend, mirror *clients.MirrorClient, log logger.Logger) *Validator {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Validator{backend: backend, mirror: mirror, log: log}
}

// ValidateBalance checks the wallet can fund the swap before submission.
//
// Hash-graph native swaps compare against the mirror-node balance: gas is
// funded and validated by the network layer itself, so only amount-in is
// required, after rescaling the ledger-base balance to the contract-call
// base because the two must never be aliased. EVM native swaps reserve an
// estimated gas cost on top of amount-in. Token-denominated swaps are not
// checked here: the allowance step and the router call itself enforce token
// balance.
func (v *Validator) ValidateBalance(ctx context.Context, p chain.Params, account common.Address, ledgerAccount string, nativeIn bool, amountIn *big.Int, gasEstimate uint64) error {
	if !nativeIn {
		return nil
	}

	if p.Family == types.FamilyHedera {
		return v.validateHederaNative(ctx, p, ledgerAccount, amountIn)
	}
	return v.validateEVMNative(ctx, p, account, amountIn, gasEstimate)
}

func (v *Validator) validateHederaNative(ctx context.Context, p chain.Params, ledgerAccount string, amountIn *big.Int) error {
	tinybars, err := v.mirror.AccountBalanceTinybar(ctx, ledgerAccount)
	if err != nil {
		return types.WrapSwapError(types.ErrInsufficientFunds, err,
			"could not read account balance: %v", err)
	}

	available := chain.TinybarToWeibar(tinybars)
	if available.Cmp(amountIn) < 0 {
		return types.NewSwapError(types.ErrInsufficientFunds,
			"insufficient balance: need %s HBAR, have %s HBAR",
			chain.FormatUnits(amountIn, p.CallDecimals),
			chain.FormatUnits(available, p.CallDecimals))
	}
	return nil
}

func (v *Validator) validateEVMNative(ctx context.Context, p chain.Params, account common.Address, amountIn *big.Int, gasEstimate uint64) error {
	balance, err := v.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return types.WrapSwapError(types.ErrInsufficientFunds, err,
			"could not read account balance: %v", err)
	}

	gasUnits := gasEstimate
	if gasUnits == 0 {
		gasUnits = p.ReserveGasUnits
	}
	gasPrice, err := v.backend.SuggestGasPrice(ctx)
	if err != nil {
		gasPrice = p.FallbackGasPrice
	}

	required := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasUnits))
	required.Add(required, amountIn)

	if balance.Cmp(required) < 0 {
		symbol := p.NativeSymbols[0]
		return types.NewSwapError(types.ErrInsufficientFunds,
			"insufficient balance: need %s %s (including gas), have %s %s",
			chain.FormatUnits(required, p.CallDecimals), symbol,
			chain.FormatUnits(balance, p.CallDecimals), symbol)
	}
	return nil
}
