// Package bridge sends the deposit leg of a cross-chain bridge: a native or
// ERC-20 transfer to the bridge's deposit address on the source chain. The
// destination leg is the bridge operator's business; the result here is
// final once the deposit is mined.
package bridge

import (
	"context"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/hgraphpay/swapflow/chain"
	"github.com/hgraphpay/swapflow/clients"
	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/types"
	"github.com/hgraphpay/swapflow/wallet"
)

const (
	nativeTransferGas  = uint64(21_000)
	tokenTransferGas   = uint64(100_000)
	gasBufferNumerator = 120
	confirmWindow      = 3 * time.Minute
)

// Intent describes one deposit leg.
type Intent struct {
	Network        types.Network
	TokenAddress   string // empty or zero address for the native asset
	TokenSymbol    string
	TokenDecimals  int
	Amount         string // human-decimal
	DepositAddress string
}

// Transferer executes deposit legs on one network.
type Transferer struct {
	backend clients.Backend
	signer  wallet.Signer
	log     logger.Logger
}

func NewTransferer(backend clients.Backend, signer wallet.Signer, log logger.Logger) *Transferer {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Transferer{backend: backend, signer: signer, log: log}
}

// Send validates the balance, builds the transfer, submits it and waits for
// the receipt. The returned result carries the hash as soon as submission
// succeeds, even when confirmation later fails.
func (t *Transferer) Send(ctx context.Context, intent *Intent) *types.SwapExecutionResult {
	p, ok := chain.ParamsFor(intent.Network)
	if !ok {
		return failure(types.NewSwapError(types.ErrInvalidSwap, "unsupported network %s", intent.Network))
	}
	if !common.IsHexAddress(intent.DepositAddress) {
		return failure(types.NewSwapError(types.ErrInvalidSwap, "invalid deposit address %q", intent.DepositAddress))
	}
	deposit := common.HexToAddress(intent.DepositAddress)
	native := chain.IsNative(intent.TokenAddress, intent.TokenSymbol, intent.Network)

	amount, err := parseAmount(intent, native, p)
	if err != nil {
		return failure(types.WrapSwapError(types.ErrInvalidSwap, err, "invalid amount: %v", err))
	}

	var req *wallet.TxRequest
	if native {
		req, err = t.buildNative(ctx, p, deposit, amount)
	} else {
		req, err = t.buildToken(ctx, p, intent.TokenAddress, deposit, amount)
	}
	if err != nil {
		return failure(err)
	}
	req.GasPrice = t.transferGasPrice(ctx, p)

	hash, err := t.signer.SendTransaction(ctx, req)
	if err != nil {
		return failure(types.WrapSwapError(types.ErrTransactionFailed, err, "deposit submission failed: %v", err))
	}
	t.log.Info("bridge deposit submitted", map[string]any{
		"network": intent.Network,
		"hash":    hash.Hex(),
		"native":  native,
	})

	result := &types.SwapExecutionResult{Hash: hash.Hex()}
	receipt, err := clients.WaitForReceipt(ctx, t.backend, hash, confirmWindow)
	if err != nil {
		result.Error = "deposit was submitted but not confirmed in time"
		result.Kind = types.ErrTransactionFailed
		return result
	}
	result.Receipt = &types.SwapReceipt{
		Status:      receipt.Status,
		BlockNumber: receipt.BlockNumber,
		GasUsed:     receipt.GasUsed,
	}
	if receipt.Status != 1 {
		result.Error = "deposit transaction reverted"
		result.Kind = types.ErrTransactionFailed
		return result
	}
	result.Success = true
	return result
}

func parseAmount(intent *Intent, native bool, p chain.Params) (*big.Int, error) {
	if native {
		return chain.ParseUnits(intent.Amount, p.CallDecimals)
	}
	return chain.ParseUnits(intent.Amount, intent.TokenDecimals)
}

func (t *Transferer) buildNative(ctx context.Context, p chain.Params, deposit common.Address, amount *big.Int) (*wallet.TxRequest, error) {
	balance, err := t.backend.BalanceAt(ctx, t.signer.Address(), nil)
	if err != nil {
		return nil, types.WrapSwapError(types.ErrTransactionFailed, err, "balance query failed: %v", err)
	}
	if balance.Cmp(amount) < 0 {
		return nil, types.NewSwapError(types.ErrInsufficientFunds,
			"insufficient balance: need %s, have %s",
			chain.FormatUnits(amount, p.CallDecimals), chain.FormatUnits(balance, p.CallDecimals))
	}
	return &wallet.TxRequest{
		To:       &deposit,
		Value:    amount,
		GasLimit: nativeTransferGas,
	}, nil
}

func (t *Transferer) buildToken(ctx context.Context, p chain.Params, tokenAddress string, deposit common.Address, amount *big.Int) (*wallet.TxRequest, error) {
	token := clients.NewERC20(tokenAddress, t.backend)

	balance, err := token.BalanceOf(ctx, t.signer.Address())
	if err != nil {
		return nil, types.WrapSwapError(types.ErrTransactionFailed, err, "token balance query failed: %v", err)
	}
	if balance.Cmp(amount) < 0 {
		return nil, types.NewSwapError(types.ErrInsufficientFunds,
			"insufficient token balance: need %s, have %s", amount, balance)
	}

	data, err := token.TransferCalldata(deposit, amount)
	if err != nil {
		return nil, types.WrapSwapError(types.ErrEncoding, err, "transfer encoding failed: %v", err)
	}

	to := token.Address()
	gasLimit := tokenTransferGas
	msg := ethereum.CallMsg{From: t.signer.Address(), To: &to, Data: data}
	if estimate, err := t.backend.EstimateGas(ctx, msg); err == nil {
		buffered := estimate * gasBufferNumerator / 100
		if p.MaxGasLimit > 0 && buffered > p.MaxGasLimit {
			buffered = p.MaxGasLimit
		}
		gasLimit = buffered
	}

	return &wallet.TxRequest{
		To:       &to,
		Data:     data,
		Value:    new(big.Int),
		GasLimit: gasLimit,
	}, nil
}

// transferGasPrice mirrors the execution gas policy: nil on networks that
// price transactions themselves, suggested or fallback legacy price
// elsewhere.
func (t *Transferer) transferGasPrice(ctx context.Context, p chain.Params) *big.Int {
	if p.GasPrice == chain.GasPriceOmit {
		return nil
	}
	if price, err := t.backend.SuggestGasPrice(ctx); err == nil && price.Sign() > 0 {
		return price
	}
	return new(big.Int).Set(p.FallbackGasPrice)
}

func failure(err error) *types.SwapExecutionResult {
	kind := types.ErrTransactionFailed
	if swapErr, ok := err.(*types.SwapError); ok {
		kind = swapErr.Kind
	}
	return &types.SwapExecutionResult{Error: err.Error(), Kind: kind}
}
