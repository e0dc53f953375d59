package executor

import (
	"context"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/hgraphpay/swapflow/chain"
	"github.com/hgraphpay/swapflow/clients"
	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/router"
	"github.com/hgraphpay/swapflow/types"
	"github.com/hgraphpay/swapflow/wallet"
)

// gasBufferNum/Den apply a 20% safety margin to gas estimates.
const (
	gasBufferNum = 120
	gasBufferDen = 100
)

// confirmWindow bounds how long a swap confirmation is awaited.
const confirmWindow = 3 * time.Minute

// Executor populates, submits and confirms router transactions.
type Executor struct {
	backend clients.Backend
	signer  wallet.Signer
	log     logger.Logger
}

func New(backend clients.Backend, signer wallet.Signer, log logger.Logger) *Executor {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Executor{backend: backend, signer: signer, log: log}
}

// Execute runs a call plan to a confirmed receipt. The transaction hash is
// recorded on the result as soon as the transaction is accepted, before
// confirmation, so abandoning the wait never loses the reference.
func (e *Executor) Execute(ctx context.Context, p chain.Params, plan *router.CallPlan) *types.SwapExecutionResult {
	data, err := router.ABI().Pack(plan.FunctionName, plan.Params...)
	if err != nil {
		return failure(types.WrapSwapError(types.ErrEncoding, err,
			"failed to encode %s call: %v", plan.FunctionName, err))
	}
	// empty call data means the parameter shape did not match the function;
	// sending it would transfer value to the router with no effect
	if len(data) == 0 {
		return failure(types.NewSwapError(types.ErrEncoding,
			"encoded call data for %s is empty", plan.FunctionName))
	}

	gasLimit := e.gasLimit(ctx, p, plan, data)
	gasPrice := e.gasPrice(ctx, p)

	to := plan.Router
	hash, err := e.signer.SendTransaction(ctx, &wallet.TxRequest{
		To:       &to,
		Data:     data,
		Value:    plan.Value,
		GasLimit: gasLimit,
		GasPrice: gasPrice,
	})
	if err != nil {
		return failure(types.WrapSwapError(types.ErrTransactionFailed, err,
			"transaction was not accepted: %v", err))
	}

	result := &types.SwapExecutionResult{Hash: hash.Hex()}
	e.log.Info("swap submitted", map[string]any{
		"function": plan.FunctionName, "hash": result.Hash,
		"gasLimit": gasLimit, "network": plan.Network.String(),
	})

	receipt, err := clients.WaitForReceipt(ctx, e.backend, hash, confirmWindow)
	if err != nil {
		swapErr := types.WrapSwapError(types.ErrTransactionFailed, err,
			"transaction %s was not confirmed: %v", result.Hash, err)
		result.Error = swapErr.Message
		result.Kind = swapErr.Kind
		return result
	}

	result.Receipt = &types.SwapReceipt{
		Status:      receipt.Status,
		BlockNumber: receipt.BlockNumber,
		GasUsed:     receipt.GasUsed,
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		swapErr := types.NewSwapError(types.ErrTransactionFailed,
			"transaction %s failed on-chain with status %d", result.Hash, receipt.Status)
		result.Error = swapErr.Message
		result.Kind = swapErr.Kind
		return result
	}

	result.Success = true
	return result
}

// EstimateGas exposes the raw estimate for the balance validator.
func (e *Executor) EstimateGas(ctx context.Context, plan *router.CallPlan, data []byte) (uint64, error) {
	to := plan.Router
	return e.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  e.signer.Address(),
		To:    &to,
		Data:  data,
		Value: plan.Value,
	})
}

// gasLimit estimates with a 20% buffer and falls back to the chain default
// on estimation failure. The hash-graph relay additionally caps the buffered
// estimate at its fixed ceiling: the relay rejects anything above it even
// when the estimate is honest.
func (e *Executor) gasLimit(ctx context.Context, p chain.Params, plan *router.CallPlan, data []byte) uint64 {
	limit := p.DefaultGasLimit
	estimate, err := e.EstimateGas(ctx, plan, data)
	if err != nil {
		e.log.Warn("gas estimation failed, using default", map[string]any{
			"default": p.DefaultGasLimit, "error": err.Error(),
		})
	} else {
		limit = estimate * gasBufferNum / gasBufferDen
	}
	if p.MaxGasLimit > 0 && limit > p.MaxGasLimit {
		limit = p.MaxGasLimit
	}
	return limit
}

// gasPrice applies the family policy: the hash-graph relay prices
// transactions itself (nil), legacy chains get the node suggestion with a
// base-fee derived fallback, and a fixed conservative price when even the
// latest header is unreachable.
func (e *Executor) gasPrice(ctx context.Context, p chain.Params) *big.Int {
	if p.GasPrice == chain.GasPriceOmit {
		return nil
	}

	price, err := e.backend.SuggestGasPrice(ctx)
	if err == nil {
		return price
	}

	header, herr := e.backend.HeaderByNumber(ctx, nil)
	if herr == nil && header.BaseFee != nil && header.BaseFee.Sign() > 0 {
		return new(big.Int).Mul(header.BaseFee, big.NewInt(2))
	}

	e.log.Warn("fee data unavailable, using fallback gas price", map[string]any{
		"fallback": p.FallbackGasPrice.String(),
	})
	return new(big.Int).Set(p.FallbackGasPrice)
}

func failure(err *types.SwapError) *types.SwapExecutionResult {
	return &types.SwapExecutionResult{Error: err.Message, Kind: err.Kind}
}
