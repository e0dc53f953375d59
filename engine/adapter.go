// Package engine runs the swap pipeline in its required order:
// classification → parameter build → balance check → approval →
// network-switch guard → submit → confirm.
package engine

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hgraphpay/swapflow/approval"
	"github.com/hgraphpay/swapflow/chain"
	"github.com/hgraphpay/swapflow/clients"
	"github.com/hgraphpay/swapflow/executor"
	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/router"
	"github.com/hgraphpay/swapflow/store"
	"github.com/hgraphpay/swapflow/types"
	"github.com/hgraphpay/swapflow/wallet"
)

// Account identifies the swapping wallet in both address systems: the EVM
// address used for contract calls and, on the hash-graph chain, the ledger
// account id the mirror node indexes.
type Account struct {
	EVMAddress common.Address
	LedgerID   string
}

// Adapter is the per-chain-family behavior bundle. One concrete
// implementation exists per family; the engine selects one per operation by
// the intent's network tag and never branches on family itself.
type Adapter interface {
	Network() types.Network
	Params() chain.Params

	// BuildPlan classifies the intent's endpoints, selects the router
	// function and converts all amounts to chain-correct smallest units.
	BuildPlan(intent *types.SwapIntent, recipient common.Address, deadline time.Time, cfg router.BuilderConfig) (*router.CallPlan, error)

	// GasHint returns a best-effort gas estimate for the plan, 0 when
	// estimation fails (the validator then falls back to its reserve).
	GasHint(ctx context.Context, plan *router.CallPlan) uint64

	// ValidateBalance runs the family's pre-flight funding check.
	ValidateBalance(ctx context.Context, account Account, nativeIn bool, amountIn *big.Int, gasHint uint64) error

	// EnsureApproval drives the allowance machine for token-in swaps.
	EnsureApproval(ctx context.Context, intent *types.SwapIntent, amountIn *big.Int) error

	// EnsureNetwork runs the network-switch guard.
	EnsureNetwork(ctx context.Context) error

	// Execute submits the plan and waits for its receipt.
	Execute(ctx context.Context, plan *router.CallPlan) *types.SwapExecutionResult

	Signer() wallet.Signer
}

// baseAdapter carries the pieces both families share.
type baseAdapter struct {
	network   types.Network
	params    chain.Params
	backend   clients.Backend
	signer    wallet.Signer
	approvals *approval.Machine
	exec      *executor.Executor
	log       logger.Logger
}

func (a *baseAdapter) Network() types.Network { return a.network }
func (a *baseAdapter) Params() chain.Params   { return a.params }
func (a *baseAdapter) Signer() wallet.Signer  { return a.signer }

func (a *baseAdapter) BuildPlan(intent *types.SwapIntent, recipient common.Address, deadline time.Time, cfg router.BuilderConfig) (*router.CallPlan, error) {
	return router.BuildSwapParams(intent, recipient, deadline, cfg)
}

func (a *baseAdapter) GasHint(ctx context.Context, plan *router.CallPlan) uint64 {
	data, err := router.ABI().Pack(plan.FunctionName, plan.Params...)
	if err != nil {
		return 0
	}
	estimate, err := a.exec.EstimateGas(ctx, plan, data)
	if err != nil {
		return 0
	}
	return estimate
}

func (a *baseAdapter) EnsureApproval(ctx context.Context, intent *types.SwapIntent, amountIn *big.Int) error {
	return a.approvals.Ensure(ctx, intent, amountIn)
}

func (a *baseAdapter) EnsureNetwork(ctx context.Context) error {
	return executor.EnsureNetwork(ctx, a.signer, a.network)
}

func (a *baseAdapter) Execute(ctx context.Context, plan *router.CallPlan) *types.SwapExecutionResult {
	return a.exec.Execute(ctx, a.params, plan)
}

// EVMAdapter implements Adapter for EVM-style networks.
type EVMAdapter struct {
	baseAdapter
	validator *executor.Validator
}

// NewEVMAdapter wires the EVM family pipeline for one network.
func NewEVMAdapter(network types.Network, backend clients.Backend, signer wallet.Signer, st *store.Store, log logger.Logger) (*EVMAdapter, error) {
	params, ok := chain.ParamsFor(network)
	if !ok || params.Family != types.FamilyEVM {
		return nil, types.NewSwapError(types.ErrInvalidSwap, "%s is not an EVM network", network)
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &EVMAdapter{
		baseAdapter: baseAdapter{
			network:   network,
			params:    params,
			backend:   backend,
			signer:    signer,
			approvals: approval.NewMachine(backend, signer, st, log),
			exec:      executor.New(backend, signer, log),
			log:       log,
		},
		validator: executor.NewValidator(backend, nil, log),
	}, nil
}

func (a *EVMAdapter) ValidateBalance(ctx context.Context, account Account, nativeIn bool, amountIn *big.Int, gasHint uint64) error {
	return a.validator.ValidateBalance(ctx, a.params, account.EVMAddress, "", nativeIn, amountIn, gasHint)
}

// HederaAdapter implements Adapter for the hash-graph networks. Contract
// calls go through the EVM compatibility relay; native balances come from
// the mirror node in the ledger base.
type HederaAdapter struct {
	baseAdapter
	validator *executor.Validator
}

// NewHederaAdapter wires the hash-graph family pipeline for one network.
func NewHederaAdapter(network types.Network, backend clients.Backend, mirror *clients.MirrorClient, signer wallet.Signer, st *store.Store, log logger.Logger) (*HederaAdapter, error) {
	params, ok := chain.ParamsFor(network)
	if !ok || params.Family != types.FamilyHedera {
		return nil, types.NewSwapError(types.ErrInvalidSwap, "%s is not a hash-graph network", network)
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	if mirror == nil {
		mirror = clients.NewMirrorClient(network)
	}
	return &HederaAdapter{
		baseAdapter: baseAdapter{
			network:   network,
			params:    params,
			backend:   backend,
			signer:    signer,
			approvals: approval.NewMachine(backend, signer, st, log),
			exec:      executor.New(backend, signer, log),
			log:       log,
		},
		validator: executor.NewValidator(backend, mirror, log),
	}, nil
}

func (a *HederaAdapter) ValidateBalance(ctx context.Context, account Account, nativeIn bool, amountIn *big.Int, gasHint uint64) error {
	ledger := account.LedgerID
	if ledger == "" {
		ledger = account.EVMAddress.Hex()
	}
	return a.validator.ValidateBalance(ctx, a.params, account.EVMAddress, ledger, nativeIn, amountIn, gasHint)
}
