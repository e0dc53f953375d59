package engine

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/hgraphpay/swapflow/chain"
	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/metrics"
	"github.com/hgraphpay/swapflow/router"
	"github.com/hgraphpay/swapflow/store"
	"github.com/hgraphpay/swapflow/types"
)

// DefaultDeadline is how far in the future the router deadline is set when
// the config leaves it zero.
const DefaultDeadline = 20 * time.Minute

// Config carries the engine's policy knobs.
type Config struct {
	SlippageBps int
	FeeTier     int
	Deadline    time.Duration
}

// Engine owns the swap pipeline. It is safe for concurrent use but admits
// only one in-flight swap at a time; a new attempt requires a new intent.
type Engine struct {
	mu       sync.Mutex
	inFlight bool

	adapters map[types.Network]Adapter
	store    *store.Store
	log      logger.Logger
	metrics  metrics.Recorder
	cfg      Config
}

// New builds an engine around the shared status store. Adapters are
// registered separately, one per supported network.
func New(st *store.Store, log logger.Logger, rec metrics.Recorder, cfg Config) *Engine {
	if st == nil {
		st = store.New()
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = DefaultDeadline
	}
	return &Engine{
		adapters: make(map[types.Network]Adapter),
		store:    st,
		log:      log,
		metrics:  rec,
		cfg:      cfg,
	}
}

// Register makes the adapter's network swappable.
func (e *Engine) Register(a Adapter) {
	e.adapters[a.Network()] = a
}

// Store exposes the status store for observers.
func (e *Engine) Store() *store.Store { return e.store }

// Swap runs one swap attempt end to end and returns its result. The result
// is also written to the store; it is never nil. Failures before submission
// carry no transaction hash, failures after submission keep the hash even
// when confirmation fails.
func (e *Engine) Swap(ctx context.Context, intent *types.SwapIntent, account Account) *types.SwapExecutionResult {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return e.fail(types.ErrInvalidSwap, "a swap is already in flight")
	}
	e.inFlight = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	start := time.Now()
	e.store.Reset()

	adapter, ok := e.adapters[intent.Network]
	if !ok {
		return e.fail(types.ErrInvalidSwap, "no adapter registered for network %s", intent.Network)
	}

	labels := map[string]string{"network": string(intent.Network)}
	defer func() {
		e.metrics.ObserveLatency("swap_duration", time.Since(start), labels)
	}()

	plan, err := adapter.BuildPlan(intent, account.EVMAddress, time.Now().Add(e.cfg.Deadline), router.BuilderConfig{
		SlippageBps: e.cfg.SlippageBps,
		FeeTier:     e.cfg.FeeTier,
	})
	if err != nil {
		return e.failErr(err)
	}

	nativeIn := plan.Value != nil
	amountIn, err := e.resolveAmountIn(intent, plan, nativeIn)
	if err != nil {
		return e.failErr(err)
	}

	var gasHint uint64
	if nativeIn {
		gasHint = adapter.GasHint(ctx, plan)
	}
	if err := adapter.ValidateBalance(ctx, account, nativeIn, amountIn, gasHint); err != nil {
		return e.failErr(err)
	}

	if !nativeIn {
		if err := adapter.EnsureApproval(ctx, intent, amountIn); err != nil {
			if adapter.Params().Approval == chain.ApprovalFailOpen {
				// allowance probes are unreliable for some ledger-native
				// tokens; proceed and let the router revert if the
				// allowance truly is missing
				e.log.Warn("approval failed, continuing under fail-open policy", map[string]any{
					"network": intent.Network,
					"token":   intent.TokenInAddress,
					"error":   err.Error(),
				})
			} else {
				return e.failErr(err)
			}
		}
	}

	if err := adapter.EnsureNetwork(ctx); err != nil {
		return e.failErr(err)
	}

	result := adapter.Execute(ctx, plan)
	e.store.SetResult(*result)
	if result.Success {
		e.metrics.IncCounter("swap_success", labels)
	} else {
		e.metrics.IncCounter("swap_failure", map[string]string{
			"network": string(intent.Network),
			"kind":    string(result.Kind),
		})
	}
	return result
}

// resolveAmountIn yields the input amount in smallest units: the plan's
// native value for native-in swaps, otherwise the intent amount in the
// token's own decimals.
func (e *Engine) resolveAmountIn(intent *types.SwapIntent, plan *router.CallPlan, nativeIn bool) (*big.Int, error) {
	if nativeIn {
		return plan.Value, nil
	}
	amount, err := chain.ParseUnits(intent.AmountIn, intent.TokenInDecimals)
	if err != nil {
		return nil, types.WrapSwapError(types.ErrInvalidSwap, err, "invalid amount in: %v", err)
	}
	return amount, nil
}

func (e *Engine) fail(kind types.SwapErrorKind, format string, args ...interface{}) *types.SwapExecutionResult {
	return e.failErr(types.NewSwapError(kind, format, args...))
}

// failErr normalizes any pipeline error to a failed result and records it.
func (e *Engine) failErr(err error) *types.SwapExecutionResult {
	kind := types.ErrTransactionFailed
	var swapErr *types.SwapError
	if errors.As(err, &swapErr) {
		kind = swapErr.Kind
	}
	result := &types.SwapExecutionResult{
		Success: false,
		Error:   err.Error(),
		Kind:    kind,
	}
	e.store.SetResult(*result)
	e.metrics.IncCounter("swap_failure", map[string]string{"kind": string(kind)})
	e.log.Error("swap failed", map[string]any{"kind": string(kind), "error": err.Error()})
	return result
}
