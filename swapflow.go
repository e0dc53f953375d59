// Package swapflow wires the swap/bridge execution pipeline for the
// hash-graph and EVM chain families behind one facade: per-network adapters,
// the approval machine, balance validation, chain-correct gas policy and the
// shared status store the UI observes.
package swapflow

import (
	"context"
	"fmt"
	"time"

	"github.com/hgraphpay/swapflow/bridge"
	"github.com/hgraphpay/swapflow/chain"
	"github.com/hgraphpay/swapflow/clients"
	"github.com/hgraphpay/swapflow/engine"
	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/metrics"
	"github.com/hgraphpay/swapflow/pools"
	"github.com/hgraphpay/swapflow/store"
	"github.com/hgraphpay/swapflow/types"
	"github.com/hgraphpay/swapflow/wallet"
)

// NetworkConfig describes how to reach one network.
type NetworkConfig struct {
	// RPCUrl of the EVM JSON-RPC endpoint (the relay URL on hash-graph
	// networks).
	RPCUrl string
	// Signer is the connected wallet for this network.
	Signer wallet.Signer
	// MirrorURL overrides the public mirror-node base URL. Hash-graph
	// networks only; empty selects the network's public mirror.
	MirrorURL string
	// PoolsAPIURL enables pool discovery for this network when set.
	PoolsAPIURL string
}

// Swapflow is the facade over the full pipeline.
type Swapflow struct {
	log     logger.Logger
	metrics metrics.Recorder
	store   *store.Store

	engineCfg engine.Config
	engine    *engine.Engine

	transferers map[types.Network]*bridge.Transferer
	discoveries map[types.Network]*pools.Discovery
	backends    map[types.Network]clients.Backend
	poolsTTL    time.Duration
}

// New builds an empty facade; networks are added with AddNetwork.
func New(opts ...Option) *Swapflow {
	s := &Swapflow{
		log:         logger.NoopLogger{},
		metrics:     metrics.NoopRecorder{},
		store:       store.New(),
		transferers: make(map[types.Network]*bridge.Transferer),
		discoveries: make(map[types.Network]*pools.Discovery),
		backends:    make(map[types.Network]clients.Backend),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = engine.New(s.store, s.log, s.metrics, s.engineCfg)
	return s
}

// AddNetwork connects the network and registers its chain-family adapter.
func (s *Swapflow) AddNetwork(network types.Network, cfg NetworkConfig) error {
	if cfg.Signer == nil {
		return fmt.Errorf("network %s: a signer is required", network)
	}
	backend, err := clients.Dial(cfg.RPCUrl)
	if err != nil {
		return fmt.Errorf("network %s: %w", network, err)
	}
	return s.addNetworkWithBackend(network, cfg, backend)
}

// AddNetworkWithBackend registers a network over an already-connected
// backend. Used by tests and embedders that manage their own clients.
func (s *Swapflow) AddNetworkWithBackend(network types.Network, cfg NetworkConfig, backend clients.Backend) error {
	if cfg.Signer == nil {
		return fmt.Errorf("network %s: a signer is required", network)
	}
	return s.addNetworkWithBackend(network, cfg, backend)
}

func (s *Swapflow) addNetworkWithBackend(network types.Network, cfg NetworkConfig, backend clients.Backend) error {
	var (
		adapter engine.Adapter
		err     error
	)
	switch network.Family() {
	case types.FamilyHedera:
		var mirror *clients.MirrorClient
		if cfg.MirrorURL != "" {
			mirror = clients.NewMirrorClientWithURL(cfg.MirrorURL)
		}
		adapter, err = engine.NewHederaAdapter(network, backend, mirror, cfg.Signer, s.store, s.log)
	case types.FamilyEVM:
		adapter, err = engine.NewEVMAdapter(network, backend, cfg.Signer, s.store, s.log)
	default:
		return fmt.Errorf("unsupported network %s", network)
	}
	if err != nil {
		return err
	}

	s.engine.Register(adapter)
	s.backends[network] = backend
	s.transferers[network] = bridge.NewTransferer(backend, cfg.Signer, s.log)
	if cfg.PoolsAPIURL != "" {
		s.discoveries[network] = pools.NewDiscovery(network, cfg.PoolsAPIURL, s.poolsTTL, s.log)
	}
	s.log.Info("network registered", map[string]any{
		"network": network,
		"family":  network.Family(),
	})
	return nil
}

// Swap runs one swap attempt through the pipeline. The result is never nil
// and is also observable through the store.
func (s *Swapflow) Swap(ctx context.Context, intent *types.SwapIntent, account engine.Account) *types.SwapExecutionResult {
	return s.engine.Swap(ctx, intent, account)
}

// SendBridgeDeposit executes the deposit leg of a bridge transfer.
func (s *Swapflow) SendBridgeDeposit(ctx context.Context, intent *bridge.Intent) *types.SwapExecutionResult {
	t, ok := s.transferers[intent.Network]
	if !ok {
		return &types.SwapExecutionResult{
			Error: fmt.Sprintf("no network registered for %s", intent.Network),
			Kind:  types.ErrInvalidSwap,
		}
	}
	return t.Send(ctx, intent)
}

// Pools returns the cached pool list for a network with discovery enabled.
func (s *Swapflow) Pools(ctx context.Context, network types.Network) ([]pools.Pool, error) {
	d, ok := s.discoveries[network]
	if !ok {
		return nil, fmt.Errorf("pool discovery is not enabled for %s", network)
	}
	return d.Pools(ctx)
}

// FindPair looks up a pool for the token pair, resolving native sentinels to
// the wrapped-native address.
func (s *Swapflow) FindPair(ctx context.Context, network types.Network, tokenA, tokenB string) (pools.Pool, bool, error) {
	d, ok := s.discoveries[network]
	if !ok {
		return pools.Pool{}, false, fmt.Errorf("pool discovery is not enabled for %s", network)
	}
	return d.FindPair(ctx, tokenA, tokenB)
}

// Store exposes the shared status store for UI observers.
func (s *Swapflow) Store() *store.Store { return s.store }

// IsNetworkSupported reports whether params exist for the network and it has
// been registered.
func (s *Swapflow) IsNetworkSupported(network types.Network) bool {
	if _, ok := chain.ParamsFor(network); !ok {
		return false
	}
	_, ok := s.backends[network]
	return ok
}
