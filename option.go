package swapflow

import (
	"time"

	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/metrics"
	"github.com/hgraphpay/swapflow/store"
)

type Option func(*Swapflow)

func WithLogger(l logger.Logger) Option {
	return func(s *Swapflow) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *Swapflow) {
		if r != nil {
			s.metrics = r
		}
	}
}

func WithStore(st *store.Store) Option {
	return func(s *Swapflow) {
		if st != nil {
			s.store = st
		}
	}
}

// WithSlippage sets the minimum-output tolerance in basis points. Zero keeps
// the original behavior of no slippage protection.
func WithSlippage(bps int) Option {
	return func(s *Swapflow) {
		s.engineCfg.SlippageBps = bps
	}
}

// WithFeeTier overrides the single-hop concentrated-liquidity fee tier.
func WithFeeTier(tier int) Option {
	return func(s *Swapflow) {
		s.engineCfg.FeeTier = tier
	}
}

// WithDeadline sets how far in the future router deadlines are placed.
func WithDeadline(d time.Duration) Option {
	return func(s *Swapflow) {
		s.engineCfg.Deadline = d
	}
}

// WithPoolsTTL sets the pool-list cache lifetime for discovery-enabled
// networks.
func WithPoolsTTL(ttl time.Duration) Option {
	return func(s *Swapflow) {
		s.poolsTTL = ttl
	}
}
