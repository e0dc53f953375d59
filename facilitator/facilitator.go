// Package facilitator implements the x402 "exact" scheme for the hash-graph
// networks: it verifies client-submitted, partially-signed transfer
// transactions against declared payment requirements, then co-signs and
// submits them.
package facilitator

import (
	"fmt"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/metrics"
	"github.com/hgraphpay/swapflow/types"
)

// Network names accepted on the wire.
const (
	NetworkHederaMainnet = "hedera-mainnet"
	NetworkHederaTestnet = "hedera-testnet"
)

// hederaNetworkNames maps wire network names to SDK client names.
var hederaNetworkNames = map[string]string{
	NetworkHederaMainnet: "mainnet",
	NetworkHederaTestnet: "testnet",
}

// DefaultConfirmTimeout bounds how long settlement waits for a receipt.
const DefaultConfirmTimeout = 30 * time.Second

// Service verifies and settles exact-scheme payments on one hash-graph
// network. The operator account is both the facilitator's signing identity
// and the fee payer clients must build their transactions against.
type Service struct {
	client         *hedera.Client
	operatorID     hedera.AccountID
	network        string
	confirmTimeout time.Duration
	log            logger.Logger
	metrics        metrics.Recorder
}

// New builds a facilitator service with operator credentials. The network is
// the wire name ("hedera-mainnet" or "hedera-testnet").
func New(network, operatorID, operatorKey string, log logger.Logger, rec metrics.Recorder) (*Service, error) {
	clientName, ok := hederaNetworkNames[network]
	if !ok {
		return nil, fmt.Errorf("unsupported facilitator network %q", network)
	}
	if operatorID == "" || operatorKey == "" {
		return nil, fmt.Errorf("operator credentials are required")
	}

	id, err := hedera.AccountIDFromString(operatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator account id: %w", err)
	}
	key, err := hedera.PrivateKeyFromString(operatorKey)
	if err != nil {
		return nil, fmt.Errorf("invalid operator key: %w", err)
	}

	client, err := hedera.ClientForName(clientName)
	if err != nil {
		return nil, fmt.Errorf("create hedera client: %w", err)
	}
	client.SetOperator(id, key)

	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Service{
		client:         client,
		operatorID:     id,
		network:        network,
		confirmTimeout: DefaultConfirmTimeout,
		log:            log,
		metrics:        rec,
	}, nil
}

// SetConfirmTimeout overrides the settlement receipt deadline.
func (s *Service) SetConfirmTimeout(d time.Duration) {
	if d > 0 {
		s.confirmTimeout = d
	}
}

// Network returns the wire network name the service settles on.
func (s *Service) Network() string { return s.network }

// FeePayer returns the operator account clients must declare as fee payer.
func (s *Service) FeePayer() string { return s.operatorID.String() }

// Supported describes the (scheme, network) tuple this service accepts,
// including the fee-payer identity clients build against.
func (s *Service) Supported() types.SupportedKind {
	return types.SupportedKind{
		X402Version: int(types.X402Version1),
		Scheme:      string(types.SchemeExact),
		Network:     s.network,
		Extra:       map[string]interface{}{"feePayer": s.operatorID.String()},
	}
}

// Close tears down the SDK client's node connections.
func (s *Service) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}
