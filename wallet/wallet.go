// Package wallet defines the wallet/provider boundary the swap pipeline
// consumes. The capability set is vendor-neutral: any wallet-connection
// library that can report an address and chain, switch networks, and sign
// and submit a prepared transaction can back it.
package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxRequest is a populated, unsigned transaction handed to the wallet.
// GasPrice nil means the network prices the transaction (the hash-graph
// relay rejects client-supplied prices); non-nil requests legacy pricing.
type TxRequest struct {
	To       *common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64
	GasPrice *big.Int
}

// Signer is the wallet capability set.
type Signer interface {
	// Address of the connected account.
	Address() common.Address
	// ChainID of the wallet's currently active chain.
	ChainID(ctx context.Context) (*big.Int, error)
	// SwitchChain requests the wallet to activate the given chain. The
	// request is not guaranteed synchronous; callers must re-read ChainID.
	SwitchChain(ctx context.Context, chainID *big.Int) error
	// SendTransaction signs and submits, returning the hash immediately.
	SendTransaction(ctx context.Context, tx *TxRequest) (common.Hash, error)
}

// Wallet errors, mirroring the EIP-1193 provider error codes the browser
// boundary reports. The guard distinguishes a user saying no (4001) from a
// wallet that does not know the chain (4902).
var (
	ErrUserRejected      = errors.New("user rejected the request")
	ErrUnrecognizedChain = errors.New("wallet does not recognize the requested chain")
)
