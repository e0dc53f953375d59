package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// ErrReceiptTimeout reports that a submitted transaction was not mined
// within the polling window. The transaction may still confirm later;
// callers must not assume it was dropped.
var ErrReceiptTimeout = errors.New("timed out waiting for transaction receipt")

// WaitForReceipt polls for a transaction receipt with exponential backoff
// until it appears or maxElapsed passes.
func WaitForReceipt(ctx context.Context, backend Backend, txHash common.Hash, maxElapsed time.Duration) (*ethtypes.Receipt, error) {
	operation := func() (*ethtypes.Receipt, error) {
		receipt, err := backend.TransactionReceipt(ctx, txHash)
		if err != nil {
			// not mined yet; keep polling
			return nil, fmt.Errorf("receipt not available: %w", err)
		}
		return receipt, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second

	receipt, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(maxElapsed),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrReceiptTimeout
	}
	return receipt, nil
}
