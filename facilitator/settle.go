package facilitator

import (
	"context"
	"errors"
	"fmt"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hgraphpay/swapflow/types"
)

// signingState classifies the payload transaction once, at settlement entry,
// instead of inferring the needed signing path from failed calls.
type signingState string

const (
	// stateForeignFrozen: frozen and paid for by someone other than the
	// operator; no co-signature of ours is required.
	stateForeignFrozen signingState = "foreign-frozen"
	// stateOperatorFrozen: frozen with the operator as fee payer; needs the
	// operator's co-signature before submission.
	stateOperatorFrozen signingState = "operator-frozen"
	// stateUnfrozen: must be frozen against our client, then operator-signed.
	stateUnfrozen signingState = "unfrozen"
)

// classifySigning decides which signing path a decoded transfer needs.
func classifySigning(transfer *hedera.TransferTransaction, operator hedera.AccountID) signingState {
	if !transfer.IsFrozen() {
		return stateUnfrozen
	}
	if payer := transactionPayer(transfer); payer != operator.String() {
		return stateForeignFrozen
	}
	return stateOperatorFrozen
}

// Settle re-verifies the payload, co-signs the embedded transfer as needed
// and submits it. The settlement result always carries the network and, when
// known, the transaction id actually used so callers can look it up even on
// failure.
func (s *Service) Settle(ctx context.Context, payload *types.PaymentPayload, requirements *types.PaymentRequirements) (resp *types.SettleResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("settle panicked", map[string]any{"panic": fmt.Sprint(r)})
			resp = &types.SettleResponse{
				Success:     false,
				ErrorReason: types.ReasonUnexpectedSettleErr,
				Network:     s.network,
			}
		}
		s.metrics.IncCounter("settle_total", map[string]string{
			"network": s.network,
			"success": fmt.Sprint(resp.Success),
		})
	}()

	verify := s.Verify(ctx, payload, requirements)
	if !verify.IsValid {
		// settlement never bypasses verification
		return &types.SettleResponse{
			Success:     false,
			ErrorReason: verify.InvalidReason,
			Network:     s.network,
			Payer:       verify.Payer,
		}
	}

	transfer, err := decodeTransfer(payload.Transaction)
	if err != nil {
		return s.settleFailure("", verify.Payer, types.ReasonUnexpectedSettleErr, err)
	}

	state := classifySigning(transfer, s.operatorID)
	switch state {
	case stateForeignFrozen:
		// fully prepared by another fee payer, submit as-is
	case stateOperatorFrozen:
		if _, err := transfer.SignWithOperator(s.client); err != nil {
			// already carrying every required signature is not an error
			s.log.Warn("operator co-sign failed, continuing", map[string]any{"error": err.Error()})
		}
	case stateUnfrozen:
		if _, err := transfer.FreezeWith(s.client); err != nil {
			return s.settleFailure("", verify.Payer, types.ReasonUnexpectedSettleErr, err)
		}
		if _, err := transfer.SignWithOperator(s.client); err != nil {
			return s.settleFailure("", verify.Payer, types.ReasonUnexpectedSettleErr, err)
		}
	}

	txID := transfer.GetTransactionID().String()
	s.log.Info("submitting settlement", map[string]any{
		"network":      s.network,
		"transaction":  txID,
		"signingState": string(state),
	})

	submitted, err := transfer.Execute(s.client)
	if err != nil {
		return s.settleFailure(txID, verify.Payer, submitReason(err), err)
	}

	receipt, err := s.awaitReceipt(ctx, submitted)
	if err != nil {
		return s.settleFailure(txID, verify.Payer, types.ReasonConfirmationTimeout, err)
	}
	if receipt.Status != hedera.StatusSuccess {
		return s.settleFailure(txID, verify.Payer, receiptReason(receipt.Status), fmt.Errorf("receipt status %s", receipt.Status))
	}

	return &types.SettleResponse{
		Success:     true,
		Transaction: txID,
		Network:     s.network,
		Payer:       verify.Payer,
	}
}

// awaitReceipt fetches the receipt under the service's confirmation deadline.
// The SDK call has no context hook, so it runs on its own goroutine.
func (s *Service) awaitReceipt(ctx context.Context, submitted hedera.TransactionResponse) (hedera.TransactionReceipt, error) {
	type outcome struct {
		receipt hedera.TransactionReceipt
		err     error
	}
	ch := make(chan outcome, 1)
	go func() {
		receipt, err := submitted.GetReceipt(s.client)
		ch <- outcome{receipt: receipt, err: err}
	}()

	timer := time.NewTimer(s.confirmTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return hedera.TransactionReceipt{}, ctx.Err()
	case <-timer.C:
		return hedera.TransactionReceipt{}, fmt.Errorf("no receipt within %s", s.confirmTimeout)
	case out := <-ch:
		return out.receipt, out.err
	}
}

func (s *Service) settleFailure(txID, payer, reason string, err error) *types.SettleResponse {
	s.log.Error("settlement failed", map[string]any{
		"network":     s.network,
		"transaction": txID,
		"reason":      reason,
		"error":       err.Error(),
	})
	return &types.SettleResponse{
		Success:     false,
		ErrorReason: reason,
		Transaction: txID,
		Network:     s.network,
		Payer:       payer,
	}
}

// submitReason maps a submission error to a settlement reason.
func submitReason(err error) string {
	var precheck hedera.ErrHederaPreCheckStatus
	if errors.As(err, &precheck) {
		return receiptReason(precheck.Status)
	}
	return types.ReasonUnexpectedSettleErr
}

// receiptReason maps a network status code to a settlement reason.
func receiptReason(status hedera.Status) string {
	switch status {
	case hedera.StatusInsufficientPayerBalance, hedera.StatusInsufficientAccountBalance:
		return types.ReasonInsufficientFunds
	case hedera.StatusTransactionExpired:
		return types.ReasonConfirmationTimeout
	default:
		return types.ReasonUnexpectedSettleErr
	}
}
