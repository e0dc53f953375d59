package facilitator

import (
	"context"
	"encoding/base64"
	"fmt"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hgraphpay/swapflow/types"
)

// Verify validates a payment payload against its requirements. Validity is
// reported in the response body, never as an error; any failure that does
// not match a known reason collapses to unexpected_verify_error so raw
// detail never leaks to the caller.
func (s *Service) Verify(ctx context.Context, payload *types.PaymentPayload, requirements *types.PaymentRequirements) (resp *types.VerifyResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("verify panicked", map[string]any{"panic": fmt.Sprint(r)})
			resp = &types.VerifyResponse{IsValid: false, InvalidReason: types.ReasonUnexpectedVerifyError}
		}
		if !resp.IsValid {
			if _, known := types.KnownVerifyReasons[resp.InvalidReason]; !known {
				resp.InvalidReason = types.ReasonUnexpectedVerifyError
			}
			s.metrics.IncCounter("verify_invalid", map[string]string{"reason": resp.InvalidReason})
		} else {
			s.metrics.IncCounter("verify_valid", map[string]string{"network": s.network})
		}
	}()
	return s.verify(payload, requirements)
}

func (s *Service) verify(payload *types.PaymentPayload, requirements *types.PaymentRequirements) *types.VerifyResponse {
	if payload.Scheme != string(types.SchemeExact) || requirements.Scheme != string(types.SchemeExact) {
		return invalid(types.ReasonInvalidScheme)
	}
	if payload.Network != requirements.Network || payload.Network != s.network {
		return invalid(types.ReasonInvalidNetwork)
	}

	transfer, err := decodeTransfer(payload.Transaction)
	if err != nil {
		s.log.Debug("payload transaction did not decode", map[string]any{"error": err.Error()})
		return invalid(types.ReasonInvalidPayloadTransaction)
	}

	payer := transactionPayer(transfer)
	if payer == "" {
		return invalid(types.ReasonInvalidPayloadTransaction)
	}
	// The declared payer must be the facilitator's own signing identity and
	// the fee payer the requirements advertise. The double check stops a
	// payload claiming a different fee payer from being accepted.
	if payer != s.operatorID.String() || payer != requirements.FeePayer() {
		return invalid(types.ReasonInvalidPayloadSignature)
	}

	if reason := checkAsset(transfer, requirements.Asset); reason != "" {
		return invalid(reason)
	}

	return &types.VerifyResponse{IsValid: true, Payer: payer}
}

func invalid(reason string) *types.VerifyResponse {
	return &types.VerifyResponse{IsValid: false, InvalidReason: reason}
}

// decodeTransfer decodes the base64 payload into a transfer transaction.
// Any other transaction type is rejected.
func decodeTransfer(encoded string) (*hedera.TransferTransaction, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	tx, err := hedera.TransactionFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse transaction: %w", err)
	}
	switch t := tx.(type) {
	case hedera.TransferTransaction:
		return &t, nil
	case *hedera.TransferTransaction:
		return t, nil
	default:
		return nil, fmt.Errorf("not a transfer transaction: %T", tx)
	}
}

// transactionPayer extracts the account that pays the transaction's fees,
// declared in its transaction id.
func transactionPayer(transfer *hedera.TransferTransaction) string {
	id := transfer.GetTransactionID()
	if id.AccountID == nil {
		return ""
	}
	return id.AccountID.String()
}

// checkAsset enforces the asset-type invariant: a native requirement demands
// a pure hbar transfer, a token requirement demands a well-formed token id
// distinct from the native marker. Returns the failure reason, or "".
func checkAsset(transfer *hedera.TransferTransaction, asset string) string {
	if asset == types.NativeAssetMarker {
		if len(transfer.GetTokenTransfers()) != 0 || len(transfer.GetHbarTransfers()) == 0 {
			return types.ReasonAssetMismatch
		}
		return ""
	}
	if _, err := hedera.TokenIDFromString(asset); err != nil {
		return types.ReasonAssetMismatch
	}
	return ""
}
