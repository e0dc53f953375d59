package types

import "fmt"

// SwapErrorKind is the closed taxonomy of swap pipeline failures. Every
// on-chain or provider failure is normalized to one of these at the boundary
// of its originating step; raw provider errors never reach the UI layer.
type SwapErrorKind string

const (
	ErrInvalidSwap           SwapErrorKind = "invalid_swap"
	ErrEncoding              SwapErrorKind = "encoding_error"
	ErrInsufficientFunds     SwapErrorKind = "insufficient_funds"
	ErrApprovalFailed        SwapErrorKind = "approval_failed"
	ErrNetworkSwitchRejected SwapErrorKind = "network_switch_rejected"
	ErrNetworkSwitchFailed   SwapErrorKind = "network_switch_failed"
	ErrTransactionFailed     SwapErrorKind = "transaction_failed"
)

// SwapError carries a taxonomy kind plus a human-readable message suitable
// for direct display.
type SwapError struct {
	Kind    SwapErrorKind
	Message string
	Err     error
}

func (e *SwapError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *SwapError) Unwrap() error { return e.Err }

// NewSwapError builds a SwapError with a formatted display message.
func NewSwapError(kind SwapErrorKind, format string, args ...interface{}) *SwapError {
	return &SwapError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapSwapError attaches a taxonomy kind to an underlying error.
func WrapSwapError(kind SwapErrorKind, err error, format string, args ...interface{}) *SwapError {
	return &SwapError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Facilitator error reasons. The enumeration is closed: anything that does
// not match a known reason collapses to the unexpected_* reason for its
// phase instead of leaking exception detail to the caller.
const (
	ReasonInvalidScheme  = "invalid_scheme"
	ReasonInvalidNetwork = "invalid_network"

	ReasonInvalidPayloadTransaction = "invalid_exact_hedera_payload_transaction"
	ReasonInvalidPayloadSignature   = "invalid_exact_hedera_payload_transaction_signature"
	ReasonAssetMismatch             = "invalid_exact_hedera_payload_transaction_asset_mismatch"

	ReasonUnexpectedVerifyError = "unexpected_verify_error"

	ReasonInsufficientFunds   = "insufficient_funds"
	ReasonConfirmationTimeout = "settle_exact_hedera_transaction_confirmation_timed_out"
	ReasonUnexpectedSettleErr = "unexpected_settle_error"
)

// KnownVerifyReasons lists every reason Verify may legitimately return.
var KnownVerifyReasons = map[string]struct{}{
	ReasonInvalidScheme:             {},
	ReasonInvalidNetwork:            {},
	ReasonInvalidPayloadTransaction: {},
	ReasonInvalidPayloadSignature:   {},
	ReasonAssetMismatch:             {},
	ReasonUnexpectedVerifyError:     {},
}
