package types

import "fmt"

// X402Version represents the version of the x402 protocol.
type X402Version int

const (
	X402Version1 X402Version = 1
)

// PaymentScheme represents supported payment schemes.
type PaymentScheme string

const (
	SchemeExact PaymentScheme = "exact"
)

// NativeAssetMarker is the asset identifier requirements use to declare a
// native (hbar) payment instead of a token transfer.
const NativeAssetMarker = "HBAR"

// PaymentRequirements defines what a resource server accepts as payment.
// Supplied by the requesting party and compared field-by-field during
// verification, never mutated.
type PaymentRequirements struct {
	// Scheme of the payment protocol to use (only "exact" is supported).
	Scheme string `json:"scheme" validate:"required"`

	// Network of the blockchain to send payment on (e.g. "hedera-testnet").
	Network string `json:"network" validate:"required"`

	// Amount required to pay for the resource, in atomic units of the asset.
	// Represented as a string because Go does not support uint256.
	MaxAmountRequired string `json:"maxAmountRequired" validate:"required"`

	// URL of the resource to pay for.
	Resource string `json:"resource"`

	// Description of the resource being purchased.
	Description string `json:"description"`

	// MIME type of the resource response.
	MimeType string `json:"mimeType"`

	// Account the payment must be sent to.
	PayTo string `json:"payTo" validate:"required"`

	// Maximum time in seconds for the resource server to respond.
	MaxTimeoutSeconds int `json:"maxTimeoutSeconds"`

	// Asset identifier: NativeAssetMarker for hbar, or a token id ("0.0.x").
	Asset string `json:"asset" validate:"required"`

	// Extra carries scheme-specific details. For exact-hedera the facilitator
	// publishes its fee-payer account here and requires payloads to match it.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// FeePayer returns the fee-payer account declared in Extra, if any.
func (pr *PaymentRequirements) FeePayer() string {
	if pr.Extra == nil {
		return ""
	}
	if v, ok := pr.Extra["feePayer"].(string); ok {
		return v
	}
	return ""
}

func (pr *PaymentRequirements) Validate() error {
	if pr.Scheme == "" {
		return fmt.Errorf("paymentRequirements.scheme is required")
	}
	if pr.Network == "" {
		return fmt.Errorf("paymentRequirements.network is required")
	}
	if pr.MaxAmountRequired == "" {
		return fmt.Errorf("paymentRequirements.maxAmountRequired is required")
	}
	if pr.PayTo == "" {
		return fmt.Errorf("paymentRequirements.payTo is required")
	}
	if pr.Asset == "" {
		return fmt.Errorf("paymentRequirements.asset is required")
	}
	return nil
}

// PaymentPayload is the client-submitted envelope. Transaction carries a
// base64-encoded, partially-signed Hedera transfer transaction.
type PaymentPayload struct {
	X402Version int    `json:"x402Version"`
	Scheme      string `json:"scheme"`
	Network     string `json:"network"`
	Transaction string `json:"transaction"`
}

func (p *PaymentPayload) Validate() error {
	if p.X402Version <= 0 {
		return fmt.Errorf("x402Version must be greater than 0")
	}
	if p.Transaction == "" {
		return fmt.Errorf("paymentPayload.transaction is required")
	}
	return nil
}

// VerifyRequest is the body of POST /verify and POST /settle.
type VerifyRequest struct {
	PaymentPayload      PaymentPayload      `json:"paymentPayload"`
	PaymentRequirements PaymentRequirements `json:"paymentRequirements"`
}

func (v *VerifyRequest) Validate() error {
	if err := v.PaymentPayload.Validate(); err != nil {
		return err
	}
	return v.PaymentRequirements.Validate()
}

// VerifyResponse is the facilitator's verification result. Produced once per
// request; validity lives in the body, not the HTTP status.
type VerifyResponse struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
	Payer         string `json:"payer,omitempty"`
}

// SettleResponse is the facilitator's settlement result. Transaction carries
// the on-chain transaction id actually used, when known, even on failure so
// callers can look it up.
type SettleResponse struct {
	Success     bool   `json:"success"`
	ErrorReason string `json:"errorReason,omitempty"`
	Transaction string `json:"transaction,omitempty"`
	Network     string `json:"network"`
	Payer       string `json:"payer,omitempty"`
}

// SupportedKind describes one (scheme, network) tuple the facilitator
// supports, including the fee-payer identity clients must build against.
type SupportedKind struct {
	X402Version int                    `json:"x402Version"`
	Scheme      string                 `json:"scheme"`
	Network     string                 `json:"network"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

// SupportedResponse is the body of GET /supported.
type SupportedResponse struct {
	Kinds []SupportedKind `json:"kinds"`
}
