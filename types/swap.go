package types

import "math/big"

// SwapIntent is an immutable description of a desired swap, created when the
// user confirms swap options and consumed exactly once by the engine. A new
// intent is built for every retry.
type SwapIntent struct {
	Network Network

	// Token addresses in EVM-contract form. The zero address marks the
	// chain's native asset; Hedera tokens additionally carry their ledger
	// id so the mirror node can be queried.
	TokenInAddress  string
	TokenOutAddress string
	TokenInID       string
	TokenOutID      string

	TokenInSymbol  string
	TokenOutSymbol string

	TokenInDecimals  int
	TokenOutDecimals int

	// AmountIn is the human-decimal amount, e.g. "0.01".
	AmountIn string
	// AmountOut is the desired output for exact-output swaps, empty for
	// exact-input swaps.
	AmountOut string
	// ExactInput picks between the exact-in and exact-out function families.
	ExactInput bool

	// Path is the ordered list of hop addresses. It may contain the native
	// sentinel; the parameter builder repairs it to wrapped-native form.
	Path []string

	// Router is the pool/router contract address.
	Router        string
	RouterVersion RouterVersion

	// Dex is the declared DEX name, informational only.
	Dex string
}

// ApprovalState enumerates the observable states of the approval machine.
type ApprovalState string

const (
	ApprovalChecking      ApprovalState = "checking"
	ApprovalNotNeeded     ApprovalState = "not_needed"
	ApprovalNeedsApproval ApprovalState = "needs_approval"
	ApprovalApproving     ApprovalState = "approving"
	ApprovalApproved      ApprovalState = "approved"
	ApprovalError         ApprovalState = "error"
)

// ApprovalStatus is the status record observed by the UI while the approval
// machine runs. Reset at the start of each swap attempt.
type ApprovalStatus struct {
	TokenAddress string        `json:"tokenAddress"`
	TokenSymbol  string        `json:"tokenSymbol"`
	Spender      string        `json:"spender"`
	Amount       string        `json:"amount"`
	State        ApprovalState `json:"state"`
	Error        string        `json:"error,omitempty"`
}

// SwapExecutionResult is the outcome of one execution attempt, produced
// exactly once and immutable after creation. Hash is set as soon as the
// transaction is submitted; Receipt once it is mined.
type SwapExecutionResult struct {
	Success bool          `json:"success"`
	Hash    string        `json:"hash,omitempty"`
	Receipt *SwapReceipt  `json:"receipt,omitempty"`
	Error   string        `json:"error,omitempty"`
	Kind    SwapErrorKind `json:"-"`
}

// SwapReceipt is the confirmed-receipt subset the pipeline cares about.
type SwapReceipt struct {
	Status      uint64   `json:"status"`
	BlockNumber *big.Int `json:"blockNumber,omitempty"`
	GasUsed     uint64   `json:"gasUsed"`
}
