package stablepay

import (
	"fmt"
	"strings"
	"time"
)

// Network represents a blockchain network identifier in CAIP-2 format
// Format: namespace:reference (e.g., "eip155:8453" for Base mainnet)
type Network string

// Parse splits the network into namespace and reference components
func (n Network) Parse() (namespace, reference string, err error) {
	parts := strings.Split(string(n), ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid network format: %s", n)
	}
	return parts[0], parts[1], nil
}

// Match checks if this network matches a pattern (supports wildcards)
// e.g., "eip155:8453" matches "eip155:*" and "eip155:*" matches "eip155:8453"
func (n Network) Match(pattern Network) bool {
	if n == pattern {
		return true
	}

	nStr := string(n)
	patternStr := string(pattern)

	if strings.HasSuffix(patternStr, ":*") {
		prefix := strings.TrimSuffix(patternStr, "*")
		return strings.HasPrefix(nStr, prefix)
	}

	if strings.HasSuffix(nStr, ":*") {
		prefix := strings.TrimSuffix(nStr, "*")
		return strings.HasPrefix(patternStr, prefix)
	}

	return false
}

// PaymentRequest is the canonical payment request fed to the orchestrator.
// Requests are assembled by a source (query string, QR payload, JSON body,
// manual form) and validated before any wallet interaction.
type PaymentRequest struct {
	// MerchantID is a 32-byte identifier as 0x-prefixed hex (66 chars total)
	MerchantID string `json:"merchantId"`
	// OrderID is a 32-byte identifier as 0x-prefixed hex (66 chars total)
	OrderID string `json:"orderId"`
	// InvoiceID is a 32-byte identifier as 0x-prefixed hex (66 chars total)
	InvoiceID string `json:"invoiceId"`
	// Amount is a human-readable decimal token quantity (e.g., "15.00")
	Amount string `json:"amount"`
	// TokenAddress is the ERC-20 contract to pay with
	TokenAddress string `json:"tokenAddress"`
	// Deadline is a non-negative integer as a decimal string; "0" disables
	// on-chain expiry enforcement
	Deadline string `json:"deadline"`
	// Signature is the off-chain payment authorization as 0x-prefixed hex.
	// Only its shape is validated here; the contract verifies it on-chain.
	Signature string `json:"signature"`
}

// Status is the terminal outcome of a payment attempt as reported by the chain
type Status string

const (
	// StatusSuccess means the settlement transaction executed successfully
	StatusSuccess Status = "SUCCESS"
	// StatusFailed means the transaction reported a definite non-success result
	StatusFailed Status = "FAILED"
	// StatusPending means no definite result was indexed within the poll
	// window. This is not an error: the transaction may still confirm later.
	StatusPending Status = "PENDING"
)

// State identifies a step of the payment state machine.
// Transitions are strictly forward; any failure moves to StateFailed.
type State string

const (
	StateIdle              State = "IDLE"
	StateValidating        State = "VALIDATING"
	StateConnectingWallet  State = "CONNECTING_WALLET"
	StateCheckingAllowance State = "CHECKING_ALLOWANCE"
	StateApproving         State = "APPROVING"
	StateSubmittingPayment State = "SUBMITTING_PAYMENT"
	StateConfirming        State = "CONFIRMING"
	StateSuccess           State = "SUCCESS"
	StateFailed            State = "FAILED"
	StatePending           State = "PENDING"
)

// Terminal reports whether no further transitions can occur from this state
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed || s == StatePending
}

// LogEntry is one timestamped human-readable event in a session log
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// TxReceipt is the indexing service's view of a submitted transaction.
// Result is empty while the transaction is not yet indexed, "SUCCESS" on
// success, and any other non-empty string is a failure reason.
type TxReceipt struct {
	TxID   string `json:"txid"`
	Result string `json:"result"`
}

// OrderStatusUpdate is the payload sent to the order backend after a
// definite chain result
type OrderStatusUpdate struct {
	TxID      string `json:"txid"`
	Status    Status `json:"status"`
	OrderID   string `json:"order_id"`
	InvoiceID string `json:"invoice_id"`
}

// PaymentRecord is the best-effort local record written once a transaction
// has been submitted. It exists for display and debugging only and is never
// read back as a source of truth.
type PaymentRecord struct {
	Request         PaymentRequest `json:"request"`
	TransactionID   string         `json:"transactionId"`
	Status          Status         `json:"status"`
	Wallet          string         `json:"wallet"`
	AmountBaseUnits string         `json:"amountBaseUnits"`
	Timestamp       time.Time      `json:"timestamp"`
}
