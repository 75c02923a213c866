package stablepay

import "fmt"

// PaymentError represents a payment-specific error
type PaymentError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeValidation          = "validation_error"
	ErrCodeInvalidAmount       = "invalid_amount"
	ErrCodeWalletUnavailable   = "wallet_unavailable"
	ErrCodeWalletLocked        = "wallet_locked"
	ErrCodeWrongNetwork        = "wrong_network"
	ErrCodeChainCallFailed     = "chain_call_failed"
	ErrCodeBackendNotifyFailed = "backend_notify_failed"
)

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, details map[string]interface{}) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ErrorCode extracts the payment error code from err, or "" if err is not
// a *PaymentError
func ErrorCode(err error) string {
	if pe, ok := err.(*PaymentError); ok {
		return pe.Code
	}
	return ""
}
