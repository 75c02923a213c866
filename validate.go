package stablepay

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	decimalAmountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
	deadlinePattern      = regexp.MustCompile(`^\d+$`)
	byteHexPattern       = regexp.MustCompile(`^0x([0-9a-fA-F]{2})+$`)
	bytes32HexPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	addressHexPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// ValidatePaymentRequest checks a payment request against the required shape
// rules before any wallet interaction. Rules are checked in a fixed order so
// the reported error is deterministic: amount, deadline, signature, the three
// 32-byte identifiers, then token address. Returns nil when the request is
// valid, otherwise a *PaymentError with code validation_error whose message
// names the first failing field.
func ValidatePaymentRequest(req PaymentRequest) error {
	if req.Amount == "" {
		return validationError("amount is required")
	}
	if !decimalAmountPattern.MatchString(req.Amount) {
		return validationError(fmt.Sprintf("invalid amount: %s", req.Amount))
	}
	if !hasNonZeroDigit(req.Amount) {
		return validationError("amount must be greater than zero")
	}

	if req.Deadline == "" {
		return validationError("deadline is required")
	}
	if !deadlinePattern.MatchString(req.Deadline) {
		return validationError(fmt.Sprintf("invalid deadline: %s", req.Deadline))
	}

	if req.Signature == "" {
		return validationError("signature is required")
	}
	if !byteHexPattern.MatchString(req.Signature) {
		return validationError("invalid signature: expected 0x-prefixed hex with an even number of digits")
	}

	if !bytes32HexPattern.MatchString(req.MerchantID) {
		return validationError(fmt.Sprintf("invalid merchant id: %s", req.MerchantID))
	}
	if !bytes32HexPattern.MatchString(req.OrderID) {
		return validationError(fmt.Sprintf("invalid order id: %s", req.OrderID))
	}
	if !bytes32HexPattern.MatchString(req.InvoiceID) {
		return validationError(fmt.Sprintf("invalid invoice id: %s", req.InvoiceID))
	}

	if req.TokenAddress == "" {
		return validationError("token address is required")
	}
	if strings.HasPrefix(req.TokenAddress, "0x") && !addressHexPattern.MatchString(req.TokenAddress) {
		return validationError(fmt.Sprintf("invalid token address: %s", req.TokenAddress))
	}

	return nil
}

func validationError(message string) *PaymentError {
	return NewPaymentError(ErrCodeValidation, message, nil)
}

// hasNonZeroDigit reports whether a decimal-string amount is strictly
// positive. The grammar admits no sign, so any non-zero digit suffices.
func hasNonZeroDigit(amount string) bool {
	for _, c := range amount {
		if c >= '1' && c <= '9' {
			return true
		}
	}
	return false
}
