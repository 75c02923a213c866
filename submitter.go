package stablepay

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// SettleVariant selects the deployed settlement contract's ABI shape.
// The two observed variants differ only in the trailing arguments: the
// signature-gated variant takes an off-chain authorization (deadline and
// signature), the basic variant does not. The variant is explicit
// configuration: packing the wrong argument count fails loudly on-chain but
// ambiguously here, so there is no automatic fallback between the two.
type SettleVariant string

const (
	// SettleSigned invokes settle(merchantId, orderId, invoiceId, token, amount, deadline, signature)
	SettleSigned SettleVariant = "signed"
	// SettleBasic invokes settle(merchantId, orderId, invoiceId, token, amount)
	SettleBasic SettleVariant = "basic"
)

var (
	// SettleSignedABI is the signature-gated settlement entry point
	SettleSignedABI = []byte(`[
		{
			"inputs": [
				{"name": "merchantId", "type": "bytes32"},
				{"name": "orderId", "type": "bytes32"},
				{"name": "invoiceId", "type": "bytes32"},
				{"name": "tokenAddress", "type": "address"},
				{"name": "amount", "type": "uint256"},
				{"name": "deadline", "type": "uint256"},
				{"name": "signature", "type": "bytes"}
			],
			"name": "settle",
			"outputs": [],
			"stateMutability": "nonpayable",
			"type": "function"
		}
	]`)

	// SettleBasicABI is the settlement entry point without off-chain authorization
	SettleBasicABI = []byte(`[
		{
			"inputs": [
				{"name": "merchantId", "type": "bytes32"},
				{"name": "orderId", "type": "bytes32"},
				{"name": "invoiceId", "type": "bytes32"},
				{"name": "tokenAddress", "type": "address"},
				{"name": "amount", "type": "uint256"}
			],
			"name": "settle",
			"outputs": [],
			"stateMutability": "nonpayable",
			"type": "function"
		}
	]`)
)

// Submitter invokes the settlement operation on the payment contract
type Submitter struct {
	// Contract is the settlement contract address
	Contract string
	// Variant selects the deployed contract's settle ABI shape.
	// Defaults to SettleSigned.
	Variant SettleVariant
}

// Submit invokes settle with the validated request and the base-unit amount,
// returning the chain-assigned transaction id. One state-changing call; a
// rejection (insufficient balance, reverted precondition, user rejection in
// the wallet) surfaces as a chain_call_failed error.
func (s *Submitter) Submit(ctx context.Context, session WalletSession, req PaymentRequest, amount *big.Int) (string, error) {
	merchantID, err := hexToBytes32(req.MerchantID)
	if err != nil {
		return "", fmt.Errorf("merchant id: %w", err)
	}
	orderID, err := hexToBytes32(req.OrderID)
	if err != nil {
		return "", fmt.Errorf("order id: %w", err)
	}
	invoiceID, err := hexToBytes32(req.InvoiceID)
	if err != nil {
		return "", fmt.Errorf("invoice id: %w", err)
	}

	variant := s.Variant
	if variant == "" {
		variant = SettleSigned
	}

	var txID string
	switch variant {
	case SettleBasic:
		txID, err = session.WriteContract(ctx, s.Contract, SettleBasicABI, "settle",
			merchantID, orderID, invoiceID, req.TokenAddress, amount)
	case SettleSigned:
		deadline, ok := new(big.Int).SetString(req.Deadline, 10)
		if !ok {
			return "", fmt.Errorf("invalid deadline: %s", req.Deadline)
		}
		var signature []byte
		signature, err = hex.DecodeString(strings.TrimPrefix(req.Signature, "0x"))
		if err != nil {
			return "", fmt.Errorf("invalid signature hex: %w", err)
		}
		txID, err = session.WriteContract(ctx, s.Contract, SettleSignedABI, "settle",
			merchantID, orderID, invoiceID, req.TokenAddress, amount, deadline, signature)
	default:
		return "", fmt.Errorf("unknown settle variant: %s", variant)
	}
	if err != nil {
		return "", chainCallError("settle transaction failed", err)
	}

	return txID, nil
}

// hexToBytes32 decodes a 0x-prefixed 64-digit hex identifier
func hexToBytes32(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return out, fmt.Errorf("invalid hex: %w", err)
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}
