// Package source assembles canonical payment requests from the different
// input-acquisition strategies: route parameters and query strings, JSON
// payloads, and decoded QR payload text. Every strategy produces the same
// PaymentRequest shape and feeds the same orchestrator; none of them
// duplicates the payment state machine.
package source

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stablepay "github.com/stablepay/stablepay-go"
)

// ValuesSource builds a payment request from URL values (query string or
// route parameters mapped into url.Values by the router).
type ValuesSource struct {
	Values url.Values
}

// PaymentRequest maps the well-known parameter names onto a request.
// A missing deadline defaults to "0" (no on-chain expiry enforcement).
func (s ValuesSource) PaymentRequest() (stablepay.PaymentRequest, error) {
	req := stablepay.PaymentRequest{
		MerchantID:   s.Values.Get("merchant_id"),
		OrderID:      s.Values.Get("order_id"),
		InvoiceID:    s.Values.Get("invoice_id"),
		Amount:       s.Values.Get("amount"),
		TokenAddress: s.Values.Get("token"),
		Deadline:     s.Values.Get("deadline"),
		Signature:    s.Values.Get("signature"),
	}
	if req.Deadline == "" {
		req.Deadline = "0"
	}
	return req, nil
}

// paymentRequestSchema is the shape contract for JSON payment payloads.
// Field-level format rules (hex widths, decimal grammar) remain with the
// core validator; the schema rejects structurally broken payloads early
// with a precise path in the error.
var paymentRequestSchema = []byte(`{
	"type": "object",
	"required": ["merchantId", "orderId", "invoiceId", "amount", "tokenAddress"],
	"properties": {
		"merchantId":   {"type": "string"},
		"orderId":      {"type": "string"},
		"invoiceId":    {"type": "string"},
		"amount":       {"type": "string"},
		"tokenAddress": {"type": "string"},
		"deadline":     {"type": "string"},
		"signature":    {"type": "string"}
	}
}`)

// JSONSource builds a payment request from a raw JSON payload (manual form
// submissions arrive this way).
type JSONSource struct {
	Payload []byte
}

// PaymentRequest validates the payload against the request schema and
// decodes it
func (s JSONSource) PaymentRequest() (stablepay.PaymentRequest, error) {
	schemaLoader := gojsonschema.NewBytesLoader(paymentRequestSchema)
	documentLoader := gojsonschema.NewBytesLoader(s.Payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return stablepay.PaymentRequest{}, fmt.Errorf("payment payload is not valid JSON: %w", err)
	}
	if !result.Valid() {
		return stablepay.PaymentRequest{}, fmt.Errorf("invalid payment payload: %s", result.Errors()[0])
	}

	var req stablepay.PaymentRequest
	if err := json.Unmarshal(s.Payload, &req); err != nil {
		return stablepay.PaymentRequest{}, fmt.Errorf("failed to decode payment payload: %w", err)
	}
	if req.Deadline == "" {
		req.Deadline = "0"
	}
	return req, nil
}

// QRSource builds a payment request from the text content of a decoded QR
// code. Image decoding happens upstream; this source accepts the two payload
// conventions in the wild - a payment URL carrying the request in its query
// string, or a bare JSON object.
type QRSource struct {
	Payload string
}

// PaymentRequest detects the payload convention and delegates to the
// matching source
func (s QRSource) PaymentRequest() (stablepay.PaymentRequest, error) {
	payload := strings.TrimSpace(s.Payload)
	if payload == "" {
		return stablepay.PaymentRequest{}, fmt.Errorf("empty QR payload")
	}

	if strings.HasPrefix(payload, "{") {
		return JSONSource{Payload: []byte(payload)}.PaymentRequest()
	}

	u, err := url.Parse(payload)
	if err != nil {
		return stablepay.PaymentRequest{}, fmt.Errorf("QR payload is neither JSON nor a URL: %w", err)
	}
	return ValuesSource{Values: u.Query()}.PaymentRequest()
}
