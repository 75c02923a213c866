package source

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMerchantID = "0xabababababababababababababababababababababababababababababababab"
	testOrderID    = "0xcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd"
	testInvoiceID  = "0xefefefefefefefefefefefefefefefefefefefefefefefefefefefefefefefef"
	testToken      = "0x036CbD53842c5426634e7929541eC2318f3dCF7e"
)

func testValues() url.Values {
	return url.Values{
		"merchant_id": {testMerchantID},
		"order_id":    {testOrderID},
		"invoice_id":  {testInvoiceID},
		"amount":      {"15.00"},
		"token":       {testToken},
		"deadline":    {"1735689600"},
		"signature":   {"0xdeadbeef"},
	}
}

func TestValuesSource(t *testing.T) {
	req, err := ValuesSource{Values: testValues()}.PaymentRequest()
	require.NoError(t, err)

	assert.Equal(t, testMerchantID, req.MerchantID)
	assert.Equal(t, testOrderID, req.OrderID)
	assert.Equal(t, testInvoiceID, req.InvoiceID)
	assert.Equal(t, "15.00", req.Amount)
	assert.Equal(t, testToken, req.TokenAddress)
	assert.Equal(t, "1735689600", req.Deadline)
	assert.Equal(t, "0xdeadbeef", req.Signature)
}

func TestValuesSourceDefaultsDeadline(t *testing.T) {
	values := testValues()
	values.Del("deadline")

	req, err := ValuesSource{Values: values}.PaymentRequest()
	require.NoError(t, err)
	assert.Equal(t, "0", req.Deadline)
}

func TestJSONSource(t *testing.T) {
	payload := `{
		"merchantId": "` + testMerchantID + `",
		"orderId": "` + testOrderID + `",
		"invoiceId": "` + testInvoiceID + `",
		"amount": "15.00",
		"tokenAddress": "` + testToken + `",
		"deadline": "1735689600",
		"signature": "0xdeadbeef"
	}`

	req, err := JSONSource{Payload: []byte(payload)}.PaymentRequest()
	require.NoError(t, err)
	assert.Equal(t, testMerchantID, req.MerchantID)
	assert.Equal(t, "15.00", req.Amount)
	assert.Equal(t, "1735689600", req.Deadline)
}

func TestJSONSourceMissingRequiredField(t *testing.T) {
	payload := `{"merchantId": "` + testMerchantID + `", "amount": "15.00"}`

	_, err := JSONSource{Payload: []byte(payload)}.PaymentRequest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orderId")
}

func TestJSONSourceWrongFieldType(t *testing.T) {
	payload := `{
		"merchantId": "` + testMerchantID + `",
		"orderId": "` + testOrderID + `",
		"invoiceId": "` + testInvoiceID + `",
		"amount": 15,
		"tokenAddress": "` + testToken + `"
	}`

	_, err := JSONSource{Payload: []byte(payload)}.PaymentRequest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestJSONSourceMalformedPayload(t *testing.T) {
	_, err := JSONSource{Payload: []byte(`{"merchantId": `)}.PaymentRequest()
	require.Error(t, err)
}

func TestJSONSourceDefaultsDeadline(t *testing.T) {
	payload := `{
		"merchantId": "` + testMerchantID + `",
		"orderId": "` + testOrderID + `",
		"invoiceId": "` + testInvoiceID + `",
		"amount": "15.00",
		"tokenAddress": "` + testToken + `"
	}`

	req, err := JSONSource{Payload: []byte(payload)}.PaymentRequest()
	require.NoError(t, err)
	assert.Equal(t, "0", req.Deadline)
}

func TestQRSourceURLPayload(t *testing.T) {
	payload := "https://pay.example.com/checkout?" + testValues().Encode()

	req, err := QRSource{Payload: payload}.PaymentRequest()
	require.NoError(t, err)
	assert.Equal(t, testMerchantID, req.MerchantID)
	assert.Equal(t, "15.00", req.Amount)
}

func TestQRSourceJSONPayload(t *testing.T) {
	payload := `  {
		"merchantId": "` + testMerchantID + `",
		"orderId": "` + testOrderID + `",
		"invoiceId": "` + testInvoiceID + `",
		"amount": "15.00",
		"tokenAddress": "` + testToken + `"
	}`

	req, err := QRSource{Payload: payload}.PaymentRequest()
	require.NoError(t, err)
	assert.Equal(t, testToken, req.TokenAddress)
}

func TestQRSourceEmptyPayload(t *testing.T) {
	_, err := QRSource{Payload: "   "}.PaymentRequest()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "empty"))
}
