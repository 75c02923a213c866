package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	stablepay "github.com/stablepay/stablepay-go"
)

// BackendClient notifies the external order-tracking backend of definite
// payment results. Notification is best-effort by contract: callers log
// failures and never let them alter a payment outcome already determined
// from the chain.
type BackendClient struct {
	url        string
	httpClient *http.Client
	authToken  string
}

// BackendConfig configures the order backend client
type BackendConfig struct {
	// URL is the base URL of the order backend
	URL string

	// HTTPClient is the HTTP client to use (optional)
	HTTPClient *http.Client

	// AuthToken is sent as a bearer token when set (optional)
	AuthToken string

	// Timeout for requests (optional, defaults to 10s)
	Timeout time.Duration
}

// NewBackendClient creates a new order backend client
func NewBackendClient(config *BackendConfig) *BackendClient {
	if config == nil {
		config = &BackendConfig{}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &BackendClient{
		url:        config.URL,
		httpClient: httpClient,
		authToken:  config.AuthToken,
	}
}

// UpdateOrderStatus posts the payment outcome for an order
func (c *BackendClient) UpdateOrderStatus(ctx context.Context, update stablepay.OrderStatusUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal order status update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url+"/orders/status", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create order status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return stablepay.NewPaymentError(stablepay.ErrCodeBackendNotifyFailed,
			fmt.Sprintf("order status request failed: %v", err), nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return stablepay.NewPaymentError(stablepay.ErrCodeBackendNotifyFailed,
			fmt.Sprintf("order backend returned status %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	return nil
}
