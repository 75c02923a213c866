package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	stablepay "github.com/stablepay/stablepay-go"
)

// IndexerClient reads transaction receipts from a chain indexing service
// over HTTP. It implements the receipt source boundary used by the
// confirmation poller.
type IndexerClient struct {
	url        string
	httpClient *http.Client
}

// IndexerConfig configures the indexer client
type IndexerConfig struct {
	// URL is the base URL of the indexing service
	URL string

	// HTTPClient is the HTTP client to use (optional)
	HTTPClient *http.Client

	// Timeout for requests (optional, defaults to 10s)
	Timeout time.Duration
}

// NewIndexerClient creates a new indexer client
func NewIndexerClient(config *IndexerConfig) *IndexerClient {
	if config == nil {
		config = &IndexerConfig{}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &IndexerClient{
		url:        config.URL,
		httpClient: httpClient,
	}
}

// transactionInfo is the indexing service's response shape for a
// transaction lookup. The receipt result is absent until a block containing
// the transaction has been processed.
type transactionInfo struct {
	Receipt struct {
		Result string `json:"result"`
	} `json:"receipt"`
}

// TransactionReceipt fetches the transaction's receipt by id. A 404 or an
// empty receipt field means the transaction is not yet indexed; the returned
// receipt carries an empty Result so the poller retries.
func (c *IndexerClient) TransactionReceipt(ctx context.Context, txID string) (*stablepay.TxReceipt, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.url+"/transactions/"+txID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transaction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &stablepay.TxReceipt{TxID: txID}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("indexer returned status %d: %s", resp.StatusCode, string(body))
	}

	var info transactionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode transaction info: %w", err)
	}

	return &stablepay.TxReceipt{TxID: txID, Result: info.Receipt.Result}, nil
}
