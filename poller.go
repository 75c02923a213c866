package stablepay

import (
	"context"
	"time"
)

// Default confirmation poll policy: up to 30 attempts, one every 3 seconds.
const (
	DefaultPollTimeout  = 90 * time.Second
	DefaultPollInterval = 3 * time.Second
)

// Poller polls a receipt source for the final status of a submitted
// transaction, bounded by a timeout with a fixed interval between attempts.
type Poller struct {
	Receipts ReceiptSource

	// Timeout bounds the whole poll; zero means DefaultPollTimeout
	Timeout time.Duration
	// Interval separates poll attempts; zero means DefaultPollInterval
	Interval time.Duration
}

// WaitForResult polls until the transaction reaches a definite result or the
// timeout elapses. It returns StatusSuccess the first poll where the receipt
// reports success and StatusFailed the first poll where the receipt reports
// any other non-empty result. An exhausted timeout yields StatusPending:
// that is not an error, it signals "check back later" and the caller must
// not treat it as a failure. Transport errors from the receipt source are
// treated like a not-yet-indexed receipt and retried within the window.
func (p *Poller) WaitForResult(ctx context.Context, txID string) (Status, error) {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultPollTimeout
	}
	interval := p.Interval
	if interval == 0 {
		interval = DefaultPollInterval
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		receipt, err := p.Receipts.TransactionReceipt(ctx, txID)
		if err == nil && receipt != nil && receipt.Result != "" {
			if receipt.Result == string(StatusSuccess) {
				return StatusSuccess, nil
			}
			return StatusFailed, nil
		}

		select {
		case <-ctx.Done():
			return StatusPending, ctx.Err()
		case <-time.After(interval):
		}
	}

	return StatusPending, nil
}
