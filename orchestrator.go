package stablepay

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/stablepay/stablepay-go/units"
)

// Orchestrator composes validation, wallet connection, allowance
// reconciliation, payment submission, and confirmation polling into one
// end-to-end payment flow. Each attempt owns a single PaymentSession; the
// session log and the transition observer are the observability surface -
// no error crosses the orchestrator boundary without first being recorded
// there.
//
// The flow is strictly sequential: every chain-affecting step completes (or
// fails) before the next begins, and no two chain operations from the same
// attempt are ever in flight concurrently. Retrying a failed payment is the
// caller's decision and starts a fresh session.
type Orchestrator struct {
	connector WalletConnector
	receipts  ReceiptSource
	submitter Submitter
	backend   OrderBackend
	store     *ReceiptStore
	logger    *slog.Logger
	network   Network

	pollTimeout  time.Duration
	pollInterval time.Duration

	beforeSubmit BeforeSubmitHook
	afterResult  AfterResultHook
	observer     TransitionObserver
}

// OrchestratorOption configures an Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithNetwork sets the expected network; the wallet session is checked
// against it after connecting. Empty disables the check.
func WithNetwork(network Network) OrchestratorOption {
	return func(o *Orchestrator) { o.network = network }
}

// WithSettleVariant selects the settlement contract's ABI shape
func WithSettleVariant(variant SettleVariant) OrchestratorOption {
	return func(o *Orchestrator) { o.submitter.Variant = variant }
}

// WithOrderBackend sets the order-tracking collaborator notified after a
// definite chain result
func WithOrderBackend(backend OrderBackend) OrchestratorOption {
	return func(o *Orchestrator) { o.backend = backend }
}

// WithReceiptStore sets the best-effort local record store
func WithReceiptStore(store *ReceiptStore) OrchestratorOption {
	return func(o *Orchestrator) { o.store = store }
}

// WithLogger sets a structured logger for operational events. The session
// log is always written regardless.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithPollPolicy overrides the confirmation poll timeout and interval
func WithPollPolicy(timeout, interval time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.pollTimeout = timeout
		o.pollInterval = interval
	}
}

// WithBeforeSubmitHook sets a hook invoked immediately before payment submission
func WithBeforeSubmitHook(hook BeforeSubmitHook) OrchestratorOption {
	return func(o *Orchestrator) { o.beforeSubmit = hook }
}

// WithAfterResultHook sets a hook invoked once the attempt reaches a terminal state
func WithAfterResultHook(hook AfterResultHook) OrchestratorOption {
	return func(o *Orchestrator) { o.afterResult = hook }
}

// WithObserver sets a callback that sees every state transition
func WithObserver(observer TransitionObserver) OrchestratorOption {
	return func(o *Orchestrator) { o.observer = observer }
}

// NewOrchestrator creates a payment orchestrator. The connector establishes
// wallet sessions, the receipt source answers confirmation polls, and
// contract is the settlement contract address.
func NewOrchestrator(connector WalletConnector, receipts ReceiptSource, contract string, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		connector: connector,
		receipts:  receipts,
		submitter: Submitter{Contract: contract},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Pay runs one payment attempt end to end and returns its session. The
// session always carries the full event log and a terminal state. The
// returned error is the failure cause, already recorded in the session log;
// it is nil when the attempt ends in StateSuccess or StatePending (a poll
// timeout reflects real uncertainty, not a failure).
func (o *Orchestrator) Pay(ctx context.Context, req PaymentRequest) (*PaymentSession, error) {
	session := NewPaymentSession(req)
	started := time.Now()

	// Validation short-circuits before any wallet interaction
	o.step(session, StateValidating, "validating payment request")
	if err := ValidatePaymentRequest(req); err != nil {
		return session, o.fail(ctx, session, started, err)
	}
	o.note(session, "payment request valid: order %s amount %s", req.OrderID, req.Amount)

	o.step(session, StateConnectingWallet, "connecting wallet")
	wallet, err := o.connector.Connect(ctx)
	if err != nil {
		return session, o.fail(ctx, session, started, err)
	}
	session.setWallet(wallet.Address())
	o.note(session, "wallet connected: %s", wallet.Address())

	if err := wallet.AssertNetwork(ctx, o.network); err != nil {
		return session, o.fail(ctx, session, started, err)
	}

	decimals, err := TokenDecimals(ctx, wallet, req.TokenAddress)
	if err != nil {
		return session, o.fail(ctx, session, started, err)
	}
	baseUnits, err := units.ToBaseUnits(req.Amount, decimals)
	if err != nil {
		return session, o.fail(ctx, session, started,
			NewPaymentError(ErrCodeInvalidAmount, err.Error(), nil))
	}
	amount, ok := new(big.Int).SetString(baseUnits, 10)
	if !ok {
		return session, o.fail(ctx, session, started,
			NewPaymentError(ErrCodeInvalidAmount, "base unit conversion produced a non-integer", nil))
	}
	o.note(session, "amount %s converted to %s base units (%d decimals)", req.Amount, baseUnits, decimals)

	o.step(session, StateCheckingAllowance, "checking token allowance")
	allowance, err := EnsureAllowance(ctx, wallet, req.TokenAddress, o.submitter.Contract, amount)
	if err != nil {
		return session, o.fail(ctx, session, started, err)
	}
	if allowance.Approved {
		o.note(session, "allowance sufficient, no approval needed")
	} else {
		o.step(session, StateApproving, "allowance insufficient, approval submitted: %s", allowance.ApproveTransactionID)
	}

	if o.beforeSubmit != nil {
		result, hookErr := o.beforeSubmit(SubmitContext{
			Ctx:             ctx,
			Session:         session,
			Request:         req,
			AmountBaseUnits: baseUnits,
			Timestamp:       time.Now(),
		})
		if hookErr != nil {
			return session, o.fail(ctx, session, started, hookErr)
		}
		if result != nil && result.Abort {
			return session, o.fail(ctx, session, started,
				NewPaymentError(ErrCodeChainCallFailed, "submission aborted: "+result.Reason, nil))
		}
	}

	o.step(session, StateSubmittingPayment, "submitting payment to %s", o.submitter.Contract)
	txID, err := o.submitter.Submit(ctx, wallet, req, amount)
	if err != nil {
		return session, o.fail(ctx, session, started, err)
	}
	session.setTransactionID(txID)
	o.note(session, "payment submitted: %s", txID)

	if o.store != nil {
		o.store.Put(PaymentRecord{
			Request:         req,
			TransactionID:   txID,
			Status:          StatusPending,
			Wallet:          wallet.Address(),
			AmountBaseUnits: baseUnits,
			Timestamp:       time.Now(),
		})
	}

	poller := Poller{Receipts: o.receipts, Timeout: o.pollTimeout, Interval: o.pollInterval}
	o.step(session, StateConfirming, "waiting for confirmation of %s", txID)
	status, pollErr := poller.WaitForResult(ctx, txID)
	if pollErr != nil {
		o.note(session, "confirmation poll interrupted: %v", pollErr)
	}

	if o.store != nil {
		o.store.SetStatus(txID, status)
	}

	switch status {
	case StatusSuccess:
		o.step(session, StateSuccess, "payment confirmed: %s", txID)
		o.notifyBackend(ctx, session, status)
		o.finish(ctx, session, status, started)
		return session, nil
	case StatusFailed:
		o.step(session, StateFailed, "payment failed on-chain: %s", txID)
		o.notifyBackend(ctx, session, status)
		o.finish(ctx, session, status, started)
		return session, NewPaymentError(ErrCodeChainCallFailed, "transaction failed on-chain", map[string]interface{}{
			"transactionId": txID,
		})
	default:
		o.step(session, StatePending, "no definite result within the poll window, payment still pending: %s", txID)
		o.finish(ctx, session, status, started)
		return session, nil
	}
}

// step transitions the session and records the transition in its log
func (o *Orchestrator) step(session *PaymentSession, state State, format string, args ...interface{}) {
	session.transition(state)
	entry := session.logf(format, args...)
	if o.logger != nil {
		o.logger.Info(entry.Message, "session", session.ID(), "state", string(state))
	}
	if o.observer != nil {
		o.observer(session, state, entry)
	}
}

// note records an event without changing state
func (o *Orchestrator) note(session *PaymentSession, format string, args ...interface{}) {
	entry := session.logf(format, args...)
	if o.logger != nil {
		o.logger.Info(entry.Message, "session", session.ID())
	}
	if o.observer != nil {
		o.observer(session, session.State(), entry)
	}
}

// fail records the error, moves the session to StateFailed, and returns the
// error for the caller
func (o *Orchestrator) fail(ctx context.Context, session *PaymentSession, started time.Time, err error) error {
	o.step(session, StateFailed, "payment failed: %v", err)
	if o.logger != nil {
		o.logger.Error("payment attempt failed", "session", session.ID(), "error", err)
	}
	o.finish(ctx, session, StatusFailed, started)
	return err
}

// notifyBackend reports a definite chain result to the order backend.
// Best effort: a notification failure is logged and never downgrades the
// payment outcome.
func (o *Orchestrator) notifyBackend(ctx context.Context, session *PaymentSession, status Status) {
	if o.backend == nil {
		return
	}

	update := OrderStatusUpdate{
		TxID:      session.TransactionID(),
		Status:    status,
		OrderID:   session.Request().OrderID,
		InvoiceID: session.Request().InvoiceID,
	}
	if err := o.backend.UpdateOrderStatus(ctx, update); err != nil {
		o.note(session, "order backend notification failed: %v", err)
		if o.logger != nil {
			o.logger.Warn("order backend notification failed",
				"session", session.ID(), "code", ErrCodeBackendNotifyFailed, "error", err)
		}
		return
	}
	o.note(session, "order backend notified: order %s -> %s", update.OrderID, status)
}

func (o *Orchestrator) finish(ctx context.Context, session *PaymentSession, status Status, started time.Time) {
	if o.afterResult == nil {
		return
	}
	err := o.afterResult(ResultContext{
		Ctx:           ctx,
		Session:       session,
		Request:       session.Request(),
		TransactionID: session.TransactionID(),
		Status:        status,
		Duration:      time.Since(started),
	})
	if err != nil && o.logger != nil {
		o.logger.Warn("after-result hook failed", "session", session.ID(), "error", err)
	}
}
