package stablepay

import (
	"context"
	"time"
)

// ============================================================================
// Orchestrator Hook Context Types
// ============================================================================

// SubmitContext contains information passed to before-submit hooks
type SubmitContext struct {
	Ctx             context.Context
	Session         *PaymentSession
	Request         PaymentRequest
	AmountBaseUnits string
	Timestamp       time.Time
}

// ResultContext contains the terminal outcome of a payment attempt and its context
type ResultContext struct {
	Ctx           context.Context
	Session       *PaymentSession
	Request       PaymentRequest
	TransactionID string
	Status        Status
	Duration      time.Duration
}

// ============================================================================
// Orchestrator Hook Result Types
// ============================================================================

// BeforeHookResult represents the result of a "before" hook
// If Abort is true, the attempt will fail with the given Reason
type BeforeHookResult struct {
	Abort  bool
	Reason string
}

// ============================================================================
// Orchestrator Hook Function Types
// ============================================================================

// BeforeSubmitHook is called after allowance reconciliation, immediately
// before the settlement transaction is submitted. If it returns a result
// with Abort=true, the attempt moves to StateFailed without touching the
// chain again.
type BeforeSubmitHook func(SubmitContext) (*BeforeHookResult, error)

// AfterResultHook is called once the attempt reaches a terminal state.
// Any error returned is logged but does not affect the recorded outcome.
type AfterResultHook func(ResultContext) error

// TransitionObserver sees every state transition together with the log entry
// that recorded it. Observers run synchronously on the orchestrator's
// goroutine and should return quickly.
type TransitionObserver func(session *PaymentSession, state State, entry LogEntry)
