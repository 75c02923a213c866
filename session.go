package stablepay

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PaymentSession tracks one orchestrated payment attempt: the validated
// request, the connected wallet, the current state, and an append-only log of
// timestamped events. A session is owned by the orchestrator for the duration
// of the attempt; a retried payment creates a new session. Reads are safe
// from other goroutines (UI polling the state while the attempt runs).
type PaymentSession struct {
	mu sync.Mutex

	id            string
	request       PaymentRequest
	wallet        string
	state         State
	transactionID string
	log           []LogEntry
}

// NewPaymentSession creates a session for a new payment attempt in StateIdle
func NewPaymentSession(req PaymentRequest) *PaymentSession {
	return &PaymentSession{
		id:      uuid.New().String(),
		request: req,
		state:   StateIdle,
	}
}

// ID returns the unique session identifier
func (s *PaymentSession) ID() string {
	return s.id
}

// Request returns the payment request this attempt is for
func (s *PaymentSession) Request() PaymentRequest {
	return s.request
}

// State returns the current state of the attempt
func (s *PaymentSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Wallet returns the connected wallet address, or "" before connection
func (s *PaymentSession) Wallet() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet
}

// TransactionID returns the settlement transaction id, or "" before
// submission succeeds
func (s *PaymentSession) TransactionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionID
}

// Log returns a copy of the session log
func (s *PaymentSession) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]LogEntry, len(s.log))
	copy(entries, s.log)
	return entries
}

func (s *PaymentSession) setWallet(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = address
}

func (s *PaymentSession) setTransactionID(txID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactionID = txID
}

// transition advances the state machine. Transitions are strictly forward:
// once a terminal state is reached the session stays there.
func (s *PaymentSession) transition(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.state = next
}

// logf appends a timestamped human-readable entry to the session log and
// returns it
func (s *PaymentSession) logf(format string, args ...interface{}) LogEntry {
	entry := LogEntry{
		Time:    time.Now(),
		Message: fmt.Sprintf(format, args...),
	}
	s.mu.Lock()
	s.log = append(s.log, entry)
	s.mu.Unlock()
	return entry
}
