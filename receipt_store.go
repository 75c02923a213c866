package stablepay

import (
	"sync"
	"time"
)

// ReceiptStore is a best-effort local record of submitted payments keyed by
// transaction id, kept for display and debug recovery only. The orchestrator
// writes a record once a transaction has been submitted and updates it when
// the attempt reaches a terminal status; the core never reads the store back
// as a source of truth. Entries expire after a TTL so an abandoned page or
// long-lived process does not accumulate records forever.
type ReceiptStore struct {
	mu      sync.Mutex
	records map[string]PaymentRecord
	expiry  map[string]time.Time
	ttl     time.Duration
}

// DefaultReceiptTTL is how long submitted-payment records are retained
const DefaultReceiptTTL = 24 * time.Hour

// NewReceiptStore creates a receipt store with the given TTL; zero means
// DefaultReceiptTTL
func NewReceiptStore(ttl time.Duration) *ReceiptStore {
	if ttl == 0 {
		ttl = DefaultReceiptTTL
	}
	return &ReceiptStore{
		records: make(map[string]PaymentRecord),
		expiry:  make(map[string]time.Time),
		ttl:     ttl,
	}
}

// Put writes or replaces the record for a transaction id
func (s *ReceiptStore) Put(record PaymentRecord) {
	if record.TransactionID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.TransactionID] = record
	s.expiry[record.TransactionID] = time.Now().Add(s.ttl)
	s.cleanupExpiredLocked()
}

// Get retrieves the record for a transaction id, if present and unexpired
func (s *ReceiptStore) Get(txID string) (PaymentRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, exists := s.expiry[txID]
	if !exists {
		return PaymentRecord{}, false
	}
	if time.Now().After(expiry) {
		delete(s.records, txID)
		delete(s.expiry, txID)
		return PaymentRecord{}, false
	}

	return s.records[txID], true
}

// SetStatus updates the stored status for a transaction id, if present
func (s *ReceiptStore) SetStatus(txID string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[txID]
	if !ok {
		return
	}
	record.Status = status
	s.records[txID] = record
}

// cleanupExpiredLocked removes expired entries. Must be called with lock held.
func (s *ReceiptStore) cleanupExpiredLocked() {
	now := time.Now()
	for txID, expiry := range s.expiry {
		if now.After(expiry) {
			delete(s.records, txID)
			delete(s.expiry, txID)
		}
	}
}
