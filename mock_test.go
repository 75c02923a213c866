package stablepay

import (
	"context"
	"fmt"
	"sync"
)

// mockWallet is a scripted WalletSession for tests
type mockWallet struct {
	mu      sync.Mutex
	address string

	networkErr error
	reads      map[string]interface{}
	readErrs   map[string]error
	writeTx    string
	writeErr   error

	readCalls  []contractCall
	writeCalls []contractCall
}

type contractCall struct {
	contract string
	fn       string
	args     []interface{}
}

func newMockWallet() *mockWallet {
	return &mockWallet{
		address:  "0x1111111111111111111111111111111111111111",
		reads:    make(map[string]interface{}),
		readErrs: make(map[string]error),
		writeTx:  "0xaaaa000000000000000000000000000000000000000000000000000000000001",
	}
}

func (m *mockWallet) Address() string {
	return m.address
}

func (m *mockWallet) AssertNetwork(ctx context.Context, expected Network) error {
	return m.networkErr
}

func (m *mockWallet) ReadContract(ctx context.Context, address string, abi []byte, fn string, args ...interface{}) (interface{}, error) {
	m.mu.Lock()
	m.readCalls = append(m.readCalls, contractCall{contract: address, fn: fn, args: args})
	m.mu.Unlock()

	if err, ok := m.readErrs[fn]; ok {
		return nil, err
	}
	value, ok := m.reads[fn]
	if !ok {
		return nil, fmt.Errorf("unexpected read: %s", fn)
	}
	return value, nil
}

func (m *mockWallet) WriteContract(ctx context.Context, address string, abi []byte, fn string, args ...interface{}) (string, error) {
	m.mu.Lock()
	m.writeCalls = append(m.writeCalls, contractCall{contract: address, fn: fn, args: args})
	m.mu.Unlock()

	if m.writeErr != nil {
		return "", m.writeErr
	}
	return m.writeTx, nil
}

func (m *mockWallet) chainCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.readCalls) + len(m.writeCalls)
}

// mockConnector hands out a scripted wallet or fails
type mockConnector struct {
	wallet *mockWallet
	err    error
}

func (m *mockConnector) Connect(ctx context.Context) (WalletSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.wallet, nil
}

// scriptedReceipts returns a fixed sequence of receipt results, repeating
// the last one once exhausted
type scriptedReceipts struct {
	mu      sync.Mutex
	results []string
	errs    []error
	polls   int
}

func (s *scriptedReceipts) TransactionReceipt(ctx context.Context, txID string) (*TxReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.polls
	s.polls++
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return &TxReceipt{TxID: txID, Result: s.results[i]}, nil
}

// mockBackend records order status updates
type mockBackend struct {
	mu      sync.Mutex
	updates []OrderStatusUpdate
	err     error
}

func (m *mockBackend) UpdateOrderStatus(ctx context.Context, update OrderStatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, update)
	return m.err
}
