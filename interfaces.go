package stablepay

import "context"

// WalletSession is a connected signer capable of reading contract state and
// submitting transactions. Implementations adapt a concrete provider (an
// injected browser wallet, a keyed RPC client) behind these two primitives;
// nothing else in the core assumes the provider's shape.
type WalletSession interface {
	// Address returns the connected account address
	Address() string

	// AssertNetwork fails with a wrong_network error when the connected
	// endpoint does not match the expected network. A no-op when expected
	// is empty.
	AssertNetwork(ctx context.Context, expected Network) error

	// ReadContract performs a read-only contract call
	ReadContract(ctx context.Context, address string, abi []byte, functionName string, args ...interface{}) (interface{}, error)

	// WriteContract submits a state-changing contract transaction and
	// returns the chain-assigned transaction id
	WriteContract(ctx context.Context, address string, abi []byte, functionName string, args ...interface{}) (string, error)
}

// WalletConnector establishes a wallet session. Connect fails with
// wallet_unavailable when no provider is reachable and wallet_locked when a
// provider exists but no unlocked account can sign.
type WalletConnector interface {
	Connect(ctx context.Context) (WalletSession, error)
}

// ReceiptSource is the chain indexing service boundary: one read operation,
// "get transaction info by id". A receipt with an empty Result means the
// transaction is not yet indexed.
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txID string) (*TxReceipt, error)
}

// OrderBackend is the external order-tracking collaborator. UpdateOrderStatus
// is invoked only after a definite (non-PENDING) chain result; its failure is
// logged and never alters the payment outcome.
type OrderBackend interface {
	UpdateOrderStatus(ctx context.Context, update OrderStatusUpdate) error
}

// Source produces a canonical PaymentRequest from one input-acquisition
// strategy (route params, query string, QR payload, manual form). All sources
// feed the same orchestrator; the state machine is never duplicated per
// input method.
type Source interface {
	PaymentRequest() (PaymentRequest, error)
}
