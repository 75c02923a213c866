package stablepay

import (
	"context"
	"fmt"
	"math/big"
)

// ERC-20 ABI fragments used by the allowance manager. The token contract is
// external and standard; only these three entry points are touched.
var (
	// ERC20AllowanceABI for reading the current spending allowance
	ERC20AllowanceABI = []byte(`[
		{
			"inputs": [
				{"name": "owner", "type": "address"},
				{"name": "spender", "type": "address"}
			],
			"name": "allowance",
			"outputs": [{"name": "", "type": "uint256"}],
			"stateMutability": "view",
			"type": "function"
		}
	]`)

	// ERC20ApproveABI for granting a spending allowance
	ERC20ApproveABI = []byte(`[
		{
			"inputs": [
				{"name": "spender", "type": "address"},
				{"name": "amount", "type": "uint256"}
			],
			"name": "approve",
			"outputs": [{"name": "", "type": "bool"}],
			"stateMutability": "nonpayable",
			"type": "function"
		}
	]`)

	// ERC20DecimalsABI for reading the token's decimal precision
	ERC20DecimalsABI = []byte(`[
		{
			"inputs": [],
			"name": "decimals",
			"outputs": [{"name": "", "type": "uint8"}],
			"stateMutability": "view",
			"type": "function"
		}
	]`)
)

// AllowanceResult reports the outcome of an allowance reconciliation
type AllowanceResult struct {
	// Approved is true when the spender can already move the required amount
	// without a new approval transaction
	Approved bool
	// ApproveTransactionID is set when an approval transaction was submitted
	ApproveTransactionID string
}

// EnsureAllowance reconciles the spender's allowance with the required
// payment amount. When the current allowance already covers the amount
// (equality counts as sufficient) it returns Approved with no transaction.
// Otherwise it submits an approval for exactly the required amount - never an
// unlimited approval - and returns the approve transaction id.
//
// The approval is NOT awaited before the caller proceeds to submit the
// payment. Chains that serialize same-account transactions in submission
// order make this safe; on chains without that guarantee the payment can
// execute against a stale allowance. Known trade-off favoring latency.
func EnsureAllowance(ctx context.Context, session WalletSession, token, spender string, required *big.Int) (AllowanceResult, error) {
	raw, err := session.ReadContract(ctx, token, ERC20AllowanceABI, "allowance", session.Address(), spender)
	if err != nil {
		return AllowanceResult{}, chainCallError("allowance read failed", err)
	}

	current, ok := raw.(*big.Int)
	if !ok {
		return AllowanceResult{}, NewPaymentError(ErrCodeChainCallFailed,
			fmt.Sprintf("allowance read returned unexpected type %T", raw), nil)
	}

	if current.Cmp(required) >= 0 {
		return AllowanceResult{Approved: true}, nil
	}

	txID, err := session.WriteContract(ctx, token, ERC20ApproveABI, "approve", spender, required)
	if err != nil {
		return AllowanceResult{}, chainCallError("approve transaction failed", err)
	}

	return AllowanceResult{ApproveTransactionID: txID}, nil
}

// TokenDecimals reads the decimal precision of an ERC-20 token
func TokenDecimals(ctx context.Context, session WalletSession, token string) (int, error) {
	raw, err := session.ReadContract(ctx, token, ERC20DecimalsABI, "decimals")
	if err != nil {
		return 0, chainCallError("decimals read failed", err)
	}

	switch v := raw.(type) {
	case uint8:
		return int(v), nil
	case *big.Int:
		return int(v.Int64()), nil
	default:
		return 0, NewPaymentError(ErrCodeChainCallFailed,
			fmt.Sprintf("decimals read returned unexpected type %T", raw), nil)
	}
}

func chainCallError(message string, cause error) *PaymentError {
	if pe, ok := cause.(*PaymentError); ok {
		return pe
	}
	return NewPaymentError(ErrCodeChainCallFailed,
		fmt.Sprintf("%s: %v", message, cause), nil)
}
