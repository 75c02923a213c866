package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	stablepay "github.com/stablepay/stablepay-go"
)

// Connector establishes wallet sessions against an Ethereum JSON-RPC
// endpoint with a local ECDSA signing key. It is the server-side analog of a
// browser wallet extension: a missing or unreachable endpoint maps to
// wallet_unavailable, a missing or unparseable key to wallet_locked.
type Connector struct {
	// RPCURL is the JSON-RPC endpoint of the chain
	RPCURL string
	// PrivateKey is the hex-encoded signing key (with or without 0x prefix)
	PrivateKey string
}

// Connect dials the endpoint, parses the key, and returns a ready session
func (c *Connector) Connect(ctx context.Context) (stablepay.WalletSession, error) {
	if c.RPCURL == "" {
		return nil, stablepay.NewPaymentError(stablepay.ErrCodeWalletUnavailable,
			"no wallet provider configured", nil)
	}

	client, err := ethclient.DialContext(ctx, c.RPCURL)
	if err != nil {
		return nil, stablepay.NewPaymentError(stablepay.ErrCodeWalletUnavailable,
			fmt.Sprintf("wallet provider unreachable: %v", err), nil)
	}

	if c.PrivateKey == "" {
		return nil, stablepay.NewPaymentError(stablepay.ErrCodeWalletLocked,
			"no unlocked account: signing key not configured", nil)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(c.PrivateKey, "0x"))
	if err != nil {
		return nil, stablepay.NewPaymentError(stablepay.ErrCodeWalletLocked,
			fmt.Sprintf("no unlocked account: %v", err), nil)
	}

	return &Wallet{
		client:  client,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Wallet is an ethclient-backed wallet session. It implements both the
// wallet session boundary (contract reads and writes) and the receipt
// source boundary (confirmation polling against the same endpoint).
type Wallet struct {
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewWallet wraps an existing ethclient and key into a session
func NewWallet(client *ethclient.Client, key *ecdsa.PrivateKey) *Wallet {
	return &Wallet{
		client:  client,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Address returns the connected account address
func (w *Wallet) Address() string {
	return w.address.Hex()
}

// AssertNetwork checks the endpoint's chain ID against the expected CAIP-2
// network identifier. A no-op when expected is empty.
func (w *Wallet) AssertNetwork(ctx context.Context, expected stablepay.Network) error {
	if expected == "" {
		return nil
	}

	namespace, reference, err := expected.Parse()
	if err != nil || namespace != "eip155" {
		return stablepay.NewPaymentError(stablepay.ErrCodeWrongNetwork,
			fmt.Sprintf("expected network %s is not an eip155 network", expected), nil)
	}

	chainID, err := w.client.ChainID(ctx)
	if err != nil {
		return stablepay.NewPaymentError(stablepay.ErrCodeChainCallFailed,
			fmt.Sprintf("chain id read failed: %v", err), nil)
	}

	if chainID.String() != reference {
		return stablepay.NewPaymentError(stablepay.ErrCodeWrongNetwork,
			fmt.Sprintf("connected to chain %s, expected %s", chainID, reference), nil)
	}

	return nil
}

// ReadContract performs a read-only contract call
func (w *Wallet) ReadContract(ctx context.Context, contractAddress string, abiBytes []byte, functionName string, args ...interface{}) (interface{}, error) {
	contractABI, err := abi.JSON(strings.NewReader(string(abiBytes)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	packed, err := packCall(contractABI, functionName, args)
	if err != nil {
		return nil, err
	}

	addr := common.HexToAddress(contractAddress)
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: packed,
	}

	result, err := w.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, stablepay.NewPaymentError(stablepay.ErrCodeChainCallFailed,
			fmt.Sprintf("contract call failed: %v", err), nil)
	}

	outputs, err := contractABI.Unpack(functionName, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	if len(outputs) == 0 {
		return nil, nil
	}
	if len(outputs) == 1 {
		return outputs[0], nil
	}
	return outputs, nil
}

// WriteContract signs and submits a state-changing contract transaction and
// returns its hash
func (w *Wallet) WriteContract(ctx context.Context, contractAddress string, abiBytes []byte, functionName string, args ...interface{}) (string, error) {
	contractABI, err := abi.JSON(strings.NewReader(string(abiBytes)))
	if err != nil {
		return "", fmt.Errorf("failed to parse ABI: %w", err)
	}

	calldata, err := packCall(contractABI, functionName, args)
	if err != nil {
		return "", err
	}

	to := common.HexToAddress(contractAddress)

	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return "", chainError("failed to get pending nonce", err)
	}

	gasTipCap, err := w.client.SuggestGasTipCap(ctx)
	if err != nil {
		return "", chainError("failed to get gas tip cap", err)
	}

	// Legacy gas price serves as a conservative fee cap
	gasFeeCap, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", chainError("failed to get gas price", err)
	}

	gasLimit, err := w.client.EstimateGas(ctx, ethereum.CallMsg{
		From: w.address,
		To:   &to,
		Data: calldata,
	})
	if err != nil {
		gasLimit = settleGasLimit
	}

	chainID, err := w.client.ChainID(ctx)
	if err != nil {
		return "", chainError("failed to get chain id", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gasLimit,
		To:        &to,
		Data:      calldata,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return "", chainError("failed to sign transaction", err)
	}

	if err := w.client.SendTransaction(ctx, signed); err != nil {
		return "", chainError("transaction submission rejected", err)
	}

	return signed.Hash().Hex(), nil
}

// TransactionReceipt reports the indexed status of a transaction. A receipt
// that is not yet available yields an empty Result so the poller retries.
func (w *Wallet) TransactionReceipt(ctx context.Context, txID string) (*stablepay.TxReceipt, error) {
	receipt, err := w.client.TransactionReceipt(ctx, common.HexToHash(txID))
	if errors.Is(err, ethereum.NotFound) {
		return &stablepay.TxReceipt{TxID: txID}, nil
	}
	if err != nil {
		return nil, chainError("receipt lookup failed", err)
	}

	result := "REVERTED"
	if receipt.Status == TxStatusSuccess {
		result = string(stablepay.StatusSuccess)
	}
	return &stablepay.TxReceipt{TxID: txID, Result: result}, nil
}

// packCall encodes a method call, coercing chain-agnostic argument types
// from the core (hex address strings) into their go-ethereum equivalents
func packCall(contractABI abi.ABI, functionName string, args []interface{}) ([]byte, error) {
	method, ok := contractABI.Methods[functionName]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", functionName)
	}
	if len(args) != len(method.Inputs) {
		return nil, fmt.Errorf("method %s expects %d args, got %d", functionName, len(method.Inputs), len(args))
	}

	coerced := make([]interface{}, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok && method.Inputs[i].Type.T == abi.AddressTy {
			coerced[i] = common.HexToAddress(s)
			continue
		}
		coerced[i] = arg
	}

	packed, err := contractABI.Pack(functionName, coerced...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack method call: %w", err)
	}
	return packed, nil
}

func chainError(message string, cause error) error {
	return stablepay.NewPaymentError(stablepay.ErrCodeChainCallFailed,
		fmt.Sprintf("%s: %v", message, cause), nil)
}
