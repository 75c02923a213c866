// Package evm adapts an Ethereum JSON-RPC endpoint and a local signing key
// to the wallet session and receipt source boundaries of the payment core.
package evm

import (
	"math/big"
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress reports whether s is a 20-byte hex-encoded EVM address
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// NormalizeAddress lowercases an address for map keys and comparisons
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

var (
	// Chain IDs for the networks this package ships configuration for
	ChainIDBase        = big.NewInt(8453)
	ChainIDBaseSepolia = big.NewInt(84532)
	ChainIDPolygon     = big.NewInt(137)

	// ChainIDs maps CAIP-2 network identifiers to chain IDs
	ChainIDs = map[string]*big.Int{
		"eip155:8453":  ChainIDBase,
		"eip155:84532": ChainIDBaseSepolia,
		"eip155:137":   ChainIDPolygon,
	}
)

// Transaction receipt status values as reported by the execution layer
const (
	TxStatusSuccess = 1
	TxStatusFailed  = 0
)

// settleGasLimit is a conservative default gas limit for a settle() call,
// used when gas estimation is unavailable
const settleGasLimit = uint64(200000)
