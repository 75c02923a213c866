package evm

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stablepay "github.com/stablepay/stablepay-go"
)

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("0x036CbD53842c5426634e7929541eC2318f3dCF7e"))
	assert.True(t, IsValidAddress("0x0000000000000000000000000000000000000000"))

	assert.False(t, IsValidAddress(""))
	assert.False(t, IsValidAddress("036CbD53842c5426634e7929541eC2318f3dCF7e"))
	assert.False(t, IsValidAddress("0x036CbD53842c5426634e7929541eC2318f3dCF7"))   // too short
	assert.False(t, IsValidAddress("0x036CbD53842c5426634e7929541eC2318f3dCF7ez")) // bad char
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0x036cbd53842c5426634e7929541ec2318f3dcf7e",
		NormalizeAddress("0x036CbD53842c5426634e7929541eC2318f3dCF7e"))
}

func TestChainIDs(t *testing.T) {
	assert.Equal(t, int64(8453), ChainIDs["eip155:8453"].Int64())
	assert.Equal(t, int64(84532), ChainIDs["eip155:84532"].Int64())
	assert.Nil(t, ChainIDs["eip155:1"])
}

func TestConnectWithoutProvider(t *testing.T) {
	connector := &Connector{}
	_, err := connector.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, stablepay.ErrCodeWalletUnavailable, stablepay.ErrorCode(err))
}

func TestConnectWithoutKey(t *testing.T) {
	// ethclient.DialContext on an http URL does not touch the network until
	// the first call, so the locked-key path is reachable offline
	connector := &Connector{RPCURL: "http://127.0.0.1:0"}
	_, err := connector.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, stablepay.ErrCodeWalletLocked, stablepay.ErrorCode(err))
}

func TestConnectWithBadKey(t *testing.T) {
	connector := &Connector{RPCURL: "http://127.0.0.1:0", PrivateKey: "0xnothex"}
	_, err := connector.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, stablepay.ErrCodeWalletLocked, stablepay.ErrorCode(err))
}

func parseABI(t *testing.T, raw []byte) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(string(raw)))
	require.NoError(t, err)
	return parsed
}

// The core hands addresses across the session boundary as hex strings;
// packing must coerce them for address-typed inputs
func TestPackCallCoercesAddressStrings(t *testing.T) {
	contractABI := parseABI(t, stablepay.ERC20AllowanceABI)

	packed, err := packCall(contractABI, "allowance", []interface{}{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	})
	require.NoError(t, err)

	expected, err := contractABI.Pack("allowance",
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"))
	require.NoError(t, err)
	assert.Equal(t, expected, packed)
}

func TestPackCallNonAddressArgsPassThrough(t *testing.T) {
	contractABI := parseABI(t, stablepay.ERC20ApproveABI)

	packed, err := packCall(contractABI, "approve", []interface{}{
		"0x2222222222222222222222222222222222222222",
		big.NewInt(15000000),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, packed)
}

func TestPackCallArgCountMismatch(t *testing.T) {
	contractABI := parseABI(t, stablepay.ERC20ApproveABI)

	_, err := packCall(contractABI, "approve", []interface{}{
		"0x2222222222222222222222222222222222222222",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 2 args")
}

func TestPackCallUnknownMethod(t *testing.T) {
	contractABI := parseABI(t, stablepay.ERC20ApproveABI)

	_, err := packCall(contractABI, "transferFrom", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown method")
}

func TestPackCallSettleArguments(t *testing.T) {
	contractABI := parseABI(t, stablepay.SettleSignedABI)

	var id [32]byte
	for i := range id {
		id[i] = 0xab
	}
	packed, err := packCall(contractABI, "settle", []interface{}{
		id, id, id,
		"0x036CbD53842c5426634e7929541eC2318f3dCF7e",
		big.NewInt(15000000),
		big.NewInt(1735689600),
		[]byte{0xde, 0xad, 0xbe, 0xef},
	})
	require.NoError(t, err)
	// 4-byte selector plus ABI-encoded arguments
	assert.Greater(t, len(packed), 4)
}
