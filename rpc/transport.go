// Package rpc defines the narrow JSON-RPC surface this module needs against
// an Ethereum node, and one HTTP implementation of it. Every method takes a
// context, speaks in the hex-string wire format JSON-RPC uses for numbers
// and byte strings, and returns typed Go values so callers never hand-parse
// "0x..." themselves.
package rpc

import (
	"context"
	"math/big"

	"github.com/ModChain/evmcodec/common"
)

// Transport is the JSON-RPC surface the rest of this module depends on.
// Implementations may wrap HTTP, a websocket, or a test double.
type Transport interface {
	EthGasPrice(ctx context.Context) (*big.Int, error)
	EthChainID(ctx context.Context) (uint64, error)
	EthBlockNumber(ctx context.Context) (uint64, error)
	EthGetBlockByNumber(ctx context.Context, blockTag string, fullTx bool) (map[string]any, error)
	EthFeeHistory(ctx context.Context, blockCount uint64, newestBlock string, rewardPercentiles []float64) (map[string]any, error)
	EthGetTransactionCount(ctx context.Context, account common.Address, blockTag string) (uint64, error)
	EthEstimateGas(ctx context.Context, callMsg map[string]any) (uint64, error)
	EthCall(ctx context.Context, callMsg map[string]any, blockTag string) ([]byte, error)
	EthSendRawTransaction(ctx context.Context, rawTx []byte) ([32]byte, error)
	EthGetTransactionReceipt(ctx context.Context, txHash [32]byte) (map[string]any, bool, error)
}

// TransactionCounter adapts a Transport into a nonce.TransactionCounter,
// seeding from the node's "pending" transaction count so the first locally
// reserved nonce lines up with whatever the mempool already knows about.
type TransactionCounter struct {
	Transport Transport
	BlockTag  string // defaults to "pending" when empty
}

func (c TransactionCounter) TransactionCount(ctx context.Context, account common.Address) (uint64, error) {
	tag := c.BlockTag
	if tag == "" {
		tag = "pending"
	}
	return c.Transport.EthGetTransactionCount(ctx, account, tag)
}
