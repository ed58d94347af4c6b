package rpc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
)

const jsonRPCVersion = "2.0"

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc: server error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// HTTPTransport is a Transport backed by a single JSON-RPC HTTP endpoint.
type HTTPTransport struct {
	URL        string
	HTTPClient *http.Client

	nextID int64
}

// NewHTTPTransport returns an HTTPTransport pointed at url with a 30s
// client timeout.
func NewHTTPTransport(url string) *HTTPTransport {
	return &HTTPTransport{URL: url, HTTPClient: &http.Client{Timeout: 30 * time.Second}}
}

func (t *HTTPTransport) call(ctx context.Context, method string, params []any, out any) error {
	req := rpcRequest{
		JSONRPC: jsonRPCVersion,
		ID:      atomic.AddInt64(&t.nextID, 1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: %s", evmerr.ErrTransport, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %s", evmerr.ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s", evmerr.ErrTransport, err)
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decoding response: %s", evmerr.ErrTransport, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%w: %s", evmerr.ErrTransport, rpcResp.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("%w: decoding result: %s", evmerr.ErrTransport, err)
	}
	return nil
}

func decodeHexUint64(s string) (uint64, error) {
	if len(s) < 2 || s[:2] != "0x" {
		return 0, fmt.Errorf("%w: expected 0x-prefixed quantity, got %q", evmerr.ErrMalformedEncoding, s)
	}
	v, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return 0, fmt.Errorf("%w: invalid hex quantity %q", evmerr.ErrMalformedEncoding, s)
	}
	return v.Uint64(), nil
}

func decodeHexBigInt(s string) (*big.Int, error) {
	if len(s) < 2 || s[:2] != "0x" {
		return nil, fmt.Errorf("%w: expected 0x-prefixed quantity, got %q", evmerr.ErrMalformedEncoding, s)
	}
	v, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return nil, fmt.Errorf("%w: invalid hex quantity %q", evmerr.ErrMalformedEncoding, s)
	}
	return v, nil
}

func decodeHexBytes(s string) ([]byte, error) {
	if len(s) < 2 || s[:2] != "0x" {
		return nil, fmt.Errorf("%w: expected 0x-prefixed byte string, got %q", evmerr.ErrMalformedEncoding, s)
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", evmerr.ErrMalformedEncoding, err)
	}
	return b, nil
}

func encodeHexUint64(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}

func encodeHexBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func (t *HTTPTransport) EthGasPrice(ctx context.Context) (*big.Int, error) {
	var s string
	if err := t.call(ctx, "eth_gasPrice", nil, &s); err != nil {
		return nil, err
	}
	return decodeHexBigInt(s)
}

func (t *HTTPTransport) EthChainID(ctx context.Context) (uint64, error) {
	var s string
	if err := t.call(ctx, "eth_chainId", nil, &s); err != nil {
		return 0, err
	}
	return decodeHexUint64(s)
}

func (t *HTTPTransport) EthBlockNumber(ctx context.Context) (uint64, error) {
	var s string
	if err := t.call(ctx, "eth_blockNumber", nil, &s); err != nil {
		return 0, err
	}
	return decodeHexUint64(s)
}

func (t *HTTPTransport) EthGetBlockByNumber(ctx context.Context, blockTag string, fullTx bool) (map[string]any, error) {
	var m map[string]any
	if err := t.call(ctx, "eth_getBlockByNumber", []any{blockTag, fullTx}, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (t *HTTPTransport) EthFeeHistory(ctx context.Context, blockCount uint64, newestBlock string, rewardPercentiles []float64) (map[string]any, error) {
	var m map[string]any
	if err := t.call(ctx, "eth_feeHistory", []any{encodeHexUint64(blockCount), newestBlock, rewardPercentiles}, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (t *HTTPTransport) EthGetTransactionCount(ctx context.Context, account common.Address, blockTag string) (uint64, error) {
	var s string
	if err := t.call(ctx, "eth_getTransactionCount", []any{account.Hex(), blockTag}, &s); err != nil {
		return 0, err
	}
	return decodeHexUint64(s)
}

func (t *HTTPTransport) EthEstimateGas(ctx context.Context, callMsg map[string]any) (uint64, error) {
	var s string
	if err := t.call(ctx, "eth_estimateGas", []any{callMsg}, &s); err != nil {
		return 0, err
	}
	return decodeHexUint64(s)
}

func (t *HTTPTransport) EthCall(ctx context.Context, callMsg map[string]any, blockTag string) ([]byte, error) {
	var s string
	if err := t.call(ctx, "eth_call", []any{callMsg, blockTag}, &s); err != nil {
		return nil, err
	}
	return decodeHexBytes(s)
}

func (t *HTTPTransport) EthSendRawTransaction(ctx context.Context, rawTx []byte) ([32]byte, error) {
	var s string
	if err := t.call(ctx, "eth_sendRawTransaction", []any{encodeHexBytes(rawTx)}, &s); err != nil {
		return [32]byte{}, err
	}
	b, err := decodeHexBytes(s)
	if err != nil {
		return [32]byte{}, err
	}
	var hash [32]byte
	copy(hash[:], b)
	return hash, nil
}

func (t *HTTPTransport) EthGetTransactionReceipt(ctx context.Context, txHash [32]byte) (map[string]any, bool, error) {
	var m map[string]any
	if err := t.call(ctx, "eth_getTransactionReceipt", []any{encodeHexBytes(txHash[:])}, &m); err != nil {
		return nil, false, err
	}
	if m == nil {
		return nil, false, nil
	}
	return m, true, nil
}

var _ Transport = (*HTTPTransport)(nil)
