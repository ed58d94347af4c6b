package rpc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/rpc"
)

func serverReturning(t *testing.T, result string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     int64  `json:"id"`
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  json.RawMessage(result),
		})
	}))
}

func TestHTTPTransportEthChainID(t *testing.T) {
	srv := serverReturning(t, `"0x1"`)
	defer srv.Close()

	transport := rpc.NewHTTPTransport(srv.URL)
	id, err := transport.EthChainID(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("EthChainID = %d, want 1", id)
	}
}

func TestHTTPTransportEthGetTransactionCount(t *testing.T) {
	srv := serverReturning(t, `"0x2a"`)
	defer srv.Close()

	transport := rpc.NewHTTPTransport(srv.URL)
	n, err := transport.EthGetTransactionCount(context.Background(), common.Address{}, "pending")
	if err != nil {
		t.Fatal(err)
	}
	if n != 42 {
		t.Fatalf("EthGetTransactionCount = %d, want 42", n)
	}
}

func TestTransactionCounterAdapterReturnsTransactionCount(t *testing.T) {
	srv := serverReturning(t, `"0x5"`)
	defer srv.Close()

	adapter := rpc.TransactionCounter{Transport: rpc.NewHTTPTransport(srv.URL)}
	n, err := adapter.TransactionCount(context.Background(), common.Address{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("TransactionCount = %d, want 5", n)
	}
}
