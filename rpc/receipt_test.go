package rpc_test

import (
	"strings"
	"testing"

	"github.com/ModChain/evmcodec/rpc"
)

func TestParseReceiptPostByzantium(t *testing.T) {
	raw := map[string]any{
		"type":              "0x2",
		"status":            "0x1",
		"cumulativeGasUsed": "0x5208",
		"logsBloom":         "0x" + strings.Repeat("0", 512),
		"contractAddress":   "0x1111111111111111111111111111111111111111",
		"logs": []any{
			map[string]any{
				"address": "0x2222222222222222222222222222222222222222",
				"topics": []any{
					"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
				},
				"data": "0x" + strings.Repeat("0", 64),
			},
		},
	}

	r, err := rpc.ParseReceipt(raw)
	if err != nil {
		t.Fatal(err)
	}
	if r.Status == nil || *r.Status != 1 {
		t.Fatalf("Status = %v, want 1", r.Status)
	}
	if len(r.PostState) != 0 {
		t.Fatalf("PostState = %x, want empty for a post-Byzantium receipt", r.PostState)
	}
	if r.ContractAddress == nil {
		t.Fatal("expected ContractAddress to be set")
	}
	if len(r.Logs) != 1 || len(r.Logs[0].Topics) != 1 {
		t.Fatalf("unexpected logs: %+v", r.Logs)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %s", err)
	}
}

func TestParseReceiptPreByzantium(t *testing.T) {
	raw := map[string]any{
		"root":              "0x" + strings.Repeat("ab", 32),
		"cumulativeGasUsed": "0x64",
		"logsBloom":         "0x" + strings.Repeat("0", 512),
	}

	r, err := rpc.ParseReceipt(raw)
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != nil {
		t.Fatalf("Status = %v, want nil", r.Status)
	}
	if len(r.PostState) != 32 {
		t.Fatalf("PostState length = %d, want 32", len(r.PostState))
	}
}

func TestParseReceiptRejectsShortBloom(t *testing.T) {
	raw := map[string]any{
		"status":            "0x1",
		"cumulativeGasUsed": "0x1",
		"logsBloom":         "0x00",
	}
	if _, err := rpc.ParseReceipt(raw); err == nil {
		t.Fatal("expected error for undersized logsBloom")
	}
}
