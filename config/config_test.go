package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ModChain/evmcodec/config"
)

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("nonce_dir: /var/lib/evmcodec/nonces\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.NonceDir != "/var/lib/evmcodec/nonces" {
		t.Fatalf("NonceDir = %q", f.NonceDir)
	}
	if f.NonceGrace != 30*time.Second {
		t.Fatalf("NonceGrace = %s, want default 30s", f.NonceGrace)
	}
}

func TestResolveChainOverride(t *testing.T) {
	f := config.Default()
	f.ChainOverrides = []config.ChainOverride{
		{ID: 1, RPCURL: "https://example.invalid/rpc", PollInterval: 5 * time.Second},
	}
	entry, ok := f.ResolveChain(1)
	if !ok {
		t.Fatal("expected mainnet to resolve")
	}
	if entry.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval = %s, want overridden 5s", entry.PollInterval)
	}
	if f.RPCURL(1) != "https://example.invalid/rpc" {
		t.Fatalf("RPCURL = %q", f.RPCURL(1))
	}
}
