package chainreg_test

import (
	"testing"

	"github.com/ModChain/evmcodec/chainreg"
)

func TestLookupMainnet(t *testing.T) {
	e, ok := chainreg.Lookup(1)
	if !ok {
		t.Fatal("expected mainnet to be registered")
	}
	if e.Name != "mainnet" {
		t.Fatalf("Name = %q, want mainnet", e.Name)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := chainreg.Lookup(999999999); ok {
		t.Fatal("expected unknown chain id to miss")
	}
}

func TestAllNonEmpty(t *testing.T) {
	if len(chainreg.All()) == 0 {
		t.Fatal("expected a non-empty registry")
	}
}
